package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "LOGDASH"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// DataConfig locates the three input datasets
type DataConfig struct {
	Dir           string   `yaml:"dir" envconfig:"DIR"`
	OrdersFile    string   `yaml:"orders_file" envconfig:"ORDERS_FILE"`
	FreightFile   string   `yaml:"freight_file" envconfig:"FREIGHT_FILE"`
	WarehouseFile string   `yaml:"warehouse_file" envconfig:"WAREHOUSE_FILE"`
	DateLayouts   []string `yaml:"date_layouts" envconfig:"DATE_LAYOUTS"`
}

// ChartsConfig controls rendered chart dimensions
type ChartsConfig struct {
	Width  int `yaml:"width" envconfig:"WIDTH"`
	Height int `yaml:"height" envconfig:"HEIGHT"`
}

// WebSocketConfig contains WebSocket configuration for the live view
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
	MaxMessageSize  int64         `yaml:"max_message_size" envconfig:"MAX_MESSAGE_SIZE"`
}

// TelemetryConfig controls OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// DefaultDateLayouts are tried in order when parsing the orders date column
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
}

// Load loads configuration from defaults, an optional config.yaml, an optional
// .env file and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFiles(getConfigFilePath(), ".env")
}

// LoadFiles is Load with explicit file locations. Empty or missing paths are skipped.
func LoadFiles(configFile, envFile string) (*Config, error) {
	if envFile != "" && fileExists(envFile) {
		// godotenv never overrides variables already present in the process
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := Default()

	if configFile != "" && fileExists(configFile) {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration and reports every problem found
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid server port: %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("server read timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("server write timeout must be positive"))
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one allowed origin must be specified when CORS is enabled"))
	}
	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		result = multierror.Append(result, fmt.Errorf("rate limit rps and burst must be positive"))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported log format: %q", c.Logging.Format))
	}
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported log output: %q", c.Logging.Output))
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		result = multierror.Append(result, fmt.Errorf("log file path is required for output %q", c.Logging.Output))
	}

	if c.Data.OrdersFile == "" || c.Data.FreightFile == "" || c.Data.WarehouseFile == "" {
		result = multierror.Append(result, fmt.Errorf("all three dataset file names must be set"))
	}
	if len(c.Data.DateLayouts) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one date layout must be configured"))
	}

	if c.Charts.Width < 100 || c.Charts.Height < 100 {
		result = multierror.Append(result, fmt.Errorf("chart dimensions must be at least 100x100, got %dx%d", c.Charts.Width, c.Charts.Height))
	}

	switch c.Telemetry.TraceExporter {
	case "none", "stdout":
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported trace exporter: %q", c.Telemetry.TraceExporter))
	}

	return result.ErrorOrNil()
}

// Address returns the listen address of the HTTP server
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// OrdersPath returns the resolved path of the orders file
func (d DataConfig) OrdersPath() string { return d.resolve(d.OrdersFile) }

// FreightPath returns the resolved path of the freight file
func (d DataConfig) FreightPath() string { return d.resolve(d.FreightFile) }

// WarehousePath returns the resolved path of the warehouse cost file
func (d DataConfig) WarehousePath() string { return d.resolve(d.WarehouseFile) }

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if fileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            7860,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:7860"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			Dir:           "data",
			OrdersFile:    "expanded_orders.csv",
			FreightFile:   "expanded_freight.csv",
			WarehouseFile: "expanded_wh_costs.csv",
			DateLayouts:   append([]string(nil), DefaultDateLayouts...),
		},
		Charts: ChartsConfig{
			Width:  800,
			Height: 400,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
			MaxMessageSize:  512,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			MetricsEnabled: true,
			TraceExporter:  "none",
			SampleRatio:    1.0,
		},
	}
}
