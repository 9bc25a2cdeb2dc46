// Package config provides centralized configuration management for the logistics
// dashboard. It loads configuration from several sources, validates it, and exposes
// a typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//  1. Default values (Default)
//  2. A YAML file (config.yaml, configs/config.yaml or LOGDASH_CONFIG_FILE)
//  3. A .env file in the working directory (never overrides the real environment)
//  4. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern LOGDASH_<SECTION>_<FIELD>:
//
//	LOGDASH_SERVER_PORT=7860
//	LOGDASH_DATA_DIR=/app
//	LOGDASH_DATA_ORDERS_FILE=expanded_orders.csv
//	LOGDASH_LOGGING_LEVEL=debug
//	LOGDASH_TELEMETRY_METRICS_ENABLED=false
//
// # Validation
//
// Validate reports every invalid setting at once rather than stopping at the
// first one, so a broken deployment shows all of its problems in a single log line.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    slog.Error("config", "error", err)
//	    os.Exit(1)
//	}
package config
