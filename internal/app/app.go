package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/metric"

	"logisticsdash/internal/charts"
	"logisticsdash/internal/config"
	"logisticsdash/internal/dataset"
	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/infrastructure"
	customMiddleware "logisticsdash/internal/middleware"
	"logisticsdash/internal/services"
	handlers "logisticsdash/internal/transport/http"
	ws "logisticsdash/internal/websocket"
)

// AppName is logged at startup
const AppName = "Supply Chain Logistics Dashboard"

var (
	// Version is set at build time with -ldflags "-X logisticsdash/internal/app.Version=..."
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = ""
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	Store         *dataset.Store
	Dashboard     *services.DashboardService
	Health        *services.HealthService
	WebSocketHub  *ws.Hub
	ErrorHandler  *apierrors.ErrorHandler
	Validator     *customMiddleware.Validator
	Router        *chi.Mux
	Server        *http.Server

	startTime     time.Time
	registrations []metric.Registration
}

// NewApplication loads the configuration and builds the application
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(ctx, cfg, logger)
}

// New wires every component from an already loaded configuration. The three
// datasets are loaded here; a missing file degrades to an empty table but a
// malformed one aborts startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("data_dir", cfg.Data.Dir))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		startTime:     time.Now(),
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		Validator:     customMiddleware.NewValidator(),
	}

	if err := a.initializeServices(ctx); err != nil {
		if shutdownErr := otelProviders.Shutdown(ctx); shutdownErr != nil {
			logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", shutdownErr.Error()))
		}
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := a.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services in dependency order
func (a *Application) initializeServices(ctx context.Context) error {
	metrics, err := infrastructure.CreateDashboardMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	a.Metrics = metrics

	store, err := dataset.Load(ctx, dataset.SourcesFromConfig(a.Config.Data), a.Logger)
	if err != nil {
		return err
	}
	a.Store = store

	rowsGauge, err := infrastructure.RegisterDatasetRowsGauge(a.OTelProviders.Meter, store.RowCounts)
	if err != nil {
		return fmt.Errorf("failed to register dataset gauge: %w", err)
	}
	runtimeGauges, err := infrastructure.RegisterRuntimeMetrics(a.OTelProviders.Meter, a.startTime)
	if err != nil {
		return fmt.Errorf("failed to register runtime metrics: %w", err)
	}
	a.registrations = append(a.registrations, rowsGauge, runtimeGauges)

	renderer := charts.NewRenderer(a.Config.Charts.Width, a.Config.Charts.Height)
	a.Dashboard = services.NewDashboardService(store, renderer, metrics, a.OTelProviders.Tracer, a.Logger)

	a.WebSocketHub = ws.NewHub(metrics, a.Logger)
	a.Health = services.NewHealthService(Version, BuildTime, store, a.WebSocketHub, a.Logger)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Minimal middleware only: the websocket upgrade must not be buffered, compressed or timed out
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Handle("/ws", ws.NewHandler(a.WebSocketHub, a.Dashboard, a.Validator, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger))

	// Prometheus scrape stays outside the request metrics it reports
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.Logger, a.ErrorHandler))

	pages, err := handlers.NewPageHandler(a.Dashboard, a.Validator, a.Logger, a.ErrorHandler)
	if err != nil {
		return err
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → Tracing → errors (logging, recovery, metrics) → headers → limits → Timeout
		r.Use(customMiddleware.Tracing(a.OTelProviders.Tracer))
		r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger, customMiddleware.MetricsObserver(a.Metrics)).Handler)
		r.Use(customMiddleware.SecurityHeaders)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r)
		r.Mount("/", pages.Routes())
	})

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Validator, a.Logger, a.ErrorHandler)
	clientLogHandler := handlers.NewClientLogHandler(a.Validator, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Post("/logs", clientLogHandler.Handle)
		r.Mount("/", dashboardHandler.Routes())
	})
}

func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", customMiddleware.RequestIDHeader},
		ExposedHeaders: []string{customMiddleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Address(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start starts the hub and the HTTP server. Listen failures call cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.WebSocketHub.Start()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", a.Server.Addr),
		slog.Any("years", a.Dashboard.Years()),
		slog.Any("rows", a.Store.RowCounts()))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	// hijacked websocket connections are not closed by Shutdown
	a.WebSocketHub.Stop()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	for _, reg := range a.registrations {
		if err := reg.Unregister(); err != nil {
			a.Logger.WarnContext(ctx, "Failed to unregister metric callback", slog.String("error", err.Error()))
		}
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(runCtx, cancel); err != nil {
		return err
	}

	<-runCtx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
