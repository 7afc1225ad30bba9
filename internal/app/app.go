package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"marketpulse/internal/config"
	apierrors "marketpulse/internal/errors"
	"marketpulse/internal/infrastructure"
	"marketpulse/internal/marketdata"
	customMiddleware "marketpulse/internal/middleware"
	"marketpulse/internal/services"
	handlers "marketpulse/internal/transport/http"
)

// BuildTime is set at link time with -ldflags "-X marketpulse/internal/app.BuildTime=..."
var BuildTime = ""

const compressionLevel = 5

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Paths            *config.Paths
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.DashboardMetrics
	Store            *marketdata.Store
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	Assets           fs.FS // Embedded page template and static files
}

// NewApplication loads configuration and the process logger, then builds the
// application around the embedded assets
func NewApplication(assets fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apierrors.NewConfigError("failed to load configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.GetPaths(cfg.Data.File)
	if err != nil {
		return nil, apierrors.NewConfigError("failed to resolve paths", err).
			WithContext("data_file", cfg.Data.File)
	}

	return New(cfg, paths, assets, logger)
}

// New wires an application from explicit dependencies. assets may be nil, in
// which case only the API is served.
func New(cfg *config.Config, paths *config.Paths, assets fs.FS, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		Assets:        assets,
	}

	app.initializeServices()

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	loader := marketdata.NewLoader(a.Logger, a.Metrics)
	a.Store = marketdata.NewStore(loader, a.Logger, a.Metrics)

	a.DashboardService = services.NewDashboardService(a.Store, a.Config.Data, a.Paths.DataFile, a.Logger, a.Metrics)
	a.HealthService = services.NewHealthService(config.AppVersion, BuildTime, a.Paths.DataFile, a.Store, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	// Order: RequestID, RealIP, OTel, Logger, Recoverer, Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Prometheus scrapes skip the rest of the chain
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	// Subrouters mounted in the group inherit these from the root
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	var routeErr error
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(errorHandler))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)
		r.Use(customMiddleware.Compress(compressionLevel))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
		routeErr = a.setupHTMLRoutes(r)
	})
	if routeErr != nil {
		return routeErr
	}

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	r.Route("/api", func(r chi.Router) {
		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.Logger, errorHandler)
		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Mount("/charts", dashboardHandler.ChartRoutes())

		r.Mount("/export", handlers.NewExportHandler(a.DashboardService, a.Logger, errorHandler).Routes())

		r.Post("/logs", handlers.NewClientLogHandler(a.Logger, errorHandler).Handle)
	})
}

// setupHTMLRoutes configures the dashboard page and its static assets
func (a *Application) setupHTMLRoutes(r chi.Router) error {
	if a.Assets == nil {
		a.Logger.Warn("Web assets not available, serving API only")
		return nil
	}

	page, err := handlers.NewPageHandler(a.DashboardService, a.Assets, a.Logger)
	if err != nil {
		return err
	}
	static, err := handlers.StaticHandler(a.Assets)
	if err != nil {
		return err
	}

	r.Method(http.MethodGet, "/", page)
	r.Method(http.MethodGet, "/static/*", static)
	return nil
}

// getCORSConfig builds the CORS policy from the security config
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"If-None-Match",
			"X-Request-ID",
		},
		ExposedHeaders: []string{"ETag", "X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start binds the listener and serves in the background. A serve failure
// calls cancel so Run can shut down.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", ln.Addr().String()),
		slog.String("data_file", a.Paths.DataFile))

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.warmCache(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// warmCache loads the data file once at startup. Failures are only logged;
// the page reports them on every request until the file is fixed.
func (a *Application) warmCache(ctx context.Context) {
	if _, err := a.DashboardService.Dashboard(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup data check failed",
			slog.String("data_file", a.Paths.DataFile),
			slog.String("message", marketdata.UserMessage(err)))
		return
	}
	a.Logger.InfoContext(ctx, "Startup data check passed", slog.Int("cached_tables", a.Store.Len()))
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted or the server fails
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
