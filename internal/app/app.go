package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"reportkit/internal/capture"
	"reportkit/internal/config"
	apierrors "reportkit/internal/errors"
	"reportkit/internal/exporter"
	"reportkit/internal/files"
	"reportkit/internal/infrastructure"
	custommw "reportkit/internal/middleware"
	handlers "reportkit/internal/transport/http"
	"reportkit/pkg/contracts/domain"
)

const AppName = "reportkit"

// Application wires configuration, observability, the export engine and the
// HTTP surface into one runnable unit
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Exporter      *exporter.Exporter
	Capture       *capture.Service
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ServiceMetrics
}

// NewApplication creates a fully wired application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", infrastructure.ServiceVersion))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if otelProviders.Meter != nil {
		metrics, err := infrastructure.CreateServiceMetrics(otelProviders.Meter)
		if err != nil {
			return nil, fmt.Errorf("create service metrics: %w", err)
		}
		app.Metrics = metrics
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices probes the headless renderer once and builds the export
// engine around whatever was found
func (a *Application) initializeServices() {
	renderer := capture.Probe(a.Logger, a.Config.Capture.ChromePath)
	a.Capture = capture.NewServiceWithOptions(renderer, a.Logger, capture.Options{
		Width:      a.Config.Capture.Width,
		Height:     a.Config.Capture.Height,
		Scale:      a.Config.Capture.Scale,
		Background: a.Config.Capture.Background,
	})
	a.Exporter = exporter.New(domain.DefaultCatalog(), a.Capture, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.Compress(5))

	if a.Config.RateLimit.Enabled {
		r.Use(custommw.NewRateLimiter(
			a.Config.RateLimit.RPS,
			a.Config.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.Capture)
		r.Mount("/health", healthHandler.Routes())

		artifactsHandler := handlers.NewArtifactsHandler(
			files.NewStore(a.Config.DownloadsDir(), a.Logger),
			a.Logger,
			errorHandler,
		)
		r.Mount("/artifacts", artifactsHandler.Routes())

		// exports get their own timeout since a headless render can take
		// far longer than a plain serialization
		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.ExportTimeout))

			exportHandler := handlers.NewExportHandler(a.Exporter, a.Metrics, a.Logger, errorHandler)
			r.Mount("/export", exportHandler.Routes())
		})
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start launches the HTTP server in the background
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.Bool("renderer_available", a.Capture.Available()),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
