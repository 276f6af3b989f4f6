package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fulfillmentapp "github.com/orderfeed/backend/internal/application/fulfillment"
	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/fulfillment"
	"github.com/orderfeed/backend/internal/infrastructure/config"
	"github.com/orderfeed/backend/internal/infrastructure/feed"
	"github.com/orderfeed/backend/internal/infrastructure/logger"
	"github.com/orderfeed/backend/internal/infrastructure/metrics"
	"github.com/orderfeed/backend/internal/infrastructure/persistence"
	"github.com/orderfeed/backend/internal/infrastructure/telemetry"
	"github.com/orderfeed/backend/internal/interfaces/http/handler"
	"github.com/orderfeed/backend/internal/interfaces/http/middleware"
	"github.com/orderfeed/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting fulfillment feed",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = lp.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics export", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Database.LogLevel), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if tp.Enabled() {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{WithoutVariables: true}, log); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	if mp.Enabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get database handle", zap.Error(err))
		}
		poolMetrics, err := telemetry.RegisterDBPoolMetrics(mp.Meter("orderfeed/database"), sqlDB)
		if err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		} else {
			defer func() { _ = poolMetrics.Unregister() }()
		}
	}

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	statusRepo := persistence.NewGormOrderStatusRepository(db.DB)
	shippingInfoRepo := persistence.NewGormShippingInfoRepository(db.DB)

	// Extension points
	hooks := fulfillment.NewHooks()
	if err := fulfillmentapp.RegisterCustomFieldMappings(hooks, cfg.Export.CustomFields); err != nil {
		log.Fatal("Invalid custom field configuration", zap.Error(err))
	}

	// Initialize services
	serializer := feed.NewSerializer(feed.Options{
		OrderIDPrefix: cfg.Export.OrderIDPrefix,
		WeightUnit:    commerce.ParseWeightUnit(cfg.Export.WeightUnit),
		Hooks:         hooks,
	})
	orderQuery := fulfillmentapp.NewOrderQueryService(orderRepo, hooks, cfg.Export.PageSize)
	exportService := fulfillmentapp.NewExportService(orderQuery, serializer, cfg.Export.Location())
	trackingResolver := fulfillmentapp.NewTrackingLinkResolver(hooks, shippingInfoRepo)
	shipmentService := fulfillmentapp.NewShipmentService(orderRepo, statusRepo, shippingInfoRepo, trackingResolver)

	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.NewRegistry()
	}

	// Initialize handlers
	fulfillmentHandler := handler.NewFulfillmentHandler(
		cfg.HTTP.Path,
		handler.Credentials{Username: cfg.Auth.Username, Password: cfg.Auth.Password},
		exportService,
		shipmentService,
		registry,
	)
	healthHandler := handler.NewHealthHandler(db)

	engine := router.NewEngine(router.EngineConfig{
		Production:     cfg.App.IsProduction(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.Enabled(),
		},
		Metrics:     registry,
		MetricsPath: cfg.Metrics.Path,
	}, log)
	router.NewRouter(engine).
		Register(healthHandler).
		Register(fulfillmentHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("path", cfg.HTTP.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Failed to flush logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
