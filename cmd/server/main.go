package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/stockops/backoffice/internal/application/catalog"
	appinv "github.com/stockops/backoffice/internal/application/inventory"
	appmaint "github.com/stockops/backoffice/internal/application/maintenance"
	appsales "github.com/stockops/backoffice/internal/application/sales"
	"github.com/stockops/backoffice/internal/infrastructure/config"
	applogger "github.com/stockops/backoffice/internal/infrastructure/logger"
	"github.com/stockops/backoffice/internal/infrastructure/persistence"
	"github.com/stockops/backoffice/internal/infrastructure/telemetry"
	"github.com/stockops/backoffice/internal/interfaces/http/handler"
	"github.com/stockops/backoffice/internal/interfaces/http/middleware"
	"github.com/stockops/backoffice/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := applogger.New(applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting stockops backoffice",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, applogger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	positionRepo := persistence.NewGormPositionRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	usageRepo := persistence.NewGormPartUsageRepository(db.DB)

	// Ledger core. All stock-moving services share one scope so every
	// document transition runs inside a single database transaction.
	scope := persistence.NewGormLedgerScope(db.DB)
	ledger := appinv.NewLedger(log)

	// Application services
	itemService := appcatalog.NewItemService(itemRepo, log)
	categoryService := appcatalog.NewCategoryService(categoryRepo, log)
	locationService := appcatalog.NewLocationService(locationRepo, log)
	receiptService := appinv.NewReceiptService(scope, ledger, log)
	transferService := appinv.NewTransferService(scope, ledger, log)
	reconciliationService := appinv.NewReconciliationService(positionRepo, batchRepo, log)
	saleService := appsales.NewService(scope, ledger, log)
	ticketService := appmaint.NewTicketService(ticketRepo, log)
	partRequestService := appmaint.NewPartRequestService(scope, ledger, log)
	partUsageService := appmaint.NewPartUsageService(usageRepo, ticketRepo, log)

	engine := router.New(
		router.Config{
			ServiceName:    cfg.Telemetry.ServiceName,
			TracingEnabled: cfg.Telemetry.Enabled,
			CORS: middleware.CORSConfig{
				AllowedOrigins: cfg.HTTP.CORSAllowOrigins,
				AllowedMethods: cfg.HTTP.CORSAllowMethods,
				AllowedHeaders: cfg.HTTP.CORSAllowHeaders,
			},
		},
		applogger.Recovery(log),
		applogger.GinMiddleware(log),
	).
		Register(handler.NewHealthHandler(db, version)).
		Register(handler.NewCatalogHandler(itemService, categoryService, locationService)).
		Register(handler.NewInventoryHandler(positionRepo, batchRepo, movementRepo, receiptService, transferService, reconciliationService)).
		Register(handler.NewSalesHandler(saleService)).
		Register(handler.NewMaintenanceHandler(ticketService, partRequestService, partUsageService)).
		Setup()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Reconciliation.Enabled {
		go reconciliationService.Run(runCtx, cfg.Reconciliation.CheckInterval)
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-runCtx.Done()
	log.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
