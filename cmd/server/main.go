package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fuelops/backend/internal/application/integration"
	appledger "github.com/fuelops/backend/internal/application/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/fuelops/backend/internal/infrastructure/cache"
	"github.com/fuelops/backend/internal/infrastructure/config"
	"github.com/fuelops/backend/internal/infrastructure/event"
	"github.com/fuelops/backend/internal/infrastructure/logger"
	infratenant "github.com/fuelops/backend/internal/infrastructure/tenant"
	"github.com/fuelops/backend/internal/interfaces/http/handler"
	"github.com/fuelops/backend/internal/interfaces/http/middleware"
	"github.com/fuelops/backend/internal/interfaces/http/router"
)

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
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FuelOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Int("registered_tenants", len(cfg.Registry.Tenants)),
	)

	// Tenant registry and caching resolver; each tenant's domain is
	// initialized lazily on its first request.
	registry := infratenant.NewConfigRegistry(cfg.Registry, cfg.Database)
	resolver := infratenant.NewCachingResolver(registry, cfg.Database, log,
		infratenant.WithInitializer(appledger.SeedSystemAccounts),
	)
	defer func() {
		if err := resolver.Close(); err != nil {
			log.Error("Error closing tenant connections", zap.Error(err))
		}
	}()

	// Event bus and idempotency store. Redis keeps duplicate suppression
	// shared across instances; the in-memory store covers single-node runs.
	eventBus := event.NewInMemoryEventBus(log)
	var idempotencyStore shared.IdempotencyStore
	if redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotencyStore = redisStore
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Application services
	accountService := appledger.NewAccountService(resolver, eventBus, log)
	voucherService := appledger.NewVoucherService(resolver, eventBus, log)
	reportService := appledger.NewReportService(resolver, log)

	// Station integration: sales and purchases become ledger vouchers,
	// deduplicated by event ID.
	saleHandler := integration.NewFuelSaleCompletedHandler(resolver, voucherService, log)
	purchaseHandler := integration.NewFuelPurchaseRecordedHandler(resolver, voucherService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(saleHandler, idempotencyStore, log))
	eventBus.Subscribe(event.NewIdempotentHandler(purchaseHandler, idempotencyStore, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// HTTP server
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validator", zap.Error(err))
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Env)
	systemHandler.RegisterRootRoutes(engine)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithGroupMiddleware(middleware.TenantKey(log)),
	)
	r.Register(handler.NewAccountHandler(accountService)).
		Register(handler.NewVoucherHandler(voucherService)).
		Register(handler.NewReportHandler(reportService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Event bus stop failed", zap.Error(err))
	}
	log.Info("Shutdown complete")
}
