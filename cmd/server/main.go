package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	listingapp "github.com/renthub/backend/internal/application/listing"
	membershipapp "github.com/renthub/backend/internal/application/membership"
	"github.com/renthub/backend/internal/infrastructure/auth"
	"github.com/renthub/backend/internal/infrastructure/config"
	"github.com/renthub/backend/internal/infrastructure/event"
	"github.com/renthub/backend/internal/infrastructure/logger"
	"github.com/renthub/backend/internal/infrastructure/notify"
	"github.com/renthub/backend/internal/infrastructure/persistence"
	"github.com/renthub/backend/internal/infrastructure/telemetry"
	"github.com/renthub/backend/internal/interfaces/http/handler"
	"github.com/renthub/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting RentHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLogLevel := gormlogger.Silent
	if cfg.Log.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected and migrated")

	// Repositories
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	packageRepo := persistence.NewGormPackageRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)

	sinks := []membershipapp.NotificationSink{notify.NewZapSink(log)}
	if cfg.Notify.RedisEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unreachable, notifications fall back to logs", zap.Error(err))
		} else {
			sinks = append(sinks, notify.NewRedisSink(redisClient, cfg.Notify.RedisChannel))
			defer func() { _ = redisClient.Close() }()
		}
		cancel()
	}
	eventBus.Subscribe(membershipapp.NewNotificationHandler(log, sinks...))

	metrics, err := telemetry.NewMembershipMetrics(log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	eventBus.Subscribe(metrics)

	ctx := context.Background()
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	entitlementSvc := membershipapp.NewEntitlementService(packageRepo, membershipRepo, eventBus, log)
	ledgerSvc := membershipapp.NewLedgerService(txRepo, entitlementSvc, eventBus, log)
	quotaSvc := membershipapp.NewQuotaService(membershipRepo, log)
	packageSvc := membershipapp.NewPackageService(packageRepo, log)
	listingSvc := listingapp.NewListingService(listingRepo, quotaSvc, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(router.Dependencies{
		Config:       cfg,
		Logger:       log,
		JWTService:   jwtService,
		System:       handler.NewSystemHandler(db, version),
		Transactions: handler.NewTransactionHandler(ledgerSvc),
		Memberships:  handler.NewMembershipHandler(quotaSvc),
		Packages:     handler.NewPackageHandler(packageSvc),
		Listings:     handler.NewListingHandler(listingSvc),
	})

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus stop failed", zap.Error(err))
	}

	log.Info("Server exited")
}
