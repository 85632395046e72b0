package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplierhub/db"
	"supplierhub/db/migrations"
	"supplierhub/internal/blob"
	"supplierhub/internal/config"
	"supplierhub/internal/handlers"
	"supplierhub/internal/logger"
	"supplierhub/internal/paywall"
	"supplierhub/pkg/httpserver"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	var h *handlers.Handler
	if cfg.BackendConfigured() {
		dbConn, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			zapLogger.Fatal("Cannot connect to DB", zap.Error(err))
		}
		defer dbConn.Close()
		if cfg.Database.MaxOpenConns > 0 {
			dbConn.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		}

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(dbConn.DB); err != nil {
				zapLogger.Fatal("Failed to run migrations", zap.Error(err))
			}
		}

		h = handlers.NewHandler(db.NewStorage(dbConn), handlers.Options{
			Files:    initFiles(ctx, cfg, zapLogger),
			Cache:    initCache(ctx, cfg.Redis, zapLogger),
			CacheTTL: cfg.Paywall.CacheTTL,
			Log:      zapLogger,
		})
	} else {
		zapLogger.Warn("database url or jwt secret missing, serving public routes only")
	}

	router := handlers.NewRouter(h, handlers.RouterConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		ServiceKey: cfg.Auth.ServiceKey,
		Log:        zapLogger,
	})

	zapLogger.Info("Starting server", zap.String("address", cfg.Server.Address))
	server := httpserver.New(router, cfg.Server.Address, cfg.Server.ShutdownTimeout)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		zapLogger.Info("Got signal", zap.String("signal", s.String()))
	case err := <-server.Notify():
		zapLogger.Error("Server stopped", zap.Error(err))
	}

	if err := server.Shutdown(); err != nil {
		zapLogger.Error("Shutdown error", zap.Error(err))
		return
	}
	zapLogger.Info("Successful shutdown")
}

func initFiles(ctx context.Context, cfg *config.Config, log *zap.Logger) blob.Store {
	if cfg.MinIO.Endpoint == "" {
		log.Warn("no object store endpoint, keeping files in memory")
		return blob.NewMemory(cfg.Export.PublicBaseURL)
	}

	store, err := blob.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Error("object store unavailable, uploads disabled", zap.Error(err))
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		log.Warn("bucket check failed", zap.String("bucket", cfg.MinIO.Bucket), zap.Error(err))
	}
	return store
}

func initCache(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) paywall.Cache {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed, cache misses will hit the database", zap.Error(err))
	}
	return paywall.NewRedisCache(rdb)
}
