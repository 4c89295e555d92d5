package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/config"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/database"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/logger"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/server"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/storage"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

func main() {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting inventory management API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	ctx := context.Background()

	if err := database.RunMigrations(ctx, db, "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully")

	store, err := storage.NewGCSStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to connect to object storage", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, login rate limiting will fail open", zap.Error(err))
	}

	// Seed the default admin account into an empty user table.
	userService := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewActivityRepository(db),
		cache.New(),
	)
	seeded, err := userService.SeedDefaultAdmin(ctx)
	if err != nil {
		log.Fatal("Failed to seed default admin", zap.Error(err))
	}
	if seeded {
		log.Warn("Seeded default admin account; change its password immediately",
			zap.String("username", service.DefaultAdminUsername))
	}

	srv := server.NewServer(cfg, log, db, store, redisClient)

	done := make(chan bool, 1)

	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
