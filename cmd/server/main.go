package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"controlx/internal/config"
	"controlx/internal/database"
	"controlx/internal/feed"
	"controlx/internal/gateway"
	"controlx/internal/handlers"
	"controlx/internal/migrate"
	"controlx/internal/repositories"
	"controlx/internal/services"
)

func main() {
	ctx := context.Background()

	godotenv.Load()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize database connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to create postgres pool", zap.Error(err))
	}
	defer postgresPool.Close()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to create redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories and gateway
	eventRepo := repositories.NewPostgresEventRepository(postgresPool)
	userRepo := repositories.NewPostgresUserRepository(postgresPool)
	noteRepo := repositories.NewPostgresNoteRepository(postgresPool)

	collectionFeed := feed.New(redisClient, logger)
	gw := gateway.New(eventRepo, userRepo, noteRepo, collectionFeed, logger)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)

	// HTTP server
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handlers.New(gw, authSvc, logger).RegisterRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("starting server", zap.String("port", cfg.ServerPort))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
