package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prudhvinik1/authflow/internal/config"
	"github.com/prudhvinik1/authflow/internal/database"
	"github.com/prudhvinik1/authflow/internal/handlers"
	"github.com/prudhvinik1/authflow/internal/logging"
	"github.com/prudhvinik1/authflow/internal/notifications"
	"github.com/prudhvinik1/authflow/internal/repositories"
	"github.com/prudhvinik1/authflow/internal/services"
	"github.com/prudhvinik1/authflow/internal/session"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.IsProduction())
	slog.SetDefault(logger)

	// Initialize stores
	var accounts repositories.AccountRepository
	switch cfg.StoreDriver {
	case config.StorePostgres:
		postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer postgresPool.Close()

		if err := database.RunMigrations(ctx, postgresPool); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		accounts = repositories.NewPostgresAccountRepository(postgresPool)
	default:
		logger.Warn("using in-memory account store; data is lost on restart")
		accounts = repositories.NewMemoryAccountRepository()
	}

	var revocations repositories.RevocationRepository
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Error("failed to create redis client", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		revocations = repositories.NewRedisRevocationRepository(redisClient)
	} else {
		revocations = repositories.NewMemoryRevocationRepository()
	}

	var notifier notifications.Dispatcher
	if cfg.SMTP.Enabled() {
		notifier = notifications.NewSMTPDispatcher(cfg.SMTP, cfg.AppName, logger)
	} else {
		logger.Warn("SMTP_HOST not set; emails are logged instead of sent")
		notifier = notifications.NewLogDispatcher(logger)
	}

	sessions := session.NewManager(session.Options{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiry,
		Secure: cfg.IsProduction(),
	}, revocations)

	authService := services.NewAuthService(accounts, sessions, notifier, cfg.ClientURL, logger)
	authHandler := handlers.NewAuthHandler(authService, sessions, logger)

	// Initialize HTTP Server
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Health check endpoints
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.Mount("/api/auth", authHandler.Routes())

	// Start Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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

	logger.Info("starting server", "port", cfg.ServerPort, "store", cfg.StoreDriver)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
