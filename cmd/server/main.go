package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/user/log-vault/internal/adapter/api"
	"github.com/user/log-vault/internal/adapter/api/middleware"
	"github.com/user/log-vault/internal/adapter/metrics"
	"github.com/user/log-vault/internal/adapter/repository/postgres"
	redisrepo "github.com/user/log-vault/internal/adapter/repository/redis"
	"github.com/user/log-vault/internal/auth"
	"github.com/user/log-vault/internal/domain"
	"github.com/user/log-vault/internal/pkg/config"
	"github.com/user/log-vault/internal/pkg/logger"
	"github.com/user/log-vault/internal/usecase"

	_ "github.com/lib/pq" // Keep for postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	operatorCreds, err := cfg.OperatorCreds()
	if err != nil {
		log.Error("failed to parse operator credentials", "error", err)
		os.Exit(1)
	}

	m := metrics.NewServiceMetrics()

	// --- Start Admin and Metrics Server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		log.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		log.Error("failed to open postgres connection", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	log.Info("connected to postgres")

	// --- Repositories ---
	var userRepo domain.UserRepository = postgres.NewUserRepository(db, log)
	logRepo := postgres.NewLogRepository(db, log)

	// The Redis user resolution cache is optional; without it every
	// resolution goes straight to Postgres.
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("could not connect to redis, user resolutions will fall back to postgres", "error", err)
		}
		userRepo = redisrepo.NewUserCache(redisClient, userRepo, log, cfg.UserCacheTTL, m)
		defer redisClient.Close()
	}

	// --- Auth ---
	validator := auth.NewTokenValidator([]byte(cfg.ServerSecret))
	operator := auth.NewOperatorAuth(operatorCreds)

	// --- Service and Router ---
	svc := usecase.NewLogService(userRepo, logRepo, log, m)
	router := api.NewRouter(cfg, log, validator, operator, svc, m)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      middleware.Logging(log)(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	log.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		log.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	log.Info("servers shut down gracefully")
}
