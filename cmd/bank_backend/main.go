package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/bank_core/internal/adapters/ratesource"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/SscSPs/bank_core/internal/core/services"
	"github.com/SscSPs/bank_core/internal/handlers"
	"github.com/SscSPs/bank_core/internal/middleware"
	"github.com/SscSPs/bank_core/internal/platform/config"
	"github.com/SscSPs/bank_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/bank_core/internal/repositories/memory"
	"github.com/SscSPs/bank_core/internal/utils"
	"github.com/SscSPs/bank_core/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repos.Close()

	sealer, err := utils.NewSealer(cfg.CardEncryptionKey)
	if err != nil {
		logger.Error("Failed to initialize card sealer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateSource := ratesource.NewHTTPSource(cfg.RateSourceURL, &http.Client{Timeout: cfg.RateFetchTimeout})
	serviceContainer := services.NewServiceContainer(cfg, repos, rateSource, sealer)

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	atmRate, err := limiter.NewRateFromFormatted(cfg.AtmRateLimit)
	if err != nil {
		logger.Error("Invalid ATM_RATE_LIMIT", slog.String("value", cfg.AtmRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	atmLimiter := limiter.New(limitermemory.NewStore(), atmRate)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.New(corsConfig(cfg)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, atmLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			repos.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("Server stopped")
}

// setupStorage opens the configured backend. Postgres is migrated before it is used.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage. Data is lost on restart.")
		return memory.NewRepositoryProvider(), nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, err
	}
	return pgsql.NewRepositoryProvider(dbPool), nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", handlers.IdempotencyKeyHeader, middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader, "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}
