package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/config"
	"github.com/kailas-cloud/recipedex/internal/db"
	"github.com/kailas-cloud/recipedex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/recipedex/internal/db/redis"
	logpkg "github.com/kailas-cloud/recipedex/internal/logger"
	"github.com/kailas-cloud/recipedex/internal/metrics"
	reciperepo "github.com/kailas-cloud/recipedex/internal/repository/recipe"
	sessionrepo "github.com/kailas-cloud/recipedex/internal/repository/session"
	chiTransport "github.com/kailas-cloud/recipedex/internal/transport/chi"
	"github.com/kailas-cloud/recipedex/internal/transport/food2fork"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	recipeuc "github.com/kailas-cloud/recipedex/internal/usecase/recipe"
	"github.com/kailas-cloud/recipedex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/recipedex/internal/usecase/session"
	"github.com/kailas-cloud/recipedex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recipedex API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterUpstreamMetrics()
	metrics.RegisterSearchMetrics()

	sessionTTL := time.Duration(cfg.Session.TTLSec) * time.Second

	store, err := newStore(&cfg.Database, sessionTTL)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	callTimeout := time.Duration(cfg.Upstream.TimeoutSec) * time.Second
	api := food2fork.NewClient(&food2fork.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		Timeout:    callTimeout,
		RatePerSec: cfg.Upstream.RatePerSec,
		Burst:      cfg.Upstream.Burst,
		Logger:     logger,
	})
	if cfg.Upstream.AuthToken == "" {
		logger.Warn("Recipe API token is empty, requests will likely be rejected")
	}

	// Repositories
	recipes := reciperepo.New(api)
	sessions := sessionrepo.New(store, sessionTTL)

	// Use case services
	sessionSvc, err := sessionuc.New(recipes, sessions,
		func(id string) search.SavedState { return sessions.Slots(id) },
		sessionuc.Config{
			Token:        cfg.Upstream.AuthToken,
			MaxActive:    cfg.Session.MaxActive,
			CallTimeout:  callTimeout,
			PageRollback: cfg.Session.RollbackPageOnError,
		},
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to create session service", zap.Error(err))
	}
	defer sessionSvc.Close()

	recipeSvc := recipeuc.New(recipes, cfg.Upstream.AuthToken, callTimeout)

	// Pass nil interface (not typed nil pointer) when the probe is off.
	var upstream healthuc.UpstreamPinger
	if cfg.Upstream.HealthProbe {
		upstream = api
	}
	healthSvc := healthuc.New(store, upstream, cfg.Upstream.AuthToken)

	server := chiTransport.NewServer(sessionSvc, recipeSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully", zap.Int("sessions_in_memory", sessionSvc.Active()))
}

// newStore creates the session store for the configured driver.
// Redis and Valkey share the rueidis client.
func newStore(cfg *config.DatabaseConfig, ttl time.Duration) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(memory.Config{MaxKeys: cfg.MaxKeys, TTL: ttl}), nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
