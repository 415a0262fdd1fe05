package main

import (
	"context"
	"ctchen222/mlb-compare/internal/api/controller"
	"ctchen222/mlb-compare/internal/api/repository"
	"ctchen222/mlb-compare/internal/api/service"
	"ctchen222/mlb-compare/internal/auth"
	"ctchen222/mlb-compare/internal/config"
	"ctchen222/mlb-compare/internal/db"
	"ctchen222/mlb-compare/internal/events"
	"ctchen222/mlb-compare/internal/gateway"
	"ctchen222/mlb-compare/internal/logger"
	"ctchen222/mlb-compare/internal/metrics"
	"ctchen222/mlb-compare/internal/server"
	"ctchen222/mlb-compare/internal/telemetry"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// ginMode honours GIN_MODE and defaults to release mode.
func ginMode() string {
	if mode := os.Getenv(gin.EnvGinMode); mode != "" {
		return mode
	}
	return gin.ReleaseMode
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)
	gin.SetMode(ginMode())

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	// Open the store and apply migrations
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("Database ready", "dialect", db.DialectFor(cfg.DatabaseURL))

	// Events are optional
	publisher := events.NopPublisher()
	if cfg.RedisAddr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb)
		slog.Info("Publishing events to Redis", "addr", cfg.RedisAddr, "channel", events.EventsChannel)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set, comparisons will return the fallback message")
	}
	comparer := gateway.NewGeminiClient(gateway.Config{
		BaseURL: cfg.GeminiAPIURL,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
	}, nil, slog.Default(), collector)

	// Create repositories
	userRepo := repository.NewUserRepository(pool)
	queryRepo := repository.NewQueryRepository(pool)

	// Create services
	tokens := auth.NewTokenManager([]byte(cfg.SecretKey), cfg.AccessTokenTTL)
	userService := service.NewUserService(userRepo, tokens, publisher)
	comparisonService := service.NewComparisonService(comparer, queryRepo, publisher)

	// Create controllers
	userController := controller.NewUserController(userService)
	comparisonController := controller.NewComparisonController(comparisonService)

	srv := server.NewServer(userService, userController, comparisonController, server.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Recorder:       collector,
		Gatherer:       reg,
	})

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "addr", cfg.ServerAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("Server exiting")
	return nil
}
