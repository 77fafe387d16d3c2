// Command server runs the county health prediction web application.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/config"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/database"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/monitoring"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/ratelimit"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/server"
)

func main() {
	cfg := config.LoadServer()

	logger := monitoring.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger.Logger)

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	service := database.NewPredictionService(db, repo)

	metrics := monitoring.NewMetrics()

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer redisClient.Close()
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig())

	templates, err := server.LoadTemplates()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	handler := server.NewHandler(service, repo, db, templates, metrics, logger)
	router := server.NewRouter(handler, metrics, logger, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}
