package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/worldsim/internal/config"
	"github.com/jwebster45206/worldsim/internal/handlers"
	"github.com/jwebster45206/worldsim/internal/logger"
	"github.com/jwebster45206/worldsim/internal/middleware"
	"github.com/jwebster45206/worldsim/internal/queue"
	"github.com/jwebster45206/worldsim/internal/session"
	"github.com/jwebster45206/worldsim/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logr := logger.Setup(cfg)
	logr.Info("starting worldsim API", "port", cfg.Port, "environment", cfg.Environment)

	storageService := storage.NewRedisStorage(cfg.RedisURL, logr)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := storageService.WaitForConnection(storageCtx); err != nil {
		logr.Error("failed to connect to storage", "error", err)
		os.Exit(1)
	}
	logr.Info("storage connection established")

	queueClient := queue.NewClient(cfg.RedisURL, cfg.TickQueueName)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logr.Error("error closing queue client", "error", err)
		}
	}()
	if err := queueClient.Ping(storageCtx); err != nil {
		logr.Error("failed to connect to tick queue", "error", err)
		os.Exit(1)
	}
	logr.Info("tick queue connection established")

	sessions := session.NewManager(storageService, cfg.WorldDir, cfg.RNGSeed, logr)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(storageService, logr))
	mux.Handle("/v1/sessions", handlers.NewSessionHandler(sessions, logr))
	mux.Handle("/v1/sessions/", handlers.NewTurnHandler(sessions, queueClient, logr))

	handler := middleware.Logger(logr, mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logr.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("server is shutting down...")

	if err := storageService.Close(); err != nil {
		logr.Error("error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logr.Info("server exited")
}
