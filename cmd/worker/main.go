package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/worldsim/internal/config"
	"github.com/jwebster45206/worldsim/internal/logger"
	"github.com/jwebster45206/worldsim/internal/queue"
	"github.com/jwebster45206/worldsim/internal/storage"
	"github.com/jwebster45206/worldsim/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logr := logger.Setup(cfg)
	logr.Info("starting worldsim worker", "environment", cfg.Environment, "redis_url", cfg.RedisURL)

	queueClient := queue.NewClient(cfg.RedisURL, cfg.TickQueueName)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logr.Error("error closing queue client", "error", err)
		}
	}()

	storageService := storage.NewRedisStorage(cfg.RedisURL, logr)
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer waitCancel()
	if err := storageService.WaitForConnection(waitCtx); err != nil {
		logr.Error("failed to connect to storage", "error", err)
		os.Exit(1)
	}
	logr.Info("storage connection established")

	w := worker.New(queueClient, storageService, cfg.RNGSeed, logr, os.Getenv("WORKER_ID"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			logr.Error("worker error", "error", err)
			os.Exit(1)
		}
	}()

	logr.Info("worker started, waiting for ticks...")
	<-quit
	logr.Info("worker shutdown signal received")

	w.Stop()
	time.Sleep(2 * time.Second)
	logr.Info("worker exited")
}
