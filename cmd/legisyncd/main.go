package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"legisync/internal/config"
	"legisync/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	sched, closer, err := buildScheduler(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", logging.Error(err))
		return
	}
	defer closer()

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler stopped", logging.Error(err))
	}
	logger.Info("legisyncd shutting down")
}
