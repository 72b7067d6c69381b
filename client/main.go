package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/Tincho2002/dotacion-assa-2025/internal/config"
	"github.com/Tincho2002/dotacion-assa-2025/internal/logging"
	"github.com/Tincho2002/dotacion-assa-2025/internal/webapp"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := webapp.Run(ctx, webapp.ConfigFrom(cfg), logger); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
