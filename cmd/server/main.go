package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"touristkiosk/internal/app"
	"touristkiosk/internal/config"
	"touristkiosk/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logs, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	application, err := app.NewApp(cfg, logs)
	if err != nil {
		logs.Error("Failed to initialize: %v", err)
		logs.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logs.Error("Failed to start server: %v", err)
		logs.Sync()
		os.Exit(1)
	}
}
