// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"venue-bot/cmd"
	"venue-bot/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Int("notify_destinations", len(config.Notify.Destinations)),
		zap.Bool("reminders", config.Reminder.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, config, logger); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}

	logger.Info("Application stopped")
}
