package main

import (
	"context"
	"log"

	"github.com/rlocatelli9/daily-diet-api/internal/logging"
	"github.com/rlocatelli9/daily-diet-api/internal/server"
	"github.com/rlocatelli9/daily-diet-api/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "app stopped with error", "error", err)
	}

}
