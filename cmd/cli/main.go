package main

import (
	"context"
	"log"

	"github.com/rlocatelli9/daily-diet-api/internal/client/cli"
	"github.com/rlocatelli9/daily-diet-api/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
