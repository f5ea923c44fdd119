package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		stop()
		os.Exit(1)
	}
}
