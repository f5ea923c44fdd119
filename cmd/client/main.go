package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
