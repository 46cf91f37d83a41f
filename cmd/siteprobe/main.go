package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"siteprobe/cmd/siteprobe/app"
	"siteprobe/internal/limiter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := limiter.NewClock()

	// A nil client lets the probe use the default client for crawling and a
	// pooled session for the load test.
	err := app.Run(ctx, os.Args, os.Stdout, os.Stderr, nil, clock)
	if err != nil {
		stop()
		log.Print(err)
		os.Exit(1)
	}
}
