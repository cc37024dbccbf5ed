package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/moviedb/internal/shared"
)

func main() {
	logger := shared.WithLogger(shared.NewLogger(nil), "run", shared.ShortID())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("application error: %v", err)
	}
}
