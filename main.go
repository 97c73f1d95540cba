package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/moye/cli"
	"github.com/ardnew/moye/log"
)

func main() {
	// An interrupt cancels a running evaluation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
