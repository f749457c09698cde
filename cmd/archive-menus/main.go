// Command archive-menus marks menu pages older than two weeks as Archived.
// It exits 1 if any page could not be archived.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weekly-menu/internal/app"
)

func main() {
	env, err := app.Init("archive-menus")
	if err != nil {
		slog.Error("failed to initialise", slog.Any("error", err))
		os.Exit(1)
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archiver, err := env.Archiver()
	if err != nil {
		env.Fatal("invalid configuration", err)
	}

	stats, err := archiver.ArchiveOld(ctx, time.Now().In(env.Paths.Location))
	if err != nil {
		env.Fatal("archive run failed", err)
	}

	env.Logger.Info("archive finished",
		slog.Int("found", stats.Found),
		slog.Int("archived", stats.Archived))
}
