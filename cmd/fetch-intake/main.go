// Command fetch-intake copies this week's intake from the preference store
// into DATA_DIR/intake.json. It exits 1 when no intake file is available.
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
	env, err := app.Init("fetch-intake")
	if err != nil {
		slog.Error("failed to initialise", slog.Any("error", err))
		os.Exit(1)
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := env.IntakeService()
	if err != nil {
		env.Fatal("invalid configuration", err)
	}

	res, err := svc.Fetch(ctx, time.Now())
	if err != nil {
		env.Fatal("intake fetch failed", err)
	}

	env.Logger.Info("intake saved",
		slog.String("file", res.Filename),
		slog.Bool("fallback", res.Fallback),
		slog.String("path", env.Files.Path("intake.json")))
}
