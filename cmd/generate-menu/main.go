// Command generate-menu drafts this week's menu from the rules file and the
// saved intake and writes DATA_DIR/generated_menu.json.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weekly-menu/internal/app"
	"weekly-menu/internal/infra/storage"
)

func main() {
	env, err := app.Init("generate-menu")
	if err != nil {
		slog.Error("failed to initialise", slog.Any("error", err))
		os.Exit(1)
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator, err := env.Generator(ctx)
	if err != nil {
		env.Fatal("invalid configuration", err)
	}

	m, err := generator.Generate(ctx, time.Now())
	if err != nil {
		env.Fatal("menu generation failed", err)
	}

	env.Logger.Info("menu saved",
		slog.String("week_start", m.WeekStart.Format("2006-01-02")),
		slog.Bool("intake_used", m.IntakeDataAvailable),
		slog.String("path", env.Files.Path(storage.GeneratedMenuFile)))
}
