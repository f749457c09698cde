// Command publish-menu publishes DATA_DIR/generated_menu.json as this week's
// menu page, archiving any page already published for the same week.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"weekly-menu/internal/app"
	"weekly-menu/internal/infra/storage"
	"weekly-menu/internal/usecase/menu"
)

func main() {
	env, err := app.Init("publish-menu")
	if err != nil {
		slog.Error("failed to initialise", slog.Any("error", err))
		os.Exit(1)
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher, err := env.Publisher()
	if err != nil {
		env.Fatal("invalid configuration", err)
	}

	m, err := env.Files.LoadMenu()
	if errors.Is(err, storage.ErrNotExist) {
		err = errors.Join(menu.ErrNoMenu, err)
	}
	if err != nil {
		env.Fatal("failed to load generated menu", err)
	}

	page, err := publisher.Publish(ctx, m)
	if err != nil {
		env.Fatal("menu publish failed", err)
	}

	env.Logger.Info("menu published",
		slog.String("page_id", page.ID),
		slog.String("url", page.URL),
		slog.String("title", page.Title))
}
