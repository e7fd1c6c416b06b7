package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pos/cmd"
	"pos/internal/adapters/in/console"
	"pos/internal/adapters/out/kitchenapi"
	"pos/internal/adapters/out/orderstream"
	"pos/internal/core/application/kitchenview"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	configs, err := cmd.LoadConfig[cmd.KitchenConfig]()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	client, err := kitchenapi.NewClient(configs.BaseURL)
	if err != nil {
		log.Fatalf("Error creating kitchen client: %v", err)
	}

	view := kitchenview.NewView(client, client, logger)
	screen := console.New(view, os.Stdout)
	view.OnChange(screen.Render)

	wsURL := configs.WSURL
	if wsURL == "" {
		wsURL = channelURL(configs.BaseURL)
	}
	stream := orderstream.NewStream(wsURL, configs.BaseURL, view, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return stream.Run(ctx)
	})
	g.Go(func() error {
		if err := screen.Run(ctx, os.Stdin); err != nil {
			return err
		}
		stop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Kitchen display stopped: %v", err)
	}
}

// channelURL derives the order channel address from the service base URL.
func channelURL(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws/orders/"
}
