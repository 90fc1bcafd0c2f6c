package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/zlog"

	"github.com/adilakhmetov/notify-relay/internal/config"
	"github.com/adilakhmetov/notify-relay/internal/poller"
	"github.com/adilakhmetov/notify-relay/pkg/relayclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	_ = godotenv.Load()
	cfg := config.Must()

	client := relayclient.New(cfg.Poller.BaseURL, cfg.Poller.Token)

	// Host capabilities reachable from action buttons. Real hosts
	// register their own; the headless binary only logs.
	commands := poller.NewDispatcher()
	commands.Register("relay.log", func(_ context.Context, args map[string]any) error {
		zlog.Logger.Info().Interface("args", args).Msg("relay.log invoked")
		return nil
	})

	p := poller.New(client, poller.LogRenderer{}, commands, cfg.Poller.Interval)

	zlog.Logger.Info().
		Str("base_url", cfg.Poller.BaseURL).
		Dur("interval", cfg.Poller.Interval).
		Msg("poller started")

	p.Run(ctx)

	zlog.Logger.Info().Msg("poller stopped")
}
