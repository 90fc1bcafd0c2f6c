// Package poller implements the client side of the relay: a recurring
// fetch-and-render loop that drains the server mailbox and surfaces
// each record through the host notification surface.
package poller

import (
	"context"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/adilakhmetov/notify-relay/internal/model"
)

const defaultInterval = 30 * time.Second

// fetcher drains the server mailbox.
type fetcher interface {
	Fetch(ctx context.Context) ([]model.Notification, error)
}

// Renderer is the host notification surface the poller delivers into.
// Implementations display a toast and a notification-center entry; they
// are consumed here, not implemented.
type Renderer interface {
	Render(ctx context.Context, n model.Notification, actions []RenderAction) error
}

// RenderAction is one clickable button handed to the Renderer. OnClick
// runs the bound command, if any; the host dismisses the notification
// after it returns.
type RenderAction struct {
	Label       string
	Caption     string
	DisplayType model.DisplayType
	OnClick     func(ctx context.Context) error
}

// Poller periodically drains the relay and renders what it gets.
type Poller struct {
	client   fetcher
	renderer Renderer
	commands *Dispatcher
	interval time.Duration
}

// New creates a Poller. A non-positive interval falls back to 30s.
func New(client fetcher, renderer Renderer, commands *Dispatcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Poller{
		client:   client,
		renderer: renderer,
		commands: commands,
		interval: interval,
	}
}

// Run fetches immediately, then on a fixed period until ctx is
// cancelled. Ticks run sequentially in this goroutine: the fetch and
// the render pass are one unit, so a slow tick delays the next one
// rather than overlapping with it, and render order always matches
// mailbox order.
func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("poller shutting down")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick drains the mailbox once and renders the batch in FIFO order.
// Delivery is best-effort: a failed fetch is logged and the tick is
// skipped, with no backoff beyond waiting for the next period; a failed
// render skips that record only.
func (p *Poller) tick(ctx context.Context) {
	batch, err := p.client.Fetch(ctx)
	if err != nil {
		zlog.Logger.Warn().Err(err).Msg("fetch failed, retrying next tick")
		return
	}

	for _, n := range batch {
		if err := p.renderer.Render(ctx, n, p.renderActions(n)); err != nil {
			zlog.Logger.Error().Err(err).Str("id", n.ID).Msg("failed to render notification")
		}
	}
}

// renderActions binds each declared action to the command dispatcher.
// The command lookup happens at click time; nothing is captured at
// enqueue time on the server.
func (p *Poller) renderActions(n model.Notification) []RenderAction {
	actions := make([]RenderAction, 0, len(n.Actions))

	for _, a := range n.Actions {
		actions = append(actions, RenderAction{
			Label:       a.Label,
			Caption:     a.Caption,
			DisplayType: a.DisplayType,
			OnClick:     p.onClick(a),
		})
	}

	return actions
}

func (p *Poller) onClick(a model.Action) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if a.CommandID == "" {
			// Click just dismisses.
			return nil
		}

		return p.commands.Invoke(ctx, a.CommandID, a.Args)
	}
}
