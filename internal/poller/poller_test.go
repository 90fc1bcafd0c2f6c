package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilakhmetov/notify-relay/internal/model"
)

type fetchResult struct {
	batch []model.Notification
	err   error
}

// scriptedFetcher plays back a fixed sequence of fetch results, then
// keeps returning empty batches.
type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

func (f *scriptedFetcher) Fetch(context.Context) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	if len(f.results) == 0 {
		return []model.Notification{}, nil
	}

	r := f.results[0]
	f.results = f.results[1:]

	return r.batch, r.err
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

type recordingRenderer struct {
	mu          sync.Mutex
	rendered    []string
	failIDs     map[string]bool
	lastActions []RenderAction
}

func (r *recordingRenderer) Render(_ context.Context, n model.Notification, actions []RenderAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failIDs[n.ID] {
		return errors.New("host surface rejected")
	}

	r.rendered = append(r.rendered, n.ID)
	r.lastActions = actions

	return nil
}

func (r *recordingRenderer) renderedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.rendered...)
}

func batch(ids ...string) []model.Notification {
	out := make([]model.Notification, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Notification{ID: id, Message: "msg " + id})
	}

	return out
}

func TestPoller_TickRendersInOrder(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{batch: batch("n1", "n2", "n3")}}}
	renderer := &recordingRenderer{}

	p := New(fetcher, renderer, NewDispatcher(), time.Hour)
	p.tick(context.Background())

	assert.Equal(t, []string{"n1", "n2", "n3"}, renderer.renderedIDs())
}

// A failed fetch skips the tick and nothing is rendered. If the server
// had already drained before the response was lost, those records are
// gone for good: that drain-then-crash window is the accepted
// best-effort delivery gap, and the poller must not crash over it.
func TestPoller_FetchFailureSkipsTick(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{err: errors.New("connection refused")},
		{batch: batch("n1")},
	}}
	renderer := &recordingRenderer{}

	p := New(fetcher, renderer, NewDispatcher(), time.Hour)

	p.tick(context.Background())
	assert.Empty(t, renderer.renderedIDs(), "failed tick must render nothing")

	p.tick(context.Background())
	assert.Equal(t, []string{"n1"}, renderer.renderedIDs(), "next tick retries naturally")
}

func TestPoller_RenderFailureDoesNotAbortBatch(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{batch: batch("n1", "n2", "n3")}}}
	renderer := &recordingRenderer{failIDs: map[string]bool{"n2": true}}

	p := New(fetcher, renderer, NewDispatcher(), time.Hour)
	p.tick(context.Background())

	assert.Equal(t, []string{"n1", "n3"}, renderer.renderedIDs(),
		"a rejected record must not block the rest of the batch")
}

func TestPoller_ClickDispatchesCommand(t *testing.T) {
	n := model.Notification{
		ID:      "n1",
		Message: "deploy done",
		Actions: []model.Action{
			{Label: "Open logs", CommandID: "logs.open", Args: map[string]any{"build": 42}},
			{Label: "Dismiss"},
		},
	}

	fetcher := &scriptedFetcher{results: []fetchResult{{batch: []model.Notification{n}}}}
	renderer := &recordingRenderer{}

	commands := NewDispatcher()

	var (
		invoked bool
		gotArgs map[string]any
	)
	commands.Register("logs.open", func(_ context.Context, args map[string]any) error {
		invoked = true
		gotArgs = args
		return nil
	})

	p := New(fetcher, renderer, commands, time.Hour)
	p.tick(context.Background())

	require.Len(t, renderer.lastActions, 2)

	require.NoError(t, renderer.lastActions[0].OnClick(context.Background()))
	assert.True(t, invoked)
	assert.Equal(t, map[string]any{"build": 42}, gotArgs)

	// No commandId: the click just dismisses.
	assert.NoError(t, renderer.lastActions[1].OnClick(context.Background()))
}

func TestPoller_ClickUnknownCommand(t *testing.T) {
	n := model.Notification{
		ID:      "n1",
		Actions: []model.Action{{Label: "Open", CommandID: "nobody.home"}},
	}

	fetcher := &scriptedFetcher{results: []fetchResult{{batch: []model.Notification{n}}}}
	renderer := &recordingRenderer{}

	p := New(fetcher, renderer, NewDispatcher(), time.Hour)
	p.tick(context.Background())

	require.Len(t, renderer.lastActions, 1)
	assert.Error(t, renderer.lastActions[0].OnClick(context.Background()))
}

func TestPoller_RunFirstTickImmediate(t *testing.T) {
	fetcher := &scriptedFetcher{}
	renderer := &recordingRenderer{}

	p := New(fetcher, renderer, NewDispatcher(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	require.Eventually(t, func() bool { return fetcher.callCount() == 1 },
		time.Second, 5*time.Millisecond, "first fetch must fire at startup, not after one interval")

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}

func TestPoller_RunTicksPeriodically(t *testing.T) {
	fetcher := &scriptedFetcher{}
	renderer := &recordingRenderer{}

	p := New(fetcher, renderer, NewDispatcher(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go p.Run(ctx)

	require.Eventually(t, func() bool { return fetcher.callCount() >= 3 },
		time.Second, 5*time.Millisecond)
}
