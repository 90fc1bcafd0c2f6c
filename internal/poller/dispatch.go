package poller

import (
	"context"
	"fmt"
	"sync"
)

// CommandFunc is a host capability invoked when an action is clicked.
type CommandFunc func(ctx context.Context, args map[string]any) error

// Dispatcher maps declared command ids onto host capabilities. The
// binding is a lookup at click time, so producers can reference
// commands that get registered after their notification was enqueued.
type Dispatcher struct {
	mu       sync.RWMutex
	commands map[string]CommandFunc
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{commands: make(map[string]CommandFunc)}
}

// Register binds a command id to a capability, replacing any previous
// binding for the same id.
func (d *Dispatcher) Register(id string, fn CommandFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.commands[id] = fn
}

// Invoke looks up and runs the capability bound to id.
func (d *Dispatcher) Invoke(ctx context.Context, id string, args map[string]any) error {
	d.mu.RLock()
	fn, ok := d.commands[id]
	d.mu.RUnlock()

	if !ok {
		return fmt.Errorf("unknown command %q", id)
	}

	if err := fn(ctx, args); err != nil {
		return fmt.Errorf("command %q: %w", id, err)
	}

	return nil
}
