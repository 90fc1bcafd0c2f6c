// Package mailbox holds notifications between the moment a producer
// pushes them and the moment the polling client drains them. Everything
// is process memory: a restart empties the mailbox by construction.
package mailbox

import (
	"sync"

	"github.com/adilakhmetov/notify-relay/internal/model"
)

// Store is a FIFO mailbox shared between concurrent ingest requests and
// fetch requests. A single mutex makes Enqueue and Drain linearizable:
// no record is ever handed to two drains or silently dropped.
type Store struct {
	mu      sync.Mutex
	pending []model.Notification
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Enqueue appends a record. It never rejects; validation happens in the
// service before a record gets here.
func (s *Store) Enqueue(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, n)
}

// Drain removes and returns every pending record, in arrival order, as
// one indivisible step. The second of two back-to-back drains sees an
// empty mailbox: fetch is deliberately not idempotent.
func (s *Store) Drain() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return []model.Notification{}
	}

	drained := s.pending
	s.pending = nil

	return drained
}

// Len reports the number of pending records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}
