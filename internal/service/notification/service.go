package notification

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/adilakhmetov/notify-relay/internal/metrics"
	"github.com/adilakhmetov/notify-relay/internal/model"
)

// mailbox is the pending-notification store the service enqueues into
// and drains from.
type mailbox interface {
	Enqueue(model.Notification)
	Drain() []model.Notification
}

// Input carries the producer-supplied fields of a notification. Enum
// fields arrive as raw strings; the service is the single place where
// the lenient-input policy maps unknown values onto defaults.
type Input struct {
	Message   string
	Type      string
	AutoClose *model.AutoClose // nil means "not supplied", default 5000ms
	Actions   []ActionInput
	Data      json.RawMessage
}

// ActionInput is one producer-supplied action.
type ActionInput struct {
	Label       string
	Caption     string
	DisplayType string
	CommandID   string
	Args        map[string]any
}

// Service builds notification records and moves them through the
// mailbox.
type Service struct {
	box mailbox
	seq atomic.Uint64
}

// NewService creates a Service backed by the given mailbox.
func NewService(box mailbox) *Service {
	return &Service{box: box}
}

// CreateNotification assigns a fresh id and creation time, applies
// defaults, and enqueues the record. The sequence suffix keeps ids
// unique when several producers land in the same millisecond.
func (s *Service) CreateNotification(in Input) model.Notification {
	now := time.Now().UnixMilli()

	n := model.Notification{
		ID:        fmt.Sprintf("notif_%d_%d", now, s.seq.Add(1)-1),
		Message:   in.Message,
		Type:      model.ParseLevel(in.Type),
		AutoClose: model.DefaultAutoClose(),
		CreatedAt: now,
		Actions:   make([]model.Action, 0, len(in.Actions)),
		Data:      in.Data,
	}

	if in.AutoClose != nil {
		n.AutoClose = *in.AutoClose
	}

	for _, a := range in.Actions {
		n.Actions = append(n.Actions, model.Action{
			Label:       a.Label,
			Caption:     a.Caption,
			DisplayType: model.ParseDisplayType(a.DisplayType),
			CommandID:   a.CommandID,
			Args:        a.Args,
		})
	}

	s.box.Enqueue(n)
	metrics.Enqueued.Inc()

	zlog.Logger.Info().
		Str("id", n.ID).
		Str("type", string(n.Type)).
		Msg("notification enqueued")

	return n
}

// DrainNotifications empties the mailbox and returns its records in
// arrival order. Records are gone the moment this returns: if the
// response is lost in transit afterwards, so are they. That gap is the
// accepted cost of best-effort delivery.
func (s *Service) DrainNotifications() []model.Notification {
	drained := s.box.Drain()

	metrics.FetchCalls.Inc()

	if len(drained) > 0 {
		metrics.Drained.Add(float64(len(drained)))
		zlog.Logger.Info().Int("count", len(drained)).Msg("drained notifications")
	}

	return drained
}
