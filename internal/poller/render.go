package poller

import (
	"context"

	"github.com/wb-go/wbf/zlog"

	"github.com/adilakhmetov/notify-relay/internal/model"
)

// LogRenderer is the headless host surface used by the poller binary:
// toasts become log lines. Silent notifications are logged at debug,
// matching their center-only visibility.
type LogRenderer struct{}

func (LogRenderer) Render(_ context.Context, n model.Notification, actions []RenderAction) error {
	event := zlog.Logger.Info()
	if n.AutoClose.Silent() {
		event = zlog.Logger.Debug()
	}

	labels := make([]string, 0, len(actions))
	for _, a := range actions {
		labels = append(labels, a.Label)
	}

	event.
		Str("id", n.ID).
		Str("type", string(n.Type)).
		Strs("actions", labels).
		Msg(n.Message)

	return nil
}
