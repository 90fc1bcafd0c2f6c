package notification

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/adilakhmetov/notify-relay/internal/api/respond"
	"github.com/adilakhmetov/notify-relay/internal/metrics"
	"github.com/adilakhmetov/notify-relay/internal/model"
	notifsvc "github.com/adilakhmetov/notify-relay/internal/service/notification"
)

// notificationService defines the interface that the Handler depends on.
type notificationService interface {
	CreateNotification(notifsvc.Input) model.Notification
	DrainNotifications() []model.Notification
}

// Handler handles HTTP requests related to notifications.
//
// It provides an ingest endpoint for producers and a fetch endpoint
// that the co-located polling client drains.
type Handler struct {
	service   notificationService
	validator *validator.Validate
}

// NewHandler creates a new Handler instance.
func NewHandler(s notificationService, v *validator.Validate) *Handler {
	return &Handler{service: s, validator: v}
}

// ActionRequest is one producer-supplied action button.
type ActionRequest struct {
	Label       string         `json:"label"`
	Caption     string         `json:"caption"`
	DisplayType string         `json:"displayType"`
	CommandID   string         `json:"commandId"`
	Args        map[string]any `json:"args"`
}

// IngestRequest represents the JSON body expected in an ingest request.
//
// Message is capped at 140 characters at the protocol level, but the
// server does not truncate: longer messages only risk display
// truncation on the host side. Enum fields are raw strings here so
// unknown values can degrade to defaults instead of failing the decode.
type IngestRequest struct {
	Message   string           `json:"message" validate:"required"`
	Type      string           `json:"type"`
	AutoClose *model.AutoClose `json:"autoClose"`
	Actions   []ActionRequest  `json:"actions"`
	Data      json.RawMessage  `json:"data"`
}

// IngestResponse is the success body of the ingest endpoint.
type IngestResponse struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notification_id"`
}

// FetchResponse is the body of the fetch endpoint.
type FetchResponse struct {
	Notifications []model.Notification `json:"notifications"`
}

// Ingest handles HTTP POST requests to enqueue a notification.
//
// It validates the request body, builds the record through the service,
// and returns the assigned notification id. Nothing is delivered
// synchronously: the record waits in the mailbox for the next poll.
func (h *Handler) Ingest(c *ginext.Context) {
	var req IngestRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		metrics.Rejected.Inc()
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid JSON payload"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		metrics.Rejected.Inc()
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing 'message' field"))
		return
	}

	in := notifsvc.Input{
		Message:   req.Message,
		Type:      req.Type,
		AutoClose: req.AutoClose,
		Data:      req.Data,
	}

	for _, a := range req.Actions {
		in.Actions = append(in.Actions, notifsvc.ActionInput{
			Label:       a.Label,
			Caption:     a.Caption,
			DisplayType: a.DisplayType,
			CommandID:   a.CommandID,
			Args:        a.Args,
		})
	}

	n := h.service.CreateNotification(in)

	respond.OK(c.Writer, IngestResponse{Success: true, NotificationID: n.ID})
}

// Fetch handles HTTP GET requests from the polling client.
//
// It returns every pending record and clears the mailbox as one step.
// A second call with no intervening ingests returns an empty list.
func (h *Handler) Fetch(c *ginext.Context) {
	respond.OK(c.Writer, FetchResponse{Notifications: h.service.DrainNotifications()})
}

// Health reports that the relay is up.
func (h *Handler) Health(c *ginext.Context) {
	respond.OK(c.Writer, map[string]string{"status": "ok"})
}
