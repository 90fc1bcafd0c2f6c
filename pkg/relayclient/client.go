// Package relayclient provides an HTTP client for the notify-relay
// wire protocol. It is used by the delivery poller and the relayctl
// CLI, and by any Go producer that prefers a typed API over raw HTTP.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wb-go/wbf/retry"

	"github.com/adilakhmetov/notify-relay/internal/model"
)

// Payload is the producer-side ingest body. The id and creation time
// are assigned by the server.
type Payload struct {
	Message   string           `json:"message"`
	Type      string           `json:"type,omitempty"`
	AutoClose *model.AutoClose `json:"autoClose,omitempty"`
	Actions   []model.Action   `json:"actions,omitempty"`
	Data      json.RawMessage  `json:"data,omitempty"`
}

type ingestResponse struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notification_id"`
}

type fetchResponse struct {
	Notifications []model.Notification `json:"notifications"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to a single relay server.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a Client for the given base URL. The token may be empty
// for loopback producers; the server exempts them from authentication.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Send pushes one notification and returns the server-assigned id.
func (c *Client) Send(ctx context.Context, p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ingest", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("relay API error: %s", apiError(resp))
	}

	var out ingestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return out.NotificationID, nil
}

// SendWithRetry pushes one notification, retrying transient failures
// according to the given strategy.
func (c *Client) SendWithRetry(ctx context.Context, p Payload, strategy retry.Strategy) (string, error) {
	var id string

	err := retry.Do(func() error {
		var sendErr error
		id, sendErr = c.Send(ctx, p)
		return sendErr
	}, strategy)

	return id, err
}

// Fetch drains the server mailbox and returns the pending records in
// arrival order. The records are gone from the server once this call
// completes; the caller owns delivery from here on.
func (c *Client) Fetch(ctx context.Context) ([]model.Notification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/notifications", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay API error: %s", apiError(resp))
	}

	var out fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return out.Notifications, nil
}

// apiError extracts the {"error": ...} body, falling back to the HTTP
// status line.
func apiError(resp *http.Response) string {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Sprintf("%s: %s", resp.Status, body.Error)
	}

	return resp.Status
}
