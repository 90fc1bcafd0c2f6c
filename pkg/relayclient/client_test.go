package relayclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	"github.com/adilakhmetov/notify-relay/internal/model"
)

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ingest", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "token s3cret", r.Header.Get("Authorization"))

		var p Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "Build completed", p.Message)
		assert.Equal(t, "success", p.Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "notification_id": "notif_1700000000000_0"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "s3cret")

	id, err := c.Send(context.Background(), Payload{Message: "Build completed", Type: "success"})

	require.NoError(t, err)
	assert.Equal(t, "notif_1700000000000_0", id)
}

func TestClient_SendWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "no token must mean no Authorization header")
		_, _ = w.Write([]byte(`{"success": true, "notification_id": "notif_1_0"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Send(context.Background(), Payload{Message: "m"})

	require.NoError(t, err)
}

func TestClient_SendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "missing 'message' field"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Send(context.Background(), Payload{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'message' field")
}

func TestClient_SendWithRetry(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		_, _ = w.Write([]byte(`{"success": true, "notification_id": "notif_1_0"}`))
	}))
	defer srv.Close()

	strategy := retry.Strategy{Attempts: 3, Delay: time.Millisecond}

	id, err := New(srv.URL, "").SendWithRetry(context.Background(), Payload{Message: "m"}, strategy)

	require.NoError(t, err)
	assert.Equal(t, "notif_1_0", id)
	assert.EqualValues(t, 2, calls.Load())
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/notifications", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications": [
			{"id": "notif_1_0", "message": "first", "type": "info", "autoClose": 5000, "createdAt": 1, "actions": []},
			{"id": "notif_1_1", "message": "second", "type": "warning", "autoClose": false, "createdAt": 2, "actions": []}
		]}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL, "").Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "notif_1_0", got[0].ID)
	assert.Equal(t, model.LevelWarning, got[1].Type)
	assert.True(t, got[1].AutoClose.Disabled)
}

func TestClient_FetchTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", "") // nothing listens here

	_, err := c.Fetch(context.Background())

	assert.Error(t, err)
}
