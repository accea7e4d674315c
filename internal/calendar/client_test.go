package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inboxiq/pkg/circuitbreaker"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, time.Second, circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()), zap.NewNop())
}

func TestCreateEvent(t *testing.T) {
	due := time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/events", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Send the quote", req["title"])
		assert.Equal(t, float64(42), req["email_uid"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"event_id":  "evt-1",
			"event_url": "https://cal/evt-1",
		})
	}))
	defer srv.Close()

	event, err := newTestClient(srv.URL).CreateEvent(context.Background(), "Send the quote", "desc", due, 42)

	require.NoError(t, err)
	assert.Equal(t, "evt-1", event.EventID)
	assert.Equal(t, "https://cal/evt-1", event.EventURL)
}

func TestCreateEventMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"event_url": "https://cal/x"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateEvent(context.Background(), "t", "", time.Now(), 1)
	assert.ErrorIs(t, err, ErrBadEventPayload)
}

func TestGetEventNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/events/evt-gone", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetEvent(context.Background(), "evt-gone")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetEventServerErrorUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetEvent(context.Background(), "evt-1")
	assert.ErrorIs(t, err, ErrCalendarUnavailable)
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := circuitbreaker.DefaultConfig()
	cfg.FailureThreshold = 2
	breaker := circuitbreaker.NewCircuitBreaker(cfg)
	c := NewClient(srv.URL, time.Second, breaker, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := c.GetEvent(context.Background(), "evt-gone")
		require.ErrorIs(t, err, ErrEventNotFound, "definitive answers must keep the breaker closed")
	}
	assert.Equal(t, circuitbreaker.StateClosed, breaker.GetState())
}
