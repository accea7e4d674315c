// Package calendar links follow-up tasks to events on the external
// calendar bridge.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"inboxiq/pkg/circuitbreaker"
	"inboxiq/pkg/metrics"
)

var (
	// ErrCalendarUnavailable covers network failures, timeouts and 5xx
	// answers. The remote event state is unknown when this is returned.
	ErrCalendarUnavailable = errors.New("calendar bridge unavailable")

	// ErrEventNotFound is the confirmed-missing signal: the bridge answered
	// 404 for the event id.
	ErrEventNotFound = errors.New("calendar event not found")

	// ErrBadEventPayload marks structurally invalid bridge responses.
	ErrBadEventPayload = errors.New("calendar bridge returned invalid payload")
)

// Event is a created calendar event as reported by the bridge.
type Event struct {
	EventID  string `json:"event_id"`
	EventURL string `json:"event_url"`
}

// Client talks to the calendar bridge over HTTP with a bounded timeout
// and a circuit breaker in front of every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout, // 超时，避免 worker 卡死
		},
		breaker: breaker,
		logger:  logger,
	}
}

type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueAt       time.Time `json:"due_at"`
	EmailUID    int64     `json:"email_uid"`
}

// CreateEvent registers a due-date event for a follow-up task.
func (c *Client) CreateEvent(ctx context.Context, title, description string, dueAt time.Time, emailUID int64) (*Event, error) {
	req := createEventRequest{
		Title:       title,
		Description: description,
		DueAt:       dueAt,
		EmailUID:    emailUID,
	}

	var event Event
	err := c.call(ctx, "create_event", func(callCtx context.Context) error {
		return c.doCreate(callCtx, req, &event)
	})
	if err != nil {
		return nil, err
	}
	if event.EventID == "" {
		return nil, fmt.Errorf("%w: missing event_id", ErrBadEventPayload)
	}
	return &event, nil
}

// GetEvent checks whether an event still exists on the bridge. A 404
// maps onto ErrEventNotFound; every other failure class keeps the remote
// state unknown.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	var event Event
	err := c.call(ctx, "get_event", func(callCtx context.Context) error {
		return c.doGet(callCtx, eventID, &event)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	start := time.Now()
	status := "ok"

	// 404 是确定的远端答复，不算熔断器失败
	var notFound error
	err := c.breaker.Execute(func() error {
		if inner := fn(ctx); inner != nil {
			if errors.Is(inner, ErrEventNotFound) {
				notFound = inner
				return nil
			}
			return inner
		}
		return nil
	})
	switch {
	case err != nil:
		status = "error"
		if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
			status = "breaker_open"
			err = fmt.Errorf("%w: circuit breaker open", ErrCalendarUnavailable)
		}
	case notFound != nil:
		status = "not_found"
		err = notFound
	}
	metrics.RecordCalendarCallLatency(operation, status, time.Since(start))
	return err
}

func (c *Client) doCreate(ctx context.Context, payload createEventRequest, out *Event) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: bridge returned %d", ErrCalendarUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: bridge returned %d", ErrBadEventPayload, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadEventPayload, err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, eventID string, out *Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events/"+eventID, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// 404 是唯一可信的“事件已删除”信号
		return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: bridge returned %d", ErrCalendarUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: bridge returned %d", ErrBadEventPayload, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadEventPayload, err)
	}
	return nil
}
