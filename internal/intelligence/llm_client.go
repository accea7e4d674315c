package intelligence

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

	"inboxiq/internal/model"
	"inboxiq/pkg/circuitbreaker"
	"inboxiq/pkg/metrics"
)

// LLMClient talks to the LLM provider service over HTTP. Every call is
// bounded by the client timeout and guarded by a circuit breaker; any
// failure class maps onto ErrProviderUnavailable or ErrSchemaViolation.
type LLMClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewLLMClient(baseURL string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *LLMClient {
	return &LLMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout, // 超时，避免 worker 卡死
		},
		breaker: breaker,
		logger:  logger,
	}
}

func (c *LLMClient) Name() string {
	return "llm"
}

type analyzeRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Analyze requests {summary, action_items, priority, confidence} for one email.
func (c *LLMClient) Analyze(ctx context.Context, email *model.Email) (*Analysis, error) {
	req := analyzeRequest{
		Subject: email.Subject,
		Body:    email.BodyText,
	}
	if req.Body == "" {
		req.Body = email.BodyHTML
	}

	var analysis Analysis
	if err := c.post(ctx, "/analyze", req, &analysis); err != nil {
		return nil, err
	}

	if strings.TrimSpace(analysis.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", ErrSchemaViolation)
	}
	cleaned := make([]string, 0, len(analysis.ActionItems))
	for _, item := range analysis.ActionItems {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	analysis.ActionItems = cleaned
	return &analysis, nil
}

type composeRequest struct {
	Subject     string            `json:"subject"`
	Sender      string            `json:"sender"`
	Summary     string            `json:"summary"`
	ActionItems []string          `json:"action_items"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// ComposeReply requests a reply draft grounded on the email and its insight.
func (c *LLMClient) ComposeReply(ctx context.Context, email *model.Email, insight *model.Insight, prefs map[string]string) (*DraftReply, error) {
	req := composeRequest{
		Subject:     email.Subject,
		Sender:      email.Sender,
		Summary:     insight.Summary,
		ActionItems: insight.ActionItems,
		Preferences: prefs,
	}

	var reply DraftReply
	if err := c.post(ctx, "/compose", req, &reply); err != nil {
		return nil, err
	}

	if strings.TrimSpace(reply.Body) == "" {
		return nil, fmt.Errorf("%w: missing draft body", ErrSchemaViolation)
	}
	return &reply, nil
}

func (c *LLMClient) post(ctx context.Context, endpoint string, payload any, out any) error {
	start := time.Now()
	status := "ok"
	err := c.breaker.Execute(func() error {
		return c.doPost(ctx, endpoint, payload, out)
	})
	if err != nil {
		status = "error"
		if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
			status = "breaker_open"
			err = fmt.Errorf("%w: circuit breaker open", ErrProviderUnavailable)
		}
	}
	metrics.RecordProviderCallLatency(endpoint, status, time.Since(start))
	return err
}

func (c *LLMClient) doPost(ctx context.Context, endpoint string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 网络错误/超时 → 不可用，触发回退
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: provider returned %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: provider returned %d", ErrSchemaViolation, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}
