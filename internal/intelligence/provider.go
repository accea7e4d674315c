package intelligence

import (
	"context"
	"errors"

	"inboxiq/internal/model"
)

var (
	// ErrProviderUnavailable covers timeouts, network failures and 5xx
	// responses from the LLM provider service.
	ErrProviderUnavailable = errors.New("llm provider unavailable")
	// ErrSchemaViolation covers malformed or schema-violating provider
	// output. Treated the same as unavailability: fall back.
	ErrSchemaViolation = errors.New("llm provider returned malformed output")
)

// Analysis is the fixed response schema expected from a provider.
type Analysis struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
	Priority    *int     `json:"priority,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// DraftReply is a provider-produced reply draft.
type DraftReply struct {
	Body       string   `json:"body"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Provider is the capability interface behind insight and draft
// generation. Two variants exist: the remote LLM client and the
// deterministic heuristic provider used as its fallback.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, email *model.Email) (*Analysis, error)
	ComposeReply(ctx context.Context, email *model.Email, insight *model.Insight, prefs map[string]string) (*DraftReply, error)
}
