package intelligence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inboxiq/internal/fingerprint"
	"inboxiq/internal/model"
)

func newTestComposer(provider Provider) *Composer {
	return NewComposer(
		provider,
		NewHeuristicProvider(fingerprint.NewFingerprinter()),
		GeneratorConfig{ProviderTimeout: time.Second},
		zap.NewNop(),
	)
}

func TestComposeProviderPath(t *testing.T) {
	email := &model.Email{UID: 11, Subject: "Renewal", Sender: "dana@client.com"}
	insight := &model.Insight{EmailUID: 11, Summary: "Client wants to renew."}

	conf := 0.92
	provider := new(MockProvider)
	provider.On("ComposeReply", mock.Anything, email, insight, map[string]string(nil)).
		Return(&DraftReply{Body: "Hi Dana, confirming the renewal.", Confidence: &conf}, nil)

	draft := newTestComposer(provider).Compose(context.Background(), email, insight, nil)

	assert.Equal(t, int64(11), draft.EmailUID)
	assert.Equal(t, "Hi Dana, confirming the renewal.", draft.Body)
	assert.Equal(t, "llm", draft.Provider)
	assert.False(t, draft.UsedFallback)
	require.NotNil(t, draft.Confidence)
	assert.InDelta(t, 0.92, *draft.Confidence, 1e-9)
	provider.AssertExpectations(t)
}

func TestComposeFallsBackOnProviderError(t *testing.T) {
	email := &model.Email{UID: 12, Subject: "Renewal", Sender: "dana@client.com"}
	insight := &model.Insight{EmailUID: 12, Summary: "Client wants to renew.", ActionItems: []string{"Send quote"}}

	provider := new(MockProvider)
	provider.On("ComposeReply", mock.Anything, email, insight, map[string]string(nil)).
		Return(nil, ErrProviderUnavailable)

	draft := newTestComposer(provider).Compose(context.Background(), email, insight, nil)

	assert.True(t, draft.UsedFallback)
	assert.Equal(t, model.ProviderHeuristic, draft.Provider)
	assert.Contains(t, draft.Body, "Hi dana,")
	assert.Contains(t, draft.Body, "- Send quote")
	assert.Nil(t, draft.Confidence)
	assert.Nil(t, draft.SentAt, "a fresh draft is never marked sent")
}
