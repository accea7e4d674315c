package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inboxiq/contracts/mq"
)

func TestTriggerPublishesWhenOutsideCooldown(t *testing.T) {
	gate := new(MockGate)
	gate.On("TryAcquire", mock.Anything, "sync:INBOX").Return(true, nil)

	publisher := new(MockPublisher)
	publisher.On("Publish", mq.RoutingKeySyncRequested, mock.MatchedBy(func(e mq.SyncRequestedEvent) bool {
		return e.Mailbox == "INBOX" && !e.RequestedAt.IsZero()
	})).Return(nil)

	s := NewSyncTrigger(gate, publisher, zap.NewNop())
	require.NoError(t, s.Trigger(context.Background(), "INBOX"))
	publisher.AssertExpectations(t)
}

func TestTriggerRateLimitedInsideCooldown(t *testing.T) {
	gate := new(MockGate)
	gate.On("TryAcquire", mock.Anything, "sync:INBOX").Return(false, nil)

	publisher := new(MockPublisher) // must not be called

	s := NewSyncTrigger(gate, publisher, zap.NewNop())
	err := s.Trigger(context.Background(), "INBOX")

	assert.ErrorIs(t, err, ErrRateLimited)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTriggerFailsOpenWhenGateUnavailable(t *testing.T) {
	gate := new(MockGate)
	gate.On("TryAcquire", mock.Anything, "sync:INBOX").Return(true, assert.AnError)

	publisher := new(MockPublisher)
	publisher.On("Publish", mq.RoutingKeySyncRequested, mock.Anything).Return(nil)

	s := NewSyncTrigger(gate, publisher, zap.NewNop())
	assert.NoError(t, s.Trigger(context.Background(), "INBOX"))
}

func TestTriggerClearsCooldownOnPublishFailure(t *testing.T) {
	gate := new(MockGate)
	gate.On("TryAcquire", mock.Anything, "sync:INBOX").Return(true, nil)
	gate.On("Clear", mock.Anything, "sync:INBOX").Return(nil)

	publisher := new(MockPublisher)
	publisher.On("Publish", mq.RoutingKeySyncRequested, mock.Anything).Return(assert.AnError)

	s := NewSyncTrigger(gate, publisher, zap.NewNop())
	err := s.Trigger(context.Background(), "INBOX")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
	gate.AssertCalled(t, "Clear", mock.Anything, "sync:INBOX")
}
