package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"inboxiq/contracts/mq"
	"inboxiq/pkg/metrics"
)

// ErrRateLimited rejects a manual sync inside the mailbox's cooldown
// window. The request is dropped, not queued.
var ErrRateLimited = errors.New("sync trigger rate limited")

// SyncGate is the per-scope cooldown limiter.
type SyncGate interface {
	TryAcquire(ctx context.Context, scope string) (bool, error)
	Clear(ctx context.Context, scope string) error
}

// EventPublisher hands events to the message broker.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// SyncTrigger accepts manual re-sync requests and fans them out to the
// worker through the broker, at most one per mailbox per cooldown window.
type SyncTrigger struct {
	gate      SyncGate
	publisher EventPublisher
	logger    *zap.Logger
}

func NewSyncTrigger(gate SyncGate, publisher EventPublisher, logger *zap.Logger) *SyncTrigger {
	return &SyncTrigger{
		gate:      gate,
		publisher: publisher,
		logger:    logger,
	}
}

// Trigger requests a backlog walk for the mailbox. Returns ErrRateLimited
// when a trigger already landed inside the current window.
func (s *SyncTrigger) Trigger(ctx context.Context, mailbox string) error {
	ok, err := s.gate.TryAcquire(ctx, "sync:"+mailbox)
	if err != nil {
		s.logger.Warn("Cooldown gate unavailable, allowing trigger",
			zap.String("mailbox", mailbox),
			zap.Error(err),
		)
	}
	if !ok {
		metrics.IncrementSyncRateLimited(mailbox)
		return ErrRateLimited
	}

	event := mq.SyncRequestedEvent{
		Mailbox:     mailbox,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(mq.RoutingKeySyncRequested, event); err != nil {
		// 发布失败就提前结束冷却，让用户可以重试
		if clearErr := s.gate.Clear(ctx, "sync:"+mailbox); clearErr != nil {
			s.logger.Warn("Failed to clear cooldown after publish failure",
				zap.String("mailbox", mailbox),
				zap.Error(clearErr),
			)
		}
		return err
	}

	s.logger.Info("Sync requested", zap.String("mailbox", mailbox))
	return nil
}
