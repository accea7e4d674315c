package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

// FollowUpStore reads and updates follow-up rows.
type FollowUpStore interface {
	GetByID(ctx context.Context, id int64) (*model.FollowUp, error)
	ListByEmailUID(ctx context.Context, emailUID int64) ([]model.FollowUp, error)
	ListOpen(ctx context.Context, limit int) ([]model.FollowUp, error)
	UpdateStatus(ctx context.Context, task *model.FollowUp) error
}

// FollowUpService drives follow-up status transitions through the
// model's guards.
type FollowUpService struct {
	store  FollowUpStore
	logger *zap.Logger
}

func NewFollowUpService(store FollowUpStore, logger *zap.Logger) *FollowUpService {
	return &FollowUpService{
		store:  store,
		logger: logger,
	}
}

// Complete transitions a task open → completed. A second completion
// returns model.ErrAlreadyCompleted without touching storage.
func (s *FollowUpService) Complete(ctx context.Context, id int64) (*model.FollowUp, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.Complete(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Follow-up completed", zap.Int64("id", id))
	return task, nil
}

// Reopen transitions completed → open and clears the completion time.
func (s *FollowUpService) Reopen(ctx context.Context, id int64) (*model.FollowUp, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.Reopen(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Follow-up reopened", zap.Int64("id", id))
	return task, nil
}

func (s *FollowUpService) ListByEmail(ctx context.Context, emailUID int64) ([]model.FollowUp, error) {
	return s.store.ListByEmailUID(ctx, emailUID)
}

func (s *FollowUpService) ListOpen(ctx context.Context, limit int) ([]model.FollowUp, error) {
	if limit <= 0 {
		limit = 100
	} else if limit > 500 {
		limit = 500
	}
	return s.store.ListOpen(ctx, limit)
}
