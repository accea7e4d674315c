package service

import (
	"context"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

// DraftStore persists reply drafts.
type DraftStore interface {
	Upsert(ctx context.Context, draft *model.Draft) error
	GetByEmailUID(ctx context.Context, emailUID int64) (*model.Draft, error)
	Delete(ctx context.Context, emailUID int64) error
	MarkSent(ctx context.Context, emailUID int64) error
}

// PreferenceSource supplies the user's drafting preferences.
type PreferenceSource interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

// ReplyComposer builds a draft from an email and its insight.
type ReplyComposer interface {
	Compose(ctx context.Context, email *model.Email, insight *model.Insight, prefs map[string]string) *model.Draft
}

// InsightSource ensures an up-to-date insight exists for an email,
// reusing the cached one when the content is unchanged.
type InsightSource interface {
	ProcessEmail(ctx context.Context, uid int64) (*model.Insight, error)
}

// DraftService manages on-demand reply drafts.
type DraftService struct {
	emails   EmailSource
	insights InsightSource
	drafts   DraftStore
	prefs    PreferenceSource
	composer ReplyComposer
	logger   *zap.Logger
}

func NewDraftService(
	emails EmailSource,
	insights InsightSource,
	drafts DraftStore,
	prefs PreferenceSource,
	composer ReplyComposer,
	logger *zap.Logger,
) *DraftService {
	return &DraftService{
		emails:   emails,
		insights: insights,
		drafts:   drafts,
		prefs:    prefs,
		composer: composer,
		logger:   logger,
	}
}

// Compose builds and stores a fresh draft for the email, running the
// insight pipeline first when needed. Regeneration replaces the stored
// body; sent_at is untouched.
func (s *DraftService) Compose(ctx context.Context, emailUID int64) (*model.Draft, error) {
	email, err := s.emails.GetByUID(ctx, emailUID)
	if err != nil {
		return nil, err
	}

	insight, err := s.insights.ProcessEmail(ctx, emailUID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.prefs.GetAll(ctx)
	if err != nil {
		s.logger.Warn("Failed to load preferences, drafting without them",
			zap.Int64("email_uid", emailUID),
			zap.Error(err),
		)
		prefs = nil
	}

	draft := s.composer.Compose(ctx, email, insight, prefs)
	if err := s.drafts.Upsert(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Info("Draft composed",
		zap.Int64("email_uid", emailUID),
		zap.String("provider", draft.Provider),
		zap.Bool("used_fallback", draft.UsedFallback),
	)
	return draft, nil
}

func (s *DraftService) Get(ctx context.Context, emailUID int64) (*model.Draft, error) {
	return s.drafts.GetByEmailUID(ctx, emailUID)
}

func (s *DraftService) Delete(ctx context.Context, emailUID int64) error {
	return s.drafts.Delete(ctx, emailUID)
}

// MarkSent records the external send action. Idempotent: the first
// timestamp wins.
func (s *DraftService) MarkSent(ctx context.Context, emailUID int64) (*model.Draft, error) {
	if err := s.drafts.MarkSent(ctx, emailUID); err != nil {
		return nil, err
	}
	return s.drafts.GetByEmailUID(ctx, emailUID)
}
