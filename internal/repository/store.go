package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inboxiq/internal/model"
)

// Store bundles the per-email derived records into one transactional
// write: readers never observe a fresh insight next to stale categories
// or follow-ups.
type Store struct {
	pool       *pgxpool.Pool
	insights   *InsightRepository
	categories *CategoryRepository
	followUps  *FollowUpRepository
	logger     *zap.Logger
}

func NewStore(pool *pgxpool.Pool, insights *InsightRepository, categories *CategoryRepository, followUps *FollowUpRepository, logger *zap.Logger) *Store {
	return &Store{
		pool:       pool,
		insights:   insights,
		categories: categories,
		followUps:  followUps,
		logger:     logger,
	}
}

// SaveInsightBundle writes insight, categories and follow-ups in one
// transaction. On any failure nothing is visible.
func (s *Store) SaveInsightBundle(ctx context.Context, insight *model.Insight, categories []model.Category, followUps []model.FollowUp) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return translateErr(err)
	}
	defer tx.Rollback(ctx)

	if err := s.insights.WithTx(tx).Upsert(ctx, insight); err != nil {
		return err
	}
	if err := s.categories.WithTx(tx).Replace(ctx, insight.EmailUID, categories); err != nil {
		return err
	}
	if err := s.followUps.WithTx(tx).ReplaceForEmail(ctx, insight.EmailUID, followUps); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error("Failed to commit insight bundle",
			zap.Int64("email_uid", insight.EmailUID),
			zap.Error(err),
		)
		return translateErr(err)
	}
	return nil
}
