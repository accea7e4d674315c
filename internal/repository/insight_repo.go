package repository

import (
	"context"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

type InsightRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewInsightRepository(db DBTX, logger *zap.Logger) *InsightRepository {
	return &InsightRepository{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a copy bound to the given transaction.
func (r *InsightRepository) WithTx(tx DBTX) *InsightRepository {
	return &InsightRepository{db: tx, logger: r.logger}
}

// Upsert keeps at most one insight row per email.
func (r *InsightRepository) Upsert(ctx context.Context, insight *model.Insight) error {
	query := `
        INSERT INTO email_insights (email_uid, summary, action_items, priority_score,
                                    provider, generated_at, used_fallback, content_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (email_uid) DO UPDATE SET
            summary        = EXCLUDED.summary,
            action_items   = EXCLUDED.action_items,
            priority_score = EXCLUDED.priority_score,
            provider       = EXCLUDED.provider,
            generated_at   = EXCLUDED.generated_at,
            used_fallback  = EXCLUDED.used_fallback,
            content_hash   = EXCLUDED.content_hash
    `
	_, err := r.db.Exec(ctx, query,
		insight.EmailUID,
		insight.Summary,
		insight.ActionItems,
		insight.PriorityScore,
		insight.Provider,
		insight.GeneratedAt,
		insight.UsedFallback,
		insight.ContentHash,
	)
	if err != nil {
		r.logger.Error("Failed to upsert insight", zap.Int64("email_uid", insight.EmailUID), zap.Error(err))
		return translateErr(err)
	}
	return nil
}

func (r *InsightRepository) GetByEmailUID(ctx context.Context, emailUID int64) (*model.Insight, error) {
	query := `
        SELECT email_uid, summary, action_items, priority_score,
               provider, generated_at, used_fallback, content_hash
        FROM email_insights
        WHERE email_uid = $1
    `
	var insight model.Insight
	err := r.db.QueryRow(ctx, query, emailUID).Scan(
		&insight.EmailUID,
		&insight.Summary,
		&insight.ActionItems,
		&insight.PriorityScore,
		&insight.Provider,
		&insight.GeneratedAt,
		&insight.UsedFallback,
		&insight.ContentHash,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &insight, nil
}

// GetInsight adapts GetByEmailUID to the generator's cache-read interface:
// a missing row is a cache miss, not an error.
func (r *InsightRepository) GetInsight(ctx context.Context, emailUID int64) (*model.Insight, error) {
	insight, err := r.GetByEmailUID(ctx, emailUID)
	if err == ErrNotFound {
		return nil, nil
	}
	return insight, err
}

// ListByMailbox returns insights for a mailbox ordered by priority, the
// triage view the API serves.
func (r *InsightRepository) ListByMailbox(ctx context.Context, mailbox string, limit, offset int) ([]model.Insight, error) {
	query := `
        SELECT i.email_uid, i.summary, i.action_items, i.priority_score,
               i.provider, i.generated_at, i.used_fallback, i.content_hash
        FROM email_insights i
        JOIN emails e ON e.uid = i.email_uid
        WHERE e.mailbox = $1
        ORDER BY i.priority_score DESC, i.email_uid DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, mailbox, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list insights", zap.String("mailbox", mailbox), zap.Error(err))
		return nil, translateErr(err)
	}
	defer rows.Close()

	var insights []model.Insight
	for rows.Next() {
		var insight model.Insight
		if err := rows.Scan(
			&insight.EmailUID,
			&insight.Summary,
			&insight.ActionItems,
			&insight.PriorityScore,
			&insight.Provider,
			&insight.GeneratedAt,
			&insight.UsedFallback,
			&insight.ContentHash,
		); err != nil {
			return nil, err
		}
		insights = append(insights, insight)
	}
	return insights, rows.Err()
}
