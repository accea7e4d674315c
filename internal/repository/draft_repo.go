package repository

import (
	"context"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

type DraftRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewDraftRepository(db DBTX, logger *zap.Logger) *DraftRepository {
	return &DraftRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert keeps one draft per email; regeneration replaces the body in
// place but never touches sent_at.
func (r *DraftRepository) Upsert(ctx context.Context, draft *model.Draft) error {
	query := `
        INSERT INTO drafts (email_uid, body, provider, generated_at, confidence, used_fallback)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (email_uid) DO UPDATE SET
            body          = EXCLUDED.body,
            provider      = EXCLUDED.provider,
            generated_at  = EXCLUDED.generated_at,
            confidence    = EXCLUDED.confidence,
            used_fallback = EXCLUDED.used_fallback
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		draft.EmailUID,
		draft.Body,
		draft.Provider,
		draft.GeneratedAt,
		draft.Confidence,
		draft.UsedFallback,
	).Scan(&draft.ID)
	if err != nil {
		r.logger.Error("Failed to upsert draft", zap.Int64("email_uid", draft.EmailUID), zap.Error(err))
		return translateErr(err)
	}
	return nil
}

func (r *DraftRepository) GetByEmailUID(ctx context.Context, emailUID int64) (*model.Draft, error) {
	query := `
        SELECT id, email_uid, body, provider, generated_at, confidence, used_fallback, sent_at
        FROM drafts
        WHERE email_uid = $1
    `
	var draft model.Draft
	err := r.db.QueryRow(ctx, query, emailUID).Scan(
		&draft.ID,
		&draft.EmailUID,
		&draft.Body,
		&draft.Provider,
		&draft.GeneratedAt,
		&draft.Confidence,
		&draft.UsedFallback,
		&draft.SentAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &draft, nil
}

func (r *DraftRepository) Delete(ctx context.Context, emailUID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drafts WHERE email_uid = $1`, emailUID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSent sets sent_at once; a later call never moves it back.
func (r *DraftRepository) MarkSent(ctx context.Context, emailUID int64) error {
	query := `
        UPDATE drafts
        SET sent_at = NOW()
        WHERE email_uid = $1 AND sent_at IS NULL
    `
	tag, err := r.db.Exec(ctx, query, emailUID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		// either no draft, or it is already marked sent
		if _, getErr := r.GetByEmailUID(ctx, emailUID); getErr != nil {
			return getErr
		}
	}
	return nil
}
