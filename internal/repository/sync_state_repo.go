package repository

import (
	"context"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

type SyncStateRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewSyncStateRepository(db DBTX, logger *zap.Logger) *SyncStateRepository {
	return &SyncStateRepository{
		db:     db,
		logger: logger,
	}
}

// GetCursor returns the mailbox's processing cursor, zero when the
// mailbox has never been processed.
func (r *SyncStateRepository) GetCursor(ctx context.Context, mailbox string) (*model.SyncCursor, error) {
	var cursor model.SyncCursor
	err := r.db.QueryRow(ctx,
		`SELECT mailbox, last_uid FROM sync_state WHERE mailbox = $1`, mailbox,
	).Scan(&cursor.Mailbox, &cursor.LastUID)
	if err != nil {
		if translateErr(err) == ErrNotFound {
			return &model.SyncCursor{Mailbox: mailbox}, nil
		}
		return nil, translateErr(err)
	}
	return &cursor, nil
}

// AdvanceCursor moves the cursor forward, never backward.
func (r *SyncStateRepository) AdvanceCursor(ctx context.Context, mailbox string, uid int64) error {
	query := `
        INSERT INTO sync_state (mailbox, last_uid)
        VALUES ($1, $2)
        ON CONFLICT (mailbox) DO UPDATE SET last_uid = GREATEST(sync_state.last_uid, EXCLUDED.last_uid)
    `
	_, err := r.db.Exec(ctx, query, mailbox, uid)
	if err != nil {
		r.logger.Error("Failed to advance cursor", zap.String("mailbox", mailbox), zap.Error(err))
	}
	return translateErr(err)
}
