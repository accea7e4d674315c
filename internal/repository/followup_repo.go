package repository

import (
	"context"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

type FollowUpRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewFollowUpRepository(db DBTX, logger *zap.Logger) *FollowUpRepository {
	return &FollowUpRepository{
		db:     db,
		logger: logger,
	}
}

func (r *FollowUpRepository) WithTx(tx DBTX) *FollowUpRepository {
	return &FollowUpRepository{db: tx, logger: r.logger}
}

// ReplaceForEmail swaps the email's derived follow-ups. Completed tasks
// survive regeneration: only open rows are rebuilt.
func (r *FollowUpRepository) ReplaceForEmail(ctx context.Context, emailUID int64, tasks []model.FollowUp) error {
	query := `
        DELETE FROM follow_ups
        WHERE email_uid = $1 AND status = $2
    `
	if _, err := r.db.Exec(ctx, query, emailUID, model.FollowUpStatusOpen); err != nil {
		return translateErr(err)
	}

	for i := range tasks {
		task := &tasks[i]
		insert := `
            INSERT INTO follow_ups (email_uid, action, due_at, status, created_at)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id
        `
		err := r.db.QueryRow(ctx, insert,
			task.EmailUID,
			task.Action,
			task.DueAt,
			task.Status,
			task.CreatedAt,
		).Scan(&task.ID)
		if err != nil {
			r.logger.Error("Failed to insert follow-up",
				zap.Int64("email_uid", emailUID),
				zap.String("action", task.Action),
				zap.Error(err),
			)
			return translateErr(err)
		}
	}
	return nil
}

const followUpColumns = `
        id, email_uid, action, due_at, status, created_at, completed_at,
        calendar_event_id, calendar_synced_at`

func (r *FollowUpRepository) GetByID(ctx context.Context, id int64) (*model.FollowUp, error) {
	query := `SELECT` + followUpColumns + `
        FROM follow_ups
        WHERE id = $1
    `
	var task model.FollowUp
	err := r.db.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.EmailUID,
		&task.Action,
		&task.DueAt,
		&task.Status,
		&task.CreatedAt,
		&task.CompletedAt,
		&task.CalendarEventID,
		&task.CalendarSyncedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &task, nil
}

// GetFollowUp satisfies the calendar coordinator's store interface.
func (r *FollowUpRepository) GetFollowUp(ctx context.Context, id int64) (*model.FollowUp, error) {
	return r.GetByID(ctx, id)
}

func (r *FollowUpRepository) ListByEmailUID(ctx context.Context, emailUID int64) ([]model.FollowUp, error) {
	query := `SELECT` + followUpColumns + `
        FROM follow_ups
        WHERE email_uid = $1
        ORDER BY due_at ASC NULLS LAST, id ASC
    `
	return r.list(ctx, query, emailUID)
}

// ListOpen returns open tasks ordered by due date, optionally only those
// due before the horizon.
func (r *FollowUpRepository) ListOpen(ctx context.Context, limit int) ([]model.FollowUp, error) {
	query := `SELECT` + followUpColumns + `
        FROM follow_ups
        WHERE status = 'open'
        ORDER BY due_at ASC NULLS LAST, id ASC
        LIMIT $1
    `
	return r.list(ctx, query, limit)
}

func (r *FollowUpRepository) list(ctx context.Context, query string, args ...any) ([]model.FollowUp, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list follow-ups", zap.Error(err))
		return nil, translateErr(err)
	}
	defer rows.Close()

	var tasks []model.FollowUp
	for rows.Next() {
		var task model.FollowUp
		if err := rows.Scan(
			&task.ID,
			&task.EmailUID,
			&task.Action,
			&task.DueAt,
			&task.Status,
			&task.CreatedAt,
			&task.CompletedAt,
			&task.CalendarEventID,
			&task.CalendarSyncedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateStatus persists a completion transition driven by the model's
// guard methods.
func (r *FollowUpRepository) UpdateStatus(ctx context.Context, task *model.FollowUp) error {
	query := `
        UPDATE follow_ups
        SET status = $2, completed_at = $3
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, task.ID, task.Status, task.CompletedAt)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCalendarLink persists both paired calendar columns in one write.
func (r *FollowUpRepository) UpdateCalendarLink(ctx context.Context, task *model.FollowUp) error {
	query := `
        UPDATE follow_ups
        SET calendar_event_id = $2, calendar_synced_at = $3
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, task.ID, task.CalendarEventID, task.CalendarSyncedAt)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
