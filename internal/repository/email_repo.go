package repository

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

type EmailRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewEmailRepository(db DBTX, logger *zap.Logger) *EmailRepository {
	return &EmailRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert stores or refreshes a synced email record.
func (r *EmailRepository) Upsert(ctx context.Context, email *model.Email) error {
	attachments, err := json.Marshal(email.Attachments)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO emails (uid, message_id, thread_id, subject, sender, recipients,
                            sent_at, received_at, body_text, body_html, mailbox,
                            content_hash, attachments)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (uid) DO UPDATE SET
            message_id   = EXCLUDED.message_id,
            thread_id    = EXCLUDED.thread_id,
            subject      = EXCLUDED.subject,
            sender       = EXCLUDED.sender,
            recipients   = EXCLUDED.recipients,
            sent_at      = EXCLUDED.sent_at,
            received_at  = EXCLUDED.received_at,
            body_text    = EXCLUDED.body_text,
            body_html    = EXCLUDED.body_html,
            mailbox      = EXCLUDED.mailbox,
            content_hash = EXCLUDED.content_hash,
            attachments  = EXCLUDED.attachments
    `
	_, err = r.db.Exec(ctx, query,
		email.UID,
		email.MessageID,
		email.ThreadID,
		email.Subject,
		email.Sender,
		email.Recipients,
		email.SentAt,
		email.ReceivedAt,
		email.BodyText,
		email.BodyHTML,
		email.Mailbox,
		email.ContentHash,
		attachments,
	)
	if err != nil {
		r.logger.Error("Failed to upsert email", zap.Int64("uid", email.UID), zap.Error(err))
		return translateErr(err)
	}
	return nil
}

func (r *EmailRepository) GetByUID(ctx context.Context, uid int64) (*model.Email, error) {
	query := `
        SELECT uid, message_id, thread_id, subject, sender, recipients,
               sent_at, received_at, body_text, body_html, mailbox,
               content_hash, attachments
        FROM emails
        WHERE uid = $1
    `
	var (
		email       model.Email
		attachments []byte
	)
	err := r.db.QueryRow(ctx, query, uid).Scan(
		&email.UID,
		&email.MessageID,
		&email.ThreadID,
		&email.Subject,
		&email.Sender,
		&email.Recipients,
		&email.SentAt,
		&email.ReceivedAt,
		&email.BodyText,
		&email.BodyHTML,
		&email.Mailbox,
		&email.ContentHash,
		&attachments,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	if err := json.Unmarshal(attachments, &email.Attachments); err != nil {
		return nil, err
	}
	return &email, nil
}

// ListByMailbox returns emails above afterUID in ascending uid order, the
// shape backlog processing walks.
func (r *EmailRepository) ListByMailbox(ctx context.Context, mailbox string, afterUID int64, limit int) ([]model.Email, error) {
	query := `
        SELECT uid, message_id, thread_id, subject, sender, recipients,
               sent_at, received_at, body_text, body_html, mailbox,
               content_hash, attachments
        FROM emails
        WHERE mailbox = $1 AND uid > $2
        ORDER BY uid ASC
        LIMIT $3
    `
	rows, err := r.db.Query(ctx, query, mailbox, afterUID, limit)
	if err != nil {
		r.logger.Error("Failed to list emails", zap.String("mailbox", mailbox), zap.Error(err))
		return nil, translateErr(err)
	}
	defer rows.Close()

	var emails []model.Email
	for rows.Next() {
		var (
			email       model.Email
			attachments []byte
		)
		if err := rows.Scan(
			&email.UID,
			&email.MessageID,
			&email.ThreadID,
			&email.Subject,
			&email.Sender,
			&email.Recipients,
			&email.SentAt,
			&email.ReceivedAt,
			&email.BodyText,
			&email.BodyHTML,
			&email.Mailbox,
			&email.ContentHash,
			&attachments,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(attachments, &email.Attachments); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// ListStale returns emails whose stored insight is missing or was built
// against an older content hash.
func (r *EmailRepository) ListStale(ctx context.Context, mailbox string, limit int) ([]int64, error) {
	query := `
        SELECT e.uid
        FROM emails e
        LEFT JOIN email_insights i ON i.email_uid = e.uid
        WHERE e.mailbox = $1
          AND (i.email_uid IS NULL OR i.content_hash <> e.content_hash)
        ORDER BY e.uid ASC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, mailbox, limit)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var uids []int64
	for rows.Next() {
		var uid int64
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

func (r *EmailRepository) UpdateContentHash(ctx context.Context, uid int64, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE emails SET content_hash = $2 WHERE uid = $1`, uid, hash)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
