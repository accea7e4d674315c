package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements 启动时建表，幂等
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS emails (
        uid          BIGINT PRIMARY KEY,
        message_id   TEXT NOT NULL,
        thread_id    TEXT NOT NULL DEFAULT '',
        subject      TEXT NOT NULL DEFAULT '',
        sender       TEXT NOT NULL DEFAULT '',
        recipients   TEXT[] NOT NULL DEFAULT '{}',
        sent_at      TIMESTAMPTZ,
        received_at  TIMESTAMPTZ NOT NULL,
        body_text    TEXT NOT NULL DEFAULT '',
        body_html    TEXT NOT NULL DEFAULT '',
        mailbox      TEXT NOT NULL,
        content_hash TEXT NOT NULL DEFAULT '',
        attachments  JSONB NOT NULL DEFAULT '[]'
    )`,
	`CREATE INDEX IF NOT EXISTS idx_emails_mailbox ON emails (mailbox, uid)`,

	`CREATE TABLE IF NOT EXISTS email_insights (
        email_uid      BIGINT PRIMARY KEY REFERENCES emails (uid) ON DELETE CASCADE,
        summary        TEXT NOT NULL,
        action_items   TEXT[] NOT NULL DEFAULT '{}',
        priority_score INT NOT NULL,
        provider       TEXT NOT NULL,
        generated_at   TIMESTAMPTZ NOT NULL,
        used_fallback  BOOLEAN NOT NULL DEFAULT FALSE,
        content_hash   TEXT NOT NULL
    )`,

	`CREATE TABLE IF NOT EXISTS email_categories (
        email_uid BIGINT NOT NULL REFERENCES emails (uid) ON DELETE CASCADE,
        key       TEXT NOT NULL,
        label     TEXT NOT NULL,
        PRIMARY KEY (email_uid, key)
    )`,

	`CREATE TABLE IF NOT EXISTS drafts (
        id            BIGSERIAL PRIMARY KEY,
        email_uid     BIGINT NOT NULL UNIQUE REFERENCES emails (uid) ON DELETE CASCADE,
        body          TEXT NOT NULL,
        provider      TEXT NOT NULL,
        generated_at  TIMESTAMPTZ NOT NULL,
        confidence    DOUBLE PRECISION,
        used_fallback BOOLEAN NOT NULL DEFAULT FALSE,
        sent_at       TIMESTAMPTZ
    )`,

	`CREATE TABLE IF NOT EXISTS follow_ups (
        id                 BIGSERIAL PRIMARY KEY,
        email_uid          BIGINT NOT NULL REFERENCES emails (uid) ON DELETE CASCADE,
        action             TEXT NOT NULL,
        due_at             TIMESTAMPTZ,
        status             TEXT NOT NULL DEFAULT 'open',
        created_at         TIMESTAMPTZ NOT NULL,
        completed_at       TIMESTAMPTZ,
        calendar_event_id  TEXT,
        calendar_synced_at TIMESTAMPTZ
    )`,
	`CREATE INDEX IF NOT EXISTS idx_follow_ups_email_uid ON follow_ups (email_uid)`,
	`CREATE INDEX IF NOT EXISTS idx_follow_ups_status ON follow_ups (status)`,

	`CREATE TABLE IF NOT EXISTS user_preferences (
        key   TEXT PRIMARY KEY,
        value TEXT NOT NULL
    )`,

	`CREATE TABLE IF NOT EXISTS sync_state (
        mailbox  TEXT PRIMARY KEY,
        last_uid BIGINT NOT NULL DEFAULT 0
    )`,
}

// EnsureSchema creates all tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
