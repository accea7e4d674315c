// Package mq defines the event contracts shared with the ingestion
// collaborator over RabbitMQ.
package mq

import "time"

// Routing keys on the events exchange.
const (
	RoutingKeyEmailSynced   = "email.synced"
	RoutingKeySyncRequested = "email.sync.requested"
)

// EmailSyncedEvent announces that the ingestion side stored or refreshed
// one email and it is ready for intelligence processing.
type EmailSyncedEvent struct {
	EmailUID    int64     `json:"email_uid"`
	Mailbox     string    `json:"mailbox"`
	MessageID   string    `json:"message_id"`
	ContentHash string    `json:"content_hash,omitempty"`
	SyncedAt    time.Time `json:"synced_at"`
}

// SyncRequestedEvent asks the worker to re-walk a mailbox's backlog. It
// is published by the API on manual triggers that pass the per-mailbox
// cooldown.
type SyncRequestedEvent struct {
	Mailbox     string    `json:"mailbox"`
	RequestedAt time.Time `json:"requested_at"`
}
