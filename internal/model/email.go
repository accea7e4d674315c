package model

import "time"

// Email is a normalized, already-parsed mail record supplied by the
// ingestion collaborator. Immutable once stored except for mailbox moves
// and content hash refreshes.
type Email struct {
	UID         int64      `json:"uid"`
	MessageID   string     `json:"message_id"`
	ThreadID    string     `json:"thread_id"`
	Subject     string     `json:"subject"`
	Sender      string     `json:"sender"`
	Recipients  []string   `json:"recipients"`
	SentAt      *time.Time `json:"sent_at"`
	ReceivedAt  time.Time  `json:"received_at"`
	BodyText    string     `json:"body_text"`
	BodyHTML    string     `json:"body_html"`
	Mailbox     string     `json:"mailbox"`
	ContentHash string     `json:"content_hash"`

	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment carries metadata only; payloads never enter this system.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// SyncCursor is the last fully processed uid for a mailbox. It only moves
// forward.
type SyncCursor struct {
	Mailbox string `json:"mailbox"`
	LastUID int64  `json:"last_uid"`
}
