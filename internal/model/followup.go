package model

import (
	"errors"
	"time"
)

const (
	FollowUpStatusOpen      = "open"
	FollowUpStatusCompleted = "completed"
)

// CalendarLinkState 日历链接状态
type CalendarLinkState int

const (
	CalendarUnsynced CalendarLinkState = iota
	CalendarSynced
)

func (s CalendarLinkState) String() string {
	if s == CalendarSynced {
		return "synced"
	}
	return "unsynced"
}

var (
	ErrAlreadyCompleted = errors.New("follow-up already completed")
	ErrNotCompleted     = errors.New("follow-up is not completed")
	ErrAlreadyLinked    = errors.New("follow-up already linked to a calendar event")
	ErrNotLinked        = errors.New("follow-up has no calendar link")
)

// FollowUp is an actionable task derived from an email's action items.
// CalendarEventID and CalendarSyncedAt are always set or cleared together.
type FollowUp struct {
	ID          int64      `json:"id"`
	EmailUID    int64      `json:"email_uid"`
	Action      string     `json:"action"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CalendarEventID  *string    `json:"calendar_event_id,omitempty"`
	CalendarSyncedAt *time.Time `json:"calendar_synced_at,omitempty"`
}

// Complete transitions open → completed.
func (f *FollowUp) Complete(at time.Time) error {
	if f.Status == FollowUpStatusCompleted {
		return ErrAlreadyCompleted
	}
	f.Status = FollowUpStatusCompleted
	f.CompletedAt = &at
	return nil
}

// Reopen transitions completed → open and clears the completion timestamp.
func (f *FollowUp) Reopen() error {
	if f.Status != FollowUpStatusCompleted {
		return ErrNotCompleted
	}
	f.Status = FollowUpStatusOpen
	f.CompletedAt = nil
	return nil
}

// CalendarState derives the link state from the paired columns.
func (f *FollowUp) CalendarState() CalendarLinkState {
	if f.CalendarEventID != nil && f.CalendarSyncedAt != nil {
		return CalendarSynced
	}
	return CalendarUnsynced
}

// LinkCalendar transitions unsynced → synced. Both fields are set together;
// linking an already-synced task is a guarded error, idempotency lives in
// the coordinator.
func (f *FollowUp) LinkCalendar(eventID string, at time.Time) error {
	if f.CalendarState() == CalendarSynced {
		return ErrAlreadyLinked
	}
	f.CalendarEventID = &eventID
	f.CalendarSyncedAt = &at
	return nil
}

// UnlinkCalendar transitions synced → unsynced after a confirmed remote
// deletion. Both fields are cleared together.
func (f *FollowUp) UnlinkCalendar() error {
	if f.CalendarState() != CalendarSynced {
		return ErrNotLinked
	}
	f.CalendarEventID = nil
	f.CalendarSyncedAt = nil
	return nil
}
