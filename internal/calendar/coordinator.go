package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

// ErrMissingDueDate rejects sync attempts for tasks without a due date:
// there is nothing to put on a calendar.
var ErrMissingDueDate = errors.New("follow-up has no due date")

// EventAPI is the slice of the bridge client the coordinator needs.
type EventAPI interface {
	CreateEvent(ctx context.Context, title, description string, dueAt time.Time, emailUID int64) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
}

// FollowUpStore persists calendar link transitions.
type FollowUpStore interface {
	GetFollowUp(ctx context.Context, id int64) (*model.FollowUp, error)
	UpdateCalendarLink(ctx context.Context, task *model.FollowUp) error
}

// Coordinator drives the follow-up ↔ calendar event lifecycle. Sync is
// idempotent; verify only unlinks on the bridge's confirmed-missing
// answer, never on transient failures.
type Coordinator struct {
	api    EventAPI
	store  FollowUpStore
	logger *zap.Logger
}

func NewCoordinator(api EventAPI, store FollowUpStore, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// SyncResult reports what Sync did for one task.
type SyncResult struct {
	FollowUp      *model.FollowUp `json:"follow_up"`
	AlreadySynced bool            `json:"already_synced"`
	EventURL      string          `json:"event_url,omitempty"`
}

// Sync creates a calendar event for the follow-up's due date and links
// it. An already-linked task short-circuits without a remote call.
func (c *Coordinator) Sync(ctx context.Context, followUpID int64) (*SyncResult, error) {
	task, err := c.store.GetFollowUp(ctx, followUpID)
	if err != nil {
		return nil, err
	}

	if task.CalendarState() == model.CalendarSynced {
		return &SyncResult{FollowUp: task, AlreadySynced: true}, nil
	}
	if task.DueAt == nil {
		return nil, ErrMissingDueDate
	}

	event, err := c.api.CreateEvent(ctx, task.Action, eventDescription(task), *task.DueAt, task.EmailUID)
	if err != nil {
		return nil, err
	}

	if err := task.LinkCalendar(event.EventID, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := c.store.UpdateCalendarLink(ctx, task); err != nil {
		// 事件已创建但链接未落库，下次 Sync 会重建事件
		c.logger.Error("Calendar event created but link not persisted",
			zap.Int64("follow_up_id", task.ID),
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Info("Follow-up linked to calendar event",
		zap.Int64("follow_up_id", task.ID),
		zap.String("event_id", event.EventID),
	)
	return &SyncResult{FollowUp: task, EventURL: event.EventURL}, nil
}

// VerifyResult reports the outcome of a link check.
type VerifyResult struct {
	FollowUp *model.FollowUp `json:"follow_up"`
	Linked   bool            `json:"linked"`
	EventURL string          `json:"event_url,omitempty"`
}

// Verify checks that a linked task's event still exists remotely. Only a
// confirmed 404 clears the link; an unreachable bridge leaves the stored
// state untouched and surfaces the error.
func (c *Coordinator) Verify(ctx context.Context, followUpID int64) (*VerifyResult, error) {
	task, err := c.store.GetFollowUp(ctx, followUpID)
	if err != nil {
		return nil, err
	}

	if task.CalendarState() != model.CalendarSynced {
		return &VerifyResult{FollowUp: task, Linked: false}, nil
	}

	event, err := c.api.GetEvent(ctx, *task.CalendarEventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			if unlinkErr := task.UnlinkCalendar(); unlinkErr != nil {
				return nil, unlinkErr
			}
			if storeErr := c.store.UpdateCalendarLink(ctx, task); storeErr != nil {
				return nil, storeErr
			}
			c.logger.Info("Calendar event gone, follow-up unlinked",
				zap.Int64("follow_up_id", task.ID),
			)
			return &VerifyResult{FollowUp: task, Linked: false}, nil
		}
		return nil, err
	}

	return &VerifyResult{FollowUp: task, Linked: true, EventURL: event.EventURL}, nil
}

func eventDescription(task *model.FollowUp) string {
	return fmt.Sprintf("Follow-up for email %d: %s", task.EmailUID, task.Action)
}
