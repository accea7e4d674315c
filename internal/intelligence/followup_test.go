package intelligence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inboxiq/internal/model"
)

func newScheduler() *Scheduler {
	return NewScheduler(SchedulerConfig{
		DefaultDueDays:    3,
		PriorityDueDays:   1,
		PriorityThreshold: 8,
		UrgentDueWindow:   24 * time.Hour,
	})
}

var (
	receivedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	schedNow   = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
)

func scheduleOne(t *testing.T, action string, priorityScore int) model.FollowUp {
	t.Helper()
	email := &model.Email{UID: 7, ReceivedAt: receivedAt}
	insight := &model.Insight{EmailUID: 7, ActionItems: []string{action}, PriorityScore: priorityScore}

	tasks := newScheduler().Derive(email, insight, schedNow)
	require.Len(t, tasks, 1)
	return tasks[0]
}

func TestDeriveDefaultDue(t *testing.T) {
	task := scheduleOne(t, "Review the proposal", 3)

	assert.Equal(t, "Review the proposal", task.Action)
	assert.Equal(t, model.FollowUpStatusOpen, task.Status)
	assert.Equal(t, schedNow, task.CreatedAt)
	require.NotNil(t, task.DueAt)
	assert.Equal(t, receivedAt.AddDate(0, 0, 3), *task.DueAt)
}

func TestDerivePriorityTightensDue(t *testing.T) {
	task := scheduleOne(t, "Review the proposal", 9)
	assert.Equal(t, receivedAt.AddDate(0, 0, 1), *task.DueAt)
}

func TestDeriveUrgencyKeywordWithinDay(t *testing.T) {
	for _, action := range []string{
		"Reply today",
		"Send the numbers ASAP",
		"Urgent: confirm attendance",
	} {
		task := scheduleOne(t, action, 0)
		assert.LessOrEqual(t, task.DueAt.Sub(receivedAt), 24*time.Hour, action)
		assert.True(t, task.DueAt.After(receivedAt), action)
	}
}

func TestDeriveRelativePhrases(t *testing.T) {
	cases := []struct {
		action string
		due    time.Time
	}{
		{"Finish this tomorrow", receivedAt.AddDate(0, 0, 1)},
		{"Circle back next week", receivedAt.AddDate(0, 0, 7)},
		{"Revisit pricing next month", receivedAt.AddDate(0, 0, 30)},
	}
	for _, tc := range cases {
		task := scheduleOne(t, tc.action, 0)
		assert.Equal(t, tc.due, *task.DueAt, tc.action)
	}
}

func TestDeriveExplicitDateOverrides(t *testing.T) {
	// explicit dates win even over urgency keywords
	task := scheduleOne(t, "Urgent: submit the report by 2026-04-10", 9)
	assert.Equal(t, time.Date(2026, 4, 10, 17, 0, 0, 0, time.UTC), *task.DueAt)

	task = scheduleOne(t, "Book the venue by March 20th", 0)
	assert.Equal(t, time.Date(2026, 3, 20, 17, 0, 0, 0, time.UTC), *task.DueAt)
}

func TestDeriveMonthDayRollsToNextYear(t *testing.T) {
	// January is already behind a March email
	task := scheduleOne(t, "File the summary by Jan 5", 0)
	assert.Equal(t, time.Date(2027, 1, 5, 17, 0, 0, 0, time.UTC), *task.DueAt)
}

func TestDeriveAmbiguousNumericDateIgnored(t *testing.T) {
	task := scheduleOne(t, "Send it by 5/6", 0)
	assert.Equal(t, receivedAt.AddDate(0, 0, 3), *task.DueAt)
}

func TestDeriveDedupesActionItems(t *testing.T) {
	email := &model.Email{UID: 7, ReceivedAt: receivedAt}
	insight := &model.Insight{
		EmailUID:    7,
		ActionItems: []string{"Send the invoice", "send the invoice", "  ", "Call Alice"},
	}

	tasks := newScheduler().Derive(email, insight, schedNow)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Send the invoice", tasks[0].Action)
	assert.Equal(t, "Call Alice", tasks[1].Action)
}

func TestDeriveNoActionItems(t *testing.T) {
	tasks := newScheduler().Derive(
		&model.Email{UID: 7, ReceivedAt: receivedAt},
		&model.Insight{EmailUID: 7},
		schedNow,
	)
	assert.Empty(t, tasks)
}
