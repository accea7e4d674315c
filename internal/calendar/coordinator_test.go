package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inboxiq/internal/model"
)

type MockEventAPI struct {
	mock.Mock
}

func (m *MockEventAPI) CreateEvent(ctx context.Context, title, description string, dueAt time.Time, emailUID int64) (*Event, error) {
	args := m.Called(ctx, title, description, dueAt, emailUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventAPI) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

type MockFollowUpStore struct {
	mock.Mock
}

func (m *MockFollowUpStore) GetFollowUp(ctx context.Context, id int64) (*model.FollowUp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FollowUp), args.Error(1)
}

func (m *MockFollowUpStore) UpdateCalendarLink(ctx context.Context, task *model.FollowUp) error {
	return m.Called(ctx, task).Error(0)
}

func openTask() *model.FollowUp {
	due := time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC)
	return &model.FollowUp{
		ID:       31,
		EmailUID: 42,
		Action:   "Send the renewal quote",
		DueAt:    &due,
		Status:   model.FollowUpStatusOpen,
	}
}

func linkedTask() *model.FollowUp {
	task := openTask()
	eventID := "evt-99"
	syncedAt := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	task.CalendarEventID = &eventID
	task.CalendarSyncedAt = &syncedAt
	return task
}

func TestSyncCreatesAndLinksEvent(t *testing.T) {
	task := openTask()

	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(task, nil)
	store.On("UpdateCalendarLink", mock.Anything, task).Return(nil)

	api := new(MockEventAPI)
	api.On("CreateEvent", mock.Anything, task.Action, mock.Anything, *task.DueAt, int64(42)).
		Return(&Event{EventID: "evt-1", EventURL: "https://cal/evt-1"}, nil)

	res, err := NewCoordinator(api, store, zap.NewNop()).Sync(context.Background(), 31)

	require.NoError(t, err)
	assert.False(t, res.AlreadySynced)
	assert.Equal(t, "https://cal/evt-1", res.EventURL)
	assert.Equal(t, model.CalendarSynced, task.CalendarState())
	require.NotNil(t, task.CalendarEventID)
	assert.Equal(t, "evt-1", *task.CalendarEventID)
	assert.NotNil(t, task.CalendarSyncedAt)
	api.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestSyncAlreadyLinkedSkipsRemoteCall(t *testing.T) {
	task := linkedTask()

	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(task, nil)

	api := new(MockEventAPI) // no expectations: must not be called

	res, err := NewCoordinator(api, store, zap.NewNop()).Sync(context.Background(), 31)

	require.NoError(t, err)
	assert.True(t, res.AlreadySynced)
	assert.Equal(t, "evt-99", *res.FollowUp.CalendarEventID)
	api.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncRejectsTaskWithoutDueDate(t *testing.T) {
	task := openTask()
	task.DueAt = nil

	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(task, nil)

	_, err := NewCoordinator(new(MockEventAPI), store, zap.NewNop()).Sync(context.Background(), 31)
	assert.ErrorIs(t, err, ErrMissingDueDate)
}

func TestSyncBridgeFailureLeavesTaskUnlinked(t *testing.T) {
	task := openTask()

	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(task, nil)

	api := new(MockEventAPI)
	api.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ErrCalendarUnavailable)

	_, err := NewCoordinator(api, store, zap.NewNop()).Sync(context.Background(), 31)

	assert.ErrorIs(t, err, ErrCalendarUnavailable)
	assert.Equal(t, model.CalendarUnsynced, task.CalendarState())
	store.AssertNotCalled(t, "UpdateCalendarLink", mock.Anything, mock.Anything)
}

func TestVerifyExistingEventKeepsLink(t *testing.T) {
	task := linkedTask()

	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(task, nil)

	api := new(MockEventAPI)
	api.On("GetEvent", mock.Anything, "evt-99").
		Return(&Event{EventID: "evt-99", EventURL: "https://cal/evt-99"}, nil)

	res, err := NewCoordinator(api, store, zap.NewNop()).Verify(context.Background(), 31)

	require.NoError(t, err)
	assert.True(t, res.Linked)
	assert.Equal(t, "https://cal/evt-99", res.EventURL)
	assert.Equal(t, model.CalendarSynced, task.CalendarState())
}

func TestVerifyConfirmedMissingUnlinks(t *testing.T) {
	task := linkedTask()

	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(task, nil)
	store.On("UpdateCalendarLink", mock.Anything, task).Return(nil)

	api := new(MockEventAPI)
	api.On("GetEvent", mock.Anything, "evt-99").Return(nil, ErrEventNotFound)

	res, err := NewCoordinator(api, store, zap.NewNop()).Verify(context.Background(), 31)

	require.NoError(t, err)
	assert.False(t, res.Linked)
	assert.Equal(t, model.CalendarUnsynced, task.CalendarState())
	assert.Nil(t, task.CalendarEventID)
	assert.Nil(t, task.CalendarSyncedAt)
	store.AssertExpectations(t)
}

func TestVerifyTransientErrorKeepsLink(t *testing.T) {
	task := linkedTask()

	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(task, nil)

	api := new(MockEventAPI)
	api.On("GetEvent", mock.Anything, "evt-99").Return(nil, ErrCalendarUnavailable)

	_, err := NewCoordinator(api, store, zap.NewNop()).Verify(context.Background(), 31)

	assert.ErrorIs(t, err, ErrCalendarUnavailable)
	assert.Equal(t, model.CalendarSynced, task.CalendarState(), "transient failure must not clear the link")
	store.AssertNotCalled(t, "UpdateCalendarLink", mock.Anything, mock.Anything)
}

func TestVerifyUnlinkedTask(t *testing.T) {
	task := openTask()

	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(task, nil)

	res, err := NewCoordinator(new(MockEventAPI), store, zap.NewNop()).Verify(context.Background(), 31)

	require.NoError(t, err)
	assert.False(t, res.Linked)
}

func TestVerifyStoreError(t *testing.T) {
	store := new(MockFollowUpStore)
	store.On("GetFollowUp", mock.Anything, int64(31)).Return(nil, errors.New("boom"))

	_, err := NewCoordinator(new(MockEventAPI), store, zap.NewNop()).Verify(context.Background(), 31)
	assert.Error(t, err)
}
