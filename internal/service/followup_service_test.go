package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inboxiq/internal/model"
)

func TestCompleteFollowUp(t *testing.T) {
	task := &model.FollowUp{ID: 9, EmailUID: 42, Action: "Reply", Status: model.FollowUpStatusOpen}

	store := new(MockFollowUpStore)
	store.On("GetByID", mock.Anything, int64(9)).Return(task, nil)
	store.On("UpdateStatus", mock.Anything, task).Return(nil)

	s := NewFollowUpService(store, zap.NewNop())
	got, err := s.Complete(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, model.FollowUpStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	store.AssertExpectations(t)
}

func TestCompleteTwiceGuarded(t *testing.T) {
	now := time.Now()
	task := &model.FollowUp{ID: 9, Status: model.FollowUpStatusCompleted, CompletedAt: &now}

	store := new(MockFollowUpStore)
	store.On("GetByID", mock.Anything, int64(9)).Return(task, nil)

	s := NewFollowUpService(store, zap.NewNop())
	_, err := s.Complete(context.Background(), 9)

	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestReopenFollowUp(t *testing.T) {
	now := time.Now()
	task := &model.FollowUp{ID: 9, Status: model.FollowUpStatusCompleted, CompletedAt: &now}

	store := new(MockFollowUpStore)
	store.On("GetByID", mock.Anything, int64(9)).Return(task, nil)
	store.On("UpdateStatus", mock.Anything, task).Return(nil)

	s := NewFollowUpService(store, zap.NewNop())
	got, err := s.Reopen(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, model.FollowUpStatusOpen, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestReopenOpenTaskGuarded(t *testing.T) {
	task := &model.FollowUp{ID: 9, Status: model.FollowUpStatusOpen}

	store := new(MockFollowUpStore)
	store.On("GetByID", mock.Anything, int64(9)).Return(task, nil)

	s := NewFollowUpService(store, zap.NewNop())
	_, err := s.Reopen(context.Background(), 9)

	assert.ErrorIs(t, err, model.ErrNotCompleted)
}

func TestListOpenDefaultsLimit(t *testing.T) {
	store := new(MockFollowUpStore)
	store.On("ListOpen", mock.Anything, 100).Return([]model.FollowUp{}, nil)

	s := NewFollowUpService(store, zap.NewNop())
	_, err := s.ListOpen(context.Background(), -5)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestListOpenClampsToMax(t *testing.T) {
	store := new(MockFollowUpStore)
	store.On("ListOpen", mock.Anything, 500).Return([]model.FollowUp{}, nil)

	s := NewFollowUpService(store, zap.NewNop())
	_, err := s.ListOpen(context.Background(), 9999)

	require.NoError(t, err)
	store.AssertExpectations(t)
}
