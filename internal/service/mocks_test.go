package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inboxiq/internal/model"
)

type MockEmailSource struct {
	mock.Mock
}

func (m *MockEmailSource) GetByUID(ctx context.Context, uid int64) (*model.Email, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Email), args.Error(1)
}

func (m *MockEmailSource) ListStale(ctx context.Context, mailbox string, limit int) ([]int64, error) {
	args := m.Called(ctx, mailbox, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, email *model.Email) (*model.Insight, bool, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Insight), args.Bool(1), args.Error(2)
}

type MockBundleWriter struct {
	mock.Mock
}

func (m *MockBundleWriter) SaveInsightBundle(ctx context.Context, insight *model.Insight, categories []model.Category, followUps []model.FollowUp) error {
	return m.Called(ctx, insight, categories, followUps).Error(0)
}

type MockCursorStore struct {
	mock.Mock
}

func (m *MockCursorStore) GetCursor(ctx context.Context, mailbox string) (*model.SyncCursor, error) {
	args := m.Called(ctx, mailbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncCursor), args.Error(1)
}

func (m *MockCursorStore) AdvanceCursor(ctx context.Context, mailbox string, uid int64) error {
	return m.Called(ctx, mailbox, uid).Error(0)
}

type MockFollowUpStore struct {
	mock.Mock
}

func (m *MockFollowUpStore) GetByID(ctx context.Context, id int64) (*model.FollowUp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FollowUp), args.Error(1)
}

func (m *MockFollowUpStore) ListByEmailUID(ctx context.Context, emailUID int64) ([]model.FollowUp, error) {
	args := m.Called(ctx, emailUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FollowUp), args.Error(1)
}

func (m *MockFollowUpStore) ListOpen(ctx context.Context, limit int) ([]model.FollowUp, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FollowUp), args.Error(1)
}

func (m *MockFollowUpStore) UpdateStatus(ctx context.Context, task *model.FollowUp) error {
	return m.Called(ctx, task).Error(0)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) TryAcquire(ctx context.Context, scope string) (bool, error) {
	args := m.Called(ctx, scope)
	return args.Bool(0), args.Error(1)
}

func (m *MockGate) Clear(ctx context.Context, scope string) error {
	return m.Called(ctx, scope).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, payload any) error {
	return m.Called(routingKey, payload).Error(0)
}

type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Upsert(ctx context.Context, draft *model.Draft) error {
	return m.Called(ctx, draft).Error(0)
}

func (m *MockDraftStore) GetByEmailUID(ctx context.Context, emailUID int64) (*model.Draft, error) {
	args := m.Called(ctx, emailUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Draft), args.Error(1)
}

func (m *MockDraftStore) Delete(ctx context.Context, emailUID int64) error {
	return m.Called(ctx, emailUID).Error(0)
}

func (m *MockDraftStore) MarkSent(ctx context.Context, emailUID int64) error {
	return m.Called(ctx, emailUID).Error(0)
}

type MockInsightSource struct {
	mock.Mock
}

func (m *MockInsightSource) ProcessEmail(ctx context.Context, uid int64) (*model.Insight, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

type MockPreferenceSource struct {
	mock.Mock
}

func (m *MockPreferenceSource) GetAll(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) Compose(ctx context.Context, email *model.Email, insight *model.Insight, prefs map[string]string) *model.Draft {
	args := m.Called(ctx, email, insight, prefs)
	return args.Get(0).(*model.Draft)
}
