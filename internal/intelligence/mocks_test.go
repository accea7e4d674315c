package intelligence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inboxiq/internal/model"
)

type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string {
	if m.name != "" {
		return m.name
	}
	return "llm"
}

func (m *MockProvider) Analyze(ctx context.Context, email *model.Email) (*Analysis, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Analysis), args.Error(1)
}

func (m *MockProvider) ComposeReply(ctx context.Context, email *model.Email, insight *model.Insight, prefs map[string]string) (*DraftReply, error) {
	args := m.Called(ctx, email, insight, prefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DraftReply), args.Error(1)
}

type MockInsightReader struct {
	mock.Mock
}

func (m *MockInsightReader) GetInsight(ctx context.Context, emailUID int64) (*model.Insight, error) {
	args := m.Called(ctx, emailUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

// passGuard always admits the caller.
type passGuard struct{}

func (passGuard) AcquireOnce(context.Context, string, string) bool { return true }
func (passGuard) Release(context.Context, string, string)          {}

// busyGuard simulates an in-flight duplicate.
type busyGuard struct{}

func (busyGuard) AcquireOnce(context.Context, string, string) bool { return false }
func (busyGuard) Release(context.Context, string, string)          {}
