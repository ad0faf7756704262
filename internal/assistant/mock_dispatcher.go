package assistant

import (
	"context"

	"github.com/stretchr/testify/mock"

	"llm-tasks/internal/llmapi"
)

// MockDispatcher is a mock implementation of Dispatcher using testify/mock.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) PostJSON(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	args := m.Called(ctx, endpoint, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockDispatcher) PostMultipart(ctx context.Context, endpoint string, parts []llmapi.Part) (map[string]any, error) {
	args := m.Called(ctx, endpoint, parts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockDispatcher) PostBinary(ctx context.Context, endpoint string, body map[string]any) ([]byte, error) {
	args := m.Called(ctx, endpoint, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
