package testutil

import (
	"context"
	"strings"
	"sync"

	"qachat/provider"
)

// MockProvider implements provider.Provider for testing
type MockProvider struct {
	// Configurable responses
	CompleteFunc func(ctx context.Context, messages []provider.Message) (string, error)
	PingFunc     func(ctx context.Context) error

	mu       sync.Mutex
	model    string
	received [][]provider.Message
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		model: modelName,
	}
	mock.CompleteFunc = mock.defaultComplete
	mock.PingFunc = func(ctx context.Context) error { return nil }
	return mock
}

// defaultComplete echoes the last message back.
func (m *MockProvider) defaultComplete(ctx context.Context, messages []provider.Message) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}
	return "Mock response: " + messages[len(messages)-1].Content, nil
}

func (m *MockProvider) Complete(ctx context.Context, messages []provider.Message) (string, error) {
	m.mu.Lock()
	m.received = append(m.received, append([]provider.Message(nil), messages...))
	m.mu.Unlock()
	return m.CompleteFunc(ctx, messages)
}

// Calls returns a copy of every message list passed to Complete.
func (m *MockProvider) Calls() [][]provider.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]provider.Message(nil), m.received...)
}

func (m *MockProvider) Model() string {
	return m.model
}

func (m *MockProvider) DisplayName() string {
	if idx := strings.Index(m.model, "/"); idx != -1 {
		return m.model[idx+1:]
	}
	return m.model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
