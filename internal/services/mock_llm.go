package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/storyforge/pkg/chat"
)

// MockLLM is a mock implementation of LLMService for testing
type MockLLM struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	ChatFunc      func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Track calls for testing
	InitModelCalls []string
	ChatCalls      [][]chat.ChatMessage

	mu sync.Mutex // protects all fields above
}

var _ LLMService = (*MockLLM)(nil)

// NewMockLLM creates a new mock LLM service
func NewMockLLM() *MockLLM {
	return &MockLLM{
		InitModelCalls: make([]string, 0),
		ChatCalls:      make([][]chat.ChatMessage, 0),
	}
}

func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLM) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls = append(m.ChatCalls, messages)

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return &chat.ChatResponse{Message: "Mock response"}, nil
}

// SetChatError sets up the mock to return an error on Chat
func (m *MockLLM) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// SetChatResponse sets up the mock to return a fixed message
func (m *MockLLM) SetChatResponse(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return &chat.ChatResponse{Message: message}, nil
	}
}
