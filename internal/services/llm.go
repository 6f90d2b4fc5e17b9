package services

import (
	"context"

	"github.com/jwebster45206/storyforge/pkg/chat"
)

// LLMService defines the interface for interacting with an LLM provider.
type LLMService interface {
	// InitModel prepares the model for use on startup
	InitModel(ctx context.Context, modelName string) error

	// Chat generates a completion for the given conversation
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
}
