package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/storyforge/pkg/graph"
	"github.com/jwebster45206/storyforge/pkg/state"
	"github.com/jwebster45206/storyforge/pkg/story"
)

// Storage defines a unified interface for persistence: converted stories,
// play-session saves, and AI-generated node drafts. Load methods return
// (nil, nil) when the record does not exist.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Story operations: persisted conversion results keyed by story id
	SaveStory(ctx context.Context, id string, result *graph.ConversionResult) error
	GetStory(ctx context.Context, id string) (*graph.ConversionResult, error)
	ListStories(ctx context.Context) ([]string, error)
	DeleteStory(ctx context.Context, id string) error

	// PlayState operations: save games keyed by session UUID
	SavePlayState(ctx context.Context, id uuid.UUID, ps *state.PlayState) error
	LoadPlayState(ctx context.Context, id uuid.UUID) (*state.PlayState, error)
	DeletePlayState(ctx context.Context, id uuid.UUID) error

	// Draft operations: AI-generated node drafts keyed by request UUID
	SaveDraft(ctx context.Context, id uuid.UUID, draft *story.StoryNode) error
	LoadDraft(ctx context.Context, id uuid.UUID) (*story.StoryNode, error)
}
