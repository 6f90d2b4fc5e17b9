package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/storyforge/pkg/graph"
	"github.com/jwebster45206/storyforge/pkg/state"
	"github.com/jwebster45206/storyforge/pkg/story"
)

// MockStorage is an in-memory Storage implementation for tests.
// Error fields can be set to force specific failures.
type MockStorage struct {
	mu         sync.Mutex
	stories    map[string]*graph.ConversionResult
	playStates map[uuid.UUID]*state.PlayState
	drafts     map[uuid.UUID]*story.StoryNode

	PingErr error
	SaveErr error
	LoadErr error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		stories:    make(map[string]*graph.ConversionResult),
		playStates: make(map[uuid.UUID]*state.PlayState),
		drafts:     make(map[uuid.UUID]*story.StoryNode),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveStory(ctx context.Context, id string, result *graph.ConversionResult) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stories[id] = result
	return nil
}

func (m *MockStorage) GetStory(ctx context.Context, id string) (*graph.ConversionResult, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stories[id], nil
}

func (m *MockStorage) ListStories(ctx context.Context) ([]string, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.stories))
	for id := range m.stories {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MockStorage) DeleteStory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stories, id)
	return nil
}

func (m *MockStorage) SavePlayState(ctx context.Context, id uuid.UUID, ps *state.PlayState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playStates[id] = ps
	return nil
}

func (m *MockStorage) LoadPlayState(ctx context.Context, id uuid.UUID) (*state.PlayState, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playStates[id], nil
}

func (m *MockStorage) DeletePlayState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.playStates, id)
	return nil
}

func (m *MockStorage) SaveDraft(ctx context.Context, id uuid.UUID, draft *story.StoryNode) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[id] = draft
	return nil
}

func (m *MockStorage) LoadDraft(ctx context.Context, id uuid.UUID) (*story.StoryNode, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drafts[id], nil
}
