package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/storyforge/pkg/graph"
	"github.com/jwebster45206/storyforge/pkg/state"
	"github.com/jwebster45206/storyforge/pkg/story"
)

const (
	storyKeyPrefix     = "story:"
	playStateKeyPrefix = "playstate:"
	draftKeyPrefix     = "draft:"

	// Save games and drafts expire; authored stories do not.
	playStateTTL = 24 * time.Hour
	draftTTL     = time.Hour
)

// RedisStorage implements the Storage interface with Redis.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance.
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Story operations

func (r *RedisStorage) SaveStory(ctx context.Context, id string, result *graph.ConversionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("Failed to marshal story", "story_id", id, "error", err)
		return fmt.Errorf("failed to marshal story: %w", err)
	}

	if err := r.client.Set(ctx, storyKeyPrefix+id, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save story", "story_id", id, "error", err)
		return fmt.Errorf("failed to save story: %w", err)
	}
	return nil
}

func (r *RedisStorage) GetStory(ctx context.Context, id string) (*graph.ConversionResult, error) {
	data, err := r.client.Get(ctx, storyKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to load story", "story_id", id, "error", err)
		return nil, fmt.Errorf("failed to load story: %w", err)
	}

	var result graph.ConversionResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		r.logger.Error("Failed to unmarshal story", "story_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal story: %w", err)
	}
	return &result, nil
}

func (r *RedisStorage) ListStories(ctx context.Context) ([]string, error) {
	ids := []string{}
	iter := r.client.Scan(ctx, 0, storyKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), storyKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return ids, nil
}

func (r *RedisStorage) DeleteStory(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, storyKeyPrefix+id).Err(); err != nil {
		r.logger.Error("Failed to delete story", "story_id", id, "error", err)
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return nil
}

// PlayState operations

func (r *RedisStorage) SavePlayState(ctx context.Context, id uuid.UUID, ps *state.PlayState) error {
	ps.UpdatedAt = time.Now()

	data, err := json.Marshal(ps)
	if err != nil {
		r.logger.Error("Failed to marshal playstate", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal playstate: %w", err)
	}

	key := playStateKeyPrefix + id.String()
	if err := r.client.Set(ctx, key, string(data), playStateTTL).Err(); err != nil {
		r.logger.Error("Failed to save playstate", "uuid", id, "error", err)
		return fmt.Errorf("failed to save playstate: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadPlayState(ctx context.Context, id uuid.UUID) (*state.PlayState, error) {
	key := playStateKeyPrefix + id.String()
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Warn("Playstate not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load playstate", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load playstate: %w", err)
	}

	var ps state.PlayState
	if err := json.Unmarshal([]byte(data), &ps); err != nil {
		r.logger.Error("Failed to unmarshal playstate", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal playstate: %w", err)
	}
	return &ps, nil
}

func (r *RedisStorage) DeletePlayState(ctx context.Context, id uuid.UUID) error {
	key := playStateKeyPrefix + id.String()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete playstate", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete playstate: %w", err)
	}
	return nil
}

// Draft operations

func (r *RedisStorage) SaveDraft(ctx context.Context, id uuid.UUID, draft *story.StoryNode) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := draftKeyPrefix + id.String()
	if err := r.client.Set(ctx, key, string(data), draftTTL).Err(); err != nil {
		r.logger.Error("Failed to save draft", "uuid", id, "error", err)
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadDraft(ctx context.Context, id uuid.UUID) (*story.StoryNode, error) {
	key := draftKeyPrefix + id.String()
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to load draft", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft story.StoryNode
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}
