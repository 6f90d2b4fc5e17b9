package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/storyforge/pkg/queue"
)

const draftJobsKey = "draft-jobs"

// DraftQueue is the shared work queue for AI draft generation. The API
// enqueues jobs; worker processes pull them with a blocking pop.
type DraftQueue struct {
	client *Client
}

func NewDraftQueue(client *Client) *DraftQueue {
	return &DraftQueue{client: client}
}

// Enqueue adds a draft job to the end of the queue.
func (q *DraftQueue) Enqueue(ctx context.Context, job *queue.DraftJob) error {
	data, err := job.ToJSON()
	if err != nil {
		return err
	}

	if err := q.client.rdb.RPush(ctx, draftJobsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue draft job: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next job, or nil when the queue is empty.
func (q *DraftQueue) Dequeue(ctx context.Context) (*queue.DraftJob, error) {
	result, err := q.client.rdb.LPop(ctx, draftJobsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue draft job: %w", err)
	}
	return queue.FromJSON([]byte(result))
}

// BlockingDequeue waits up to timeout for a job. Returns nil on timeout.
func (q *DraftQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) (*queue.DraftJob, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, draftJobsKey).Result()
	if err != nil {
		if err == redis.Nil || ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue draft job: %w", err)
	}
	// BLPop returns [key, value].
	if len(result) < 2 {
		return nil, nil
	}
	return queue.FromJSON([]byte(result[1]))
}

// Depth returns the number of queued jobs.
func (q *DraftQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, draftJobsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}
