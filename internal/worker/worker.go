package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/storyforge/internal/queue"
	"github.com/jwebster45206/storyforge/internal/services"
	"github.com/jwebster45206/storyforge/internal/storage"
	queuePkg "github.com/jwebster45206/storyforge/pkg/queue"
)

const dequeueTimeout = 5 * time.Second

// Worker drains the draft queue: it pulls jobs, calls the LLM, and
// stores the finished draft under the job's request id for the API to
// serve. Multiple workers can run against the same queue.
type Worker struct {
	id      string
	queue   *queue.DraftQueue
	llm     services.LLMService
	storage storage.Storage
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a new worker instance
func New(draftQueue *queue.DraftQueue, llm services.LLMService, store storage.Storage, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:      workerID,
		queue:   draftQueue,
		llm:     llm,
		storage: store,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins processing jobs from the queue. It returns when Stop is
// called.
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextJob(); err != nil {
				w.log.Error("Error processing job", "error", err, "worker_id", w.id)
				// Keep draining the queue even after a bad job.
				time.Sleep(time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

func (w *Worker) processNextJob() error {
	job, err := w.queue.BlockingDequeue(w.ctx, dequeueTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue job: %w", err)
	}
	if job == nil {
		// Empty queue or timeout, both normal.
		return nil
	}

	return w.processJob(job)
}

func (w *Worker) processJob(job *queuePkg.DraftJob) error {
	w.log.Info("Processing draft job",
		"worker_id", w.id,
		"request_id", job.RequestID,
		"story_id", job.StoryID,
		"node_id", job.NodeID)

	start := time.Now()

	draft, err := services.GenerateNodeDraft(w.ctx, w.llm, job.Request)
	if err != nil {
		return fmt.Errorf("draft generation failed for request %s: %w", job.RequestID, err)
	}

	if err := w.storage.SaveDraft(w.ctx, job.RequestID, draft); err != nil {
		return fmt.Errorf("failed to store draft for request %s: %w", job.RequestID, err)
	}

	w.log.Info("Draft job processed",
		"worker_id", w.id,
		"request_id", job.RequestID,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
