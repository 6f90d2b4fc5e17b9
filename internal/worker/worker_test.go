package worker

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/storyforge/internal/services"
	"github.com/jwebster45206/storyforge/internal/storage"
	"github.com/jwebster45206/storyforge/pkg/chat"
	queuePkg "github.com/jwebster45206/storyforge/pkg/queue"
)

func testWorker(llm services.LLMService, store storage.Storage) *Worker {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(nil, llm, store, logger, "test-worker")
}

func TestWorker_ProcessJobStoresDraft(t *testing.T) {
	mockLLM := services.NewMockLLM()
	mockLLM.SetChatResponse(`{"title":"T","content":"C","choices":[{"text":"Go"}]}`)
	store := storage.NewMockStorage()

	w := testWorker(mockLLM, store)
	job := queuePkg.NewDraftJob("s", "1", chat.DraftRequest{Prompt: "p"})

	require.NoError(t, w.processJob(job))

	draft, err := store.LoadDraft(context.Background(), job.RequestID)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "C", draft.Content)
}

func TestWorker_ProcessJobLLMError(t *testing.T) {
	mockLLM := services.NewMockLLM()
	mockLLM.SetChatError(errors.New("provider down"))
	store := storage.NewMockStorage()

	w := testWorker(mockLLM, store)
	job := queuePkg.NewDraftJob("s", "1", chat.DraftRequest{Prompt: "p"})

	err := w.processJob(job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")

	draft, loadErr := store.LoadDraft(context.Background(), job.RequestID)
	require.NoError(t, loadErr)
	assert.Nil(t, draft, "failed jobs store nothing")
}
