package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/storyforge/internal/services"
	"github.com/jwebster45206/storyforge/internal/storage"
	"github.com/jwebster45206/storyforge/pkg/story"
)

const draftReply = `{"title": "The Cave", "content": "Damp stone walls close in around you.", "choices": [{"text": "Light a torch"}, {"text": "Turn back"}]}`

func TestGenerateHandler_Sync(t *testing.T) {
	llm := services.NewMockLLM()
	llm.SetChatResponse(draftReply)
	handler := NewGenerateHandler(testLogger(), llm, storage.NewMockStorage(), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/generate",
		bytes.NewReader([]byte(`{"prompt":"a dark cave","choice_count":2}`)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Draft)
	assert.Equal(t, "The Cave", resp.Draft.Title)
	assert.Len(t, resp.Draft.Choices, 2)
	assert.Equal(t, "Light a torch", resp.Draft.Choices[0].Text)
}

func TestGenerateHandler_SyncErrors(t *testing.T) {
	t.Run("missing prompt", func(t *testing.T) {
		handler := NewGenerateHandler(testLogger(), services.NewMockLLM(), storage.NewMockStorage(), nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/generate", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("llm failure", func(t *testing.T) {
		llm := services.NewMockLLM()
		llm.SetChatError(errors.New("provider unavailable"))
		handler := NewGenerateHandler(testLogger(), llm, storage.NewMockStorage(), nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/generate",
			bytes.NewReader([]byte(`{"prompt":"a dark cave"}`)))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestGenerateHandler_AsyncWithoutQueue(t *testing.T) {
	handler := NewGenerateHandler(testLogger(), services.NewMockLLM(), storage.NewMockStorage(), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/generate/async",
		bytes.NewReader([]byte(`{"prompt":"a dark cave"}`)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGenerateHandler_GetDraft(t *testing.T) {
	mock := storage.NewMockStorage()
	handler := NewGenerateHandler(testLogger(), services.NewMockLLM(), mock, nil)

	id := uuid.New()
	require.NoError(t, mock.SaveDraft(context.Background(), id, &story.StoryNode{
		Title:   "The Cave",
		Content: "Damp stone walls close in around you.",
	}))

	t.Run("ready", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/generate/"+id.String(), nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp GenerateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Draft)
		assert.Equal(t, "The Cave", resp.Draft.Title)
	})

	t.Run("not ready", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/generate/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/generate/abc", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
