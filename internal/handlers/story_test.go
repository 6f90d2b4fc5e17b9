package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/storyforge/internal/storage"
	"github.com/jwebster45206/storyforge/pkg/graph"
)

func putStory(t *testing.T, h http.Handler, id string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(smallGraph())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/stories/"+id, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStoryHandler_PutAndGet(t *testing.T) {
	handler := NewStoryHandler(testLogger(), storage.NewMockStorage())

	w := putStory(t, handler, "forest_walk")
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/stories/forest_walk", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result graph.ConversionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "intro", result.StartNodeID)
	assert.Len(t, result.Story, 2)
}

func TestStoryHandler_PutRejectsBrokenGraph(t *testing.T) {
	mock := storage.NewMockStorage()
	handler := NewStoryHandler(testLogger(), mock)

	g := smallGraph()
	g.Nodes = g.Nodes[1:] // no start node left
	body, err := json.Marshal(g)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/stories/broken", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var result graph.ConversionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Contains(t, result.Errors, "no start node found")

	// Nothing was stored.
	stored, err := mock.GetStory(context.Background(), "broken")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestStoryHandler_List(t *testing.T) {
	handler := NewStoryHandler(testLogger(), storage.NewMockStorage())

	require.Equal(t, http.StatusOK, putStory(t, handler, "zebra").Code)
	require.Equal(t, http.StatusOK, putStory(t, handler, "apple").Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/stories", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var ids []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Equal(t, []string{"apple", "zebra"}, ids)
}

func TestStoryHandler_Delete(t *testing.T) {
	handler := NewStoryHandler(testLogger(), storage.NewMockStorage())

	require.Equal(t, http.StatusOK, putStory(t, handler, "doomed").Code)

	req := httptest.NewRequest(http.MethodDelete, "/v1/stories/doomed", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/stories/doomed", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoryHandler_InvalidID(t *testing.T) {
	handler := NewStoryHandler(testLogger(), storage.NewMockStorage())

	tests := []string{"Forest", "forest-walk", "_forest", "forest_", "9lives"}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/stories/"+id, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestStoryHandler_Export(t *testing.T) {
	handler := NewStoryHandler(testLogger(), storage.NewMockStorage())
	require.Equal(t, http.StatusOK, putStory(t, handler, "forest_walk").Code)

	t.Run("twee", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/stories/forest_walk/export?format=twee", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), ":: Intro")
	})

	t.Run("default format is json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/stories/forest_walk/export", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("missing story", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/stories/nope/export", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/stories/forest_walk/export?format=pdf", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestStoryHandler_MethodNotAllowed(t *testing.T) {
	handler := NewStoryHandler(testLogger(), storage.NewMockStorage())

	req := httptest.NewRequest(http.MethodPost, "/v1/stories/forest_walk", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
