package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/storyforge/internal/storage"
)

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		handler := NewHealthHandler(storage.NewMockStorage(), testLogger())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "storyforge", resp.Service)
		assert.Equal(t, "healthy", resp.Components["storage"])
	})

	t.Run("degraded on storage failure", func(t *testing.T) {
		mock := storage.NewMockStorage()
		mock.PingErr = errors.New("connection refused")
		handler := NewHealthHandler(mock, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unhealthy", resp.Components["storage"])
	})
}
