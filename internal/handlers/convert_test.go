package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/storyforge/pkg/editor"
	"github.com/jwebster45206/storyforge/pkg/graph"
)

func postGraph(t *testing.T, h http.Handler, url string, g editor.Graph) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(g)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestConvertHandler(t *testing.T) {
	handler := NewConvertHandler(testLogger())

	t.Run("valid graph converts", func(t *testing.T) {
		w := postGraph(t, handler, "/v1/convert", smallGraph())
		require.Equal(t, http.StatusOK, w.Code)

		var resp ConvertResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Errors)
		assert.Equal(t, "intro", resp.StartNodeID)
		assert.Len(t, resp.Story, 2)
		assert.Nil(t, resp.Stats)
	})

	t.Run("stats query includes statistics", func(t *testing.T) {
		w := postGraph(t, handler, "/v1/convert?stats=true", smallGraph())
		require.Equal(t, http.StatusOK, w.Code)

		var resp ConvertResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Stats)
		assert.Equal(t, 2, resp.Stats.TotalNodes)
		assert.Equal(t, 2, resp.Stats.MaxDepth)
	})

	t.Run("broken graph reports errors in body", func(t *testing.T) {
		g := smallGraph()
		g.Nodes = g.Nodes[1:] // drop the start node
		w := postGraph(t, handler, "/v1/convert", g)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ConvertResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Errors, "no start node found")
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/convert", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/convert", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestValidateHandler(t *testing.T) {
	handler := NewValidateHandler(testLogger())

	t.Run("valid graph", func(t *testing.T) {
		w := postGraph(t, handler, "/v1/validate", smallGraph())
		require.Equal(t, http.StatusOK, w.Code)

		var result graph.ValidationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})

	t.Run("empty graph", func(t *testing.T) {
		w := postGraph(t, handler, "/v1/validate", editor.Graph{})
		require.Equal(t, http.StatusOK, w.Code)

		var result graph.ValidationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{"graph contains no nodes"}, result.Errors)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/validate", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
