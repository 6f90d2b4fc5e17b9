package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/storyforge/pkg/editor"
	"github.com/jwebster45206/storyforge/pkg/graph"
)

// ConvertResponse wraps the conversion result, optionally with derived
// statistics when the request asks for them.
type ConvertResponse struct {
	graph.ConversionResult
	Stats *graph.StoryStats `json:"stats,omitempty"`
}

// ConvertHandler converts an editor graph into a playable story graph.
// The endpoint is stateless: each request is an independent conversion.
type ConvertHandler struct {
	log *slog.Logger
}

func NewConvertHandler(log *slog.Logger) *ConvertHandler {
	return &ConvertHandler{log: log}
}

func (h *ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var g editor.Graph
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result := graph.Convert(g.Nodes, g.Edges)

	resp := ConvertResponse{ConversionResult: result}
	if r.URL.Query().Get("stats") == "true" {
		stats := graph.GenerateStats(result)
		resp.Stats = &stats
	}

	h.log.Debug("Converted graph",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))

	writeJSON(w, http.StatusOK, resp)
}

// ValidateHandler runs structural validation only, without conversion.
// The editor calls this on every graph change to refresh diagnostics.
type ValidateHandler struct {
	log *slog.Logger
}

func NewValidateHandler(log *slog.Logger) *ValidateHandler {
	return &ValidateHandler{log: log}
}

func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var g editor.Graph
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, graph.Validate(g.Nodes, g.Edges))
}
