package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/jwebster45206/storyforge/internal/storage"
	"github.com/jwebster45206/storyforge/pkg/editor"
	"github.com/jwebster45206/storyforge/pkg/export"
	"github.com/jwebster45206/storyforge/pkg/graph"
)

var validStoryIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// StoryHandler serves the story library: converted stories persisted by id.
//
//	GET    /v1/stories              list story ids
//	GET    /v1/stories/{id}         fetch a stored conversion result
//	PUT    /v1/stories/{id}         convert an editor graph and store it
//	DELETE /v1/stories/{id}         remove a story
//	GET    /v1/stories/{id}/export  serialize (?format=native|generic|twee, ?force=true)
type StoryHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewStoryHandler(log *slog.Logger, storage storage.Storage) *StoryHandler {
	return &StoryHandler{
		log:     log,
		storage: storage,
	}
}

func (h *StoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/stories")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.handleList(w, r)
		return
	}

	id := path
	if rest, found := strings.CutSuffix(path, "/export"); found {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.handleExport(w, r, rest)
		return
	}

	if !validStoryIDRegex.MatchString(id) {
		writeError(w, http.StatusBadRequest, "story id must be lowercase snake_case")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodPut:
		h.handlePut(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *StoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListStories(r.Context())
	if err != nil {
		h.log.Error("Failed to list stories", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list stories")
		return
	}
	sort.Strings(ids)
	writeJSON(w, http.StatusOK, ids)
}

func (h *StoryHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.storage.GetStory(r.Context(), id)
	if err != nil {
		h.log.Error("Failed to get story", "error", err, "story_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve story")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "Story not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePut converts the submitted editor graph and stores the result.
// Graphs that convert with fatal errors are not stored; the diagnostics
// come back with 422 so the editor can surface them.
func (h *StoryHandler) handlePut(w http.ResponseWriter, r *http.Request, id string) {
	var g editor.Graph
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result := graph.Convert(g.Nodes, g.Edges)
	if len(result.Errors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	if err := h.storage.SaveStory(r.Context(), id, &result); err != nil {
		h.log.Error("Failed to save story", "error", err, "story_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to save story")
		return
	}

	h.log.Info("Story saved", "story_id", id, "nodes", len(result.Story))
	writeJSON(w, http.StatusOK, result)
}

func (h *StoryHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.storage.DeleteStory(r.Context(), id); err != nil {
		h.log.Error("Failed to delete story", "error", err, "story_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete story")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoryHandler) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.storage.GetStory(r.Context(), id)
	if err != nil {
		h.log.Error("Failed to get story for export", "error", err, "story_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve story")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "Story not found")
		return
	}

	opts := export.Options{
		Format: export.Format(r.URL.Query().Get("format")),
		Force:  r.URL.Query().Get("force") == "true",
	}

	data, err := export.Export(*result, opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	contentType := "application/json"
	if opts.Format == export.FormatTwee {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
