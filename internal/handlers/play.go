package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/storyforge/internal/storage"
	"github.com/jwebster45206/storyforge/pkg/player"
	"github.com/jwebster45206/storyforge/pkg/state"
	"github.com/jwebster45206/storyforge/pkg/story"
)

// PlayRequest starts a new play session.
type PlayRequest struct {
	StoryID string `json:"story_id"`
}

// ChoiceRequest applies one choice to a session.
type ChoiceRequest struct {
	ChoiceID string `json:"choice_id"`
}

// PlayResponse pairs the session state with the node the player is
// looking at, so the client never needs the full story graph.
type PlayResponse struct {
	State *state.PlayState `json:"state"`
	Node  story.StoryNode  `json:"node"`
}

// PlayHandler runs play sessions over stored stories.
//
//	POST   /v1/play               start a session {"story_id": ...}
//	GET    /v1/play/{id}          fetch session and current node
//	POST   /v1/play/{id}/choice   apply a choice {"choice_id": ...}
//	DELETE /v1/play/{id}          abandon a session
type PlayHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewPlayHandler(log *slog.Logger, storage storage.Storage) *PlayHandler {
	return &PlayHandler{
		log:     log,
		storage: storage,
	}
}

func (h *PlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/play")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.handleCreate(w, r)
		return
	}

	idPart, isChoice := strings.CutSuffix(path, "/choice")
	idPart = strings.Trim(idPart, "/")

	id, err := uuid.Parse(idPart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	switch {
	case isChoice && r.Method == http.MethodPost:
		h.handleChoice(w, r, id)
	case !isChoice && r.Method == http.MethodGet:
		h.handleGet(w, r, id)
	case !isChoice && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *PlayHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.StoryID == "" {
		writeError(w, http.StatusBadRequest, "story_id is required")
		return
	}

	p, status, msg := h.loadPlayer(r, req.StoryID)
	if p == nil {
		writeError(w, status, msg)
		return
	}

	ps := state.NewPlayState(req.StoryID, p.StartNodeID())
	node, err := p.Current(ps)
	if err != nil {
		h.log.Error("Start node lookup failed", "error", err, "story_id", req.StoryID)
		writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	if err := h.storage.SavePlayState(r.Context(), ps.ID, ps); err != nil {
		h.log.Error("Failed to save playstate", "error", err, "uuid", ps.ID)
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	writeJSON(w, http.StatusCreated, PlayResponse{State: ps, Node: node})
}

func (h *PlayHandler) handleGet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ps, status, msg := h.loadState(r, id)
	if ps == nil {
		writeError(w, status, msg)
		return
	}

	p, status, msg := h.loadPlayer(r, ps.StoryID)
	if p == nil {
		writeError(w, status, msg)
		return
	}

	node, err := p.Current(ps)
	if err != nil {
		writeError(w, http.StatusConflict, "Session points at a node no longer in the story")
		return
	}

	writeJSON(w, http.StatusOK, PlayResponse{State: ps, Node: node})
}

func (h *PlayHandler) handleChoice(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ChoiceID == "" {
		writeError(w, http.StatusBadRequest, "choice_id is required")
		return
	}

	ps, status, msg := h.loadState(r, id)
	if ps == nil {
		writeError(w, status, msg)
		return
	}

	p, status, msg := h.loadPlayer(r, ps.StoryID)
	if p == nil {
		writeError(w, status, msg)
		return
	}

	node, err := p.Choose(ps, req.ChoiceID)
	if err != nil {
		switch {
		case errors.Is(err, player.ErrUnknownChoice):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, player.ErrUnknownNode):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.log.Error("Choice failed", "error", err, "uuid", id)
			writeError(w, http.StatusInternalServerError, "Failed to apply choice")
		}
		return
	}

	if err := h.storage.SavePlayState(r.Context(), ps.ID, ps); err != nil {
		h.log.Error("Failed to save playstate", "error", err, "uuid", ps.ID)
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, PlayResponse{State: ps, Node: node})
}

func (h *PlayHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeletePlayState(r.Context(), id); err != nil {
		h.log.Error("Failed to delete playstate", "error", err, "uuid", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayHandler) loadState(r *http.Request, id uuid.UUID) (*state.PlayState, int, string) {
	ps, err := h.storage.LoadPlayState(r.Context(), id)
	if err != nil {
		h.log.Error("Failed to load playstate", "error", err, "uuid", id)
		return nil, http.StatusInternalServerError, "Failed to load session"
	}
	if ps == nil {
		return nil, http.StatusNotFound, "Session not found"
	}
	return ps, 0, ""
}

func (h *PlayHandler) loadPlayer(r *http.Request, storyID string) (*player.Player, int, string) {
	result, err := h.storage.GetStory(r.Context(), storyID)
	if err != nil {
		h.log.Error("Failed to load story", "error", err, "story_id", storyID)
		return nil, http.StatusInternalServerError, "Failed to load story"
	}
	if result == nil {
		return nil, http.StatusNotFound, "Story not found"
	}

	p, err := player.New(*result)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err.Error()
	}
	return p, 0, ""
}
