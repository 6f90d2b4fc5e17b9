package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/storyforge/internal/queue"
	"github.com/jwebster45206/storyforge/internal/services"
	"github.com/jwebster45206/storyforge/internal/storage"
	"github.com/jwebster45206/storyforge/pkg/chat"
	pkgqueue "github.com/jwebster45206/storyforge/pkg/queue"
	"github.com/jwebster45206/storyforge/pkg/story"
)

// GenerateRequest asks for AI draft content for one node. StoryID and
// NodeID are bookkeeping for async jobs; the draft request itself is
// what the model sees.
type GenerateRequest struct {
	chat.DraftRequest
	StoryID string `json:"story_id,omitempty"`
	NodeID  string `json:"node_id,omitempty"`
}

// GenerateResponse returns a finished draft.
type GenerateResponse struct {
	Draft *story.StoryNode `json:"draft"`
}

// EnqueueResponse acknowledges an async draft job.
type EnqueueResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	Status    string    `json:"status"`
}

// GenerateHandler produces AI node drafts, synchronously or through the
// worker queue.
//
//	POST /v1/generate         generate a draft inline
//	POST /v1/generate/async   enqueue a draft job, return a request id
//	GET  /v1/generate/{id}    fetch a finished async draft
type GenerateHandler struct {
	log     *slog.Logger
	llm     services.LLMService
	storage storage.Storage
	queue   *queue.DraftQueue
}

// NewGenerateHandler wires the handler. queue may be nil when no worker
// is deployed; async requests then return 503.
func NewGenerateHandler(log *slog.Logger, llm services.LLMService, storage storage.Storage, q *queue.DraftQueue) *GenerateHandler {
	return &GenerateHandler{
		log:     log,
		llm:     llm,
		storage: storage,
		queue:   q,
	}
}

func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/generate")
	path = strings.Trim(path, "/")

	switch {
	case path == "" && r.Method == http.MethodPost:
		h.handleGenerate(w, r)
	case path == "async" && r.Method == http.MethodPost:
		h.handleEnqueue(w, r)
	case path != "" && r.Method == http.MethodGet:
		h.handleGetDraft(w, r, path)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *GenerateHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	draft, err := services.GenerateNodeDraft(r.Context(), h.llm, req.DraftRequest)
	if err != nil {
		h.log.Error("Draft generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "Draft generation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Draft: draft})
}

func (h *GenerateHandler) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "Async generation is not available")
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	job := pkgqueue.NewDraftJob(req.StoryID, req.NodeID, req.DraftRequest)
	if err := h.queue.Enqueue(r.Context(), job); err != nil {
		h.log.Error("Failed to enqueue draft job", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to enqueue draft job")
		return
	}

	h.log.Debug("Draft job enqueued", "request_id", job.RequestID, "story_id", job.StoryID)
	writeJSON(w, http.StatusAccepted, EnqueueResponse{
		RequestID: job.RequestID,
		Status:    "queued",
	})
}

func (h *GenerateHandler) handleGetDraft(w http.ResponseWriter, r *http.Request, idPart string) {
	id, err := uuid.Parse(idPart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	draft, err := h.storage.LoadDraft(r.Context(), id)
	if err != nil {
		h.log.Error("Failed to load draft", "error", err, "request_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}
	if draft == nil {
		writeError(w, http.StatusNotFound, "Draft not found or not ready")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Draft: draft})
}

func (h *GenerateHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (GenerateRequest, bool) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return req, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
