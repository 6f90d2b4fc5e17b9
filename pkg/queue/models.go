package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/storyforge/pkg/chat"
)

// DraftJob is one queued draft-generation request. The RequestID is the
// handle a client polls with to fetch the finished draft.
type DraftJob struct {
	RequestID  uuid.UUID         `json:"request_id"`
	StoryID    string            `json:"story_id,omitempty"`
	NodeID     string            `json:"node_id,omitempty"`
	Request    chat.DraftRequest `json:"request"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// NewDraftJob wraps a draft request with a fresh request id.
func NewDraftJob(storyID, nodeID string, req chat.DraftRequest) *DraftJob {
	return &DraftJob{
		RequestID:  uuid.New(),
		StoryID:    storyID,
		NodeID:     nodeID,
		Request:    req,
		EnqueuedAt: time.Now(),
	}
}

// ToJSON serializes the job for the queue.
func (j *DraftJob) ToJSON() ([]byte, error) {
	data, err := json.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft job: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a job from the queue.
func FromJSON(data []byte) (*DraftJob, error) {
	var j DraftJob
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft job: %w", err)
	}
	return &j, nil
}
