package state

import (
	"time"

	"github.com/google/uuid"
)

// CurrentVersion is written into new PlayStates so older saves can be
// migrated if the shape changes.
const CurrentVersion = 1

// PlayState is the persisted save record for one play session. It is a
// simple versioned key-value shape: the engine itself never interprets
// Vars, they are scratch space for choice consequences.
type PlayState struct {
	ID            uuid.UUID         `json:"id"`
	Version       int               `json:"version"`
	StoryID       string            `json:"story_id"`
	CurrentNodeID string            `json:"current_node_id"`
	History       []string          `json:"history,omitempty"`      // visited node ids in order
	VisitCounts   map[string]int    `json:"visit_counts,omitempty"` // node id -> times entered
	Vars          map[string]string `json:"vars,omitempty"`
	Ended         bool              `json:"ended,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewPlayState creates a fresh session positioned at the story's start node.
func NewPlayState(storyID, startNodeID string) *PlayState {
	now := time.Now()
	return &PlayState{
		ID:            uuid.New(),
		Version:       CurrentVersion,
		StoryID:       storyID,
		CurrentNodeID: startNodeID,
		History:       []string{startNodeID},
		VisitCounts:   map[string]int{startNodeID: 1},
		Vars:          make(map[string]string),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Visit records entry into a node and moves the session there.
func (ps *PlayState) Visit(nodeID string) {
	ps.CurrentNodeID = nodeID
	ps.History = append(ps.History, nodeID)
	if ps.VisitCounts == nil {
		ps.VisitCounts = make(map[string]int)
	}
	ps.VisitCounts[nodeID]++
	ps.Ended = false
	ps.UpdatedAt = time.Now()
}

// End marks the session terminated; a subsequent Visit clears the flag.
func (ps *PlayState) End() {
	ps.Ended = true
	ps.UpdatedAt = time.Now()
}
