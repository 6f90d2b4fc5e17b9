package story

import "encoding/json"

// RestartSentinel is the reserved NextNodeID meaning "return to the start".
// It is never a real node id and must not be looked up in the story graph.
const RestartSentinel = "-1"

// Difficulty rates how demanding a node is for the player.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Choice is a directed, labeled transition out of a StoryNode.
// Conditions and Consequences carry gameplay effects that the engine
// passes through without interpreting.
type Choice struct {
	ID           string            `json:"id"`
	Text         string            `json:"text"`
	NextNodeID   string            `json:"next_node_id"`
	Conditions   []json.RawMessage `json:"conditions"`
	Consequences []json.RawMessage `json:"consequences"`
}

// IsRestart reports whether the choice terminates the story and
// offers a return to the start.
func (c Choice) IsRestart() bool {
	return c.NextNodeID == RestartSentinel
}

// Metadata holds authoring tags and runtime bookkeeping for a node.
type Metadata struct {
	Tags       []string   `json:"tags,omitempty"`
	VisitCount int        `json:"visit_count,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// StoryNode is a single narrative unit in a story graph. Content may
// embed simple markup, which the engine treats as opaque text.
// An empty Choices list marks a terminal node.
type StoryNode struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Choices  []Choice `json:"choices"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// FindChoice returns the choice with the given id, or nil.
func (n *StoryNode) FindChoice(choiceID string) *Choice {
	for i := range n.Choices {
		if n.Choices[i].ID == choiceID {
			return &n.Choices[i]
		}
	}
	return nil
}

// IsTerminal reports whether the node ends the story: it either has no
// choices at all, or only offers the restart sentinel.
func (n *StoryNode) IsTerminal() bool {
	if len(n.Choices) == 0 {
		return true
	}
	return len(n.Choices) == 1 && n.Choices[0].IsRestart()
}
