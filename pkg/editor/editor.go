package editor

import "github.com/jwebster45206/storyforge/pkg/story"

// NodeType tags an editor node's role in the graph.
type NodeType string

const (
	NodeTypeStart NodeType = "start"
	NodeTypeStory NodeType = "story"
	NodeTypeEnd   NodeType = "end"
)

// Position is canvas layout data. The conversion engine ignores it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload of an editor node: the story node under
// construction plus its role tag. StoryNode may carry stale or
// placeholder choices while the author is still wiring edges.
type NodeData struct {
	StoryNode *story.StoryNode `json:"story_node"`
	NodeType  NodeType         `json:"node_type"`
}

// Node is a node in the pre-conversion editor graph.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Title returns the display title of the underlying story node,
// or "" when the node is mid-edit and has no story data yet.
func (n Node) Title() string {
	if n.Data.StoryNode == nil {
		return ""
	}
	return n.Data.StoryNode.Title
}

// EdgeData optionally carries a full choice override on an edge,
// preserving authored conditions and consequences.
type EdgeData struct {
	Choice *story.Choice `json:"choice,omitempty"`
}

// Edge is a directed labeled connection between two editor nodes.
// Source and Target may reference unknown node ids while the author
// is mid-edit; referential integrity is checked after conversion.
type Edge struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	Label  string    `json:"label,omitempty"`
	Data   *EdgeData `json:"data,omitempty"`
}

// Graph bundles the editor node and edge lists, the shape exchanged
// with the editor UI and the convert/validate endpoints.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
