package handlers

import (
	"log/slog"
	"os"

	"github.com/jwebster45206/storyforge/pkg/editor"
	"github.com/jwebster45206/storyforge/pkg/graph"
	"github.com/jwebster45206/storyforge/pkg/story"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// smallGraph is a minimal valid editor graph: a start node wired to an
// end node with one labeled edge.
func smallGraph() editor.Graph {
	return editor.Graph{
		Nodes: []editor.Node{
			{
				ID: "intro",
				Data: editor.NodeData{
					NodeType: editor.NodeTypeStart,
					StoryNode: &story.StoryNode{
						Title:   "Intro",
						Content: "You wake up in a clearing.",
					},
				},
			},
			{
				ID: "finish",
				Data: editor.NodeData{
					NodeType: editor.NodeTypeEnd,
					StoryNode: &story.StoryNode{
						Title:   "Finish",
						Content: "The story ends.",
					},
				},
			},
		},
		Edges: []editor.Edge{
			{ID: "e1", Source: "intro", Target: "finish", Label: "Walk on"},
		},
	}
}

// storedResult converts smallGraph into the shape the storage layer holds.
func storedResult() *graph.ConversionResult {
	g := smallGraph()
	result := graph.Convert(g.Nodes, g.Edges)
	return &result
}
