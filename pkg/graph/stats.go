package graph

import (
	"fmt"

	"github.com/jwebster45206/storyforge/pkg/story"
)

// StoryStats summarizes a converted story for authoring dashboards.
// It is derived entirely from a ConversionResult and has no effect on
// conversion correctness.
type StoryStats struct {
	TotalNodes            int    `json:"total_nodes"`
	TotalChoices          int    `json:"total_choices"`
	AverageChoicesPerNode string `json:"average_choices_per_node"`
	EndNodes              int    `json:"end_nodes"`
	MaxDepth              int    `json:"max_depth"`
	HasErrors             bool   `json:"has_errors"`
	HasWarnings           bool   `json:"has_warnings"`
}

// GenerateStats computes derived metrics from an already-converted story.
func GenerateStats(result ConversionResult) StoryStats {
	stats := StoryStats{
		TotalNodes:  len(result.Story),
		HasErrors:   len(result.Errors) > 0,
		HasWarnings: len(result.Warnings) > 0,
	}

	for _, n := range result.Story {
		stats.TotalChoices += len(n.Choices)
		if n.IsTerminal() {
			stats.EndNodes++
		}
	}

	avg := 0.0
	if stats.TotalNodes > 0 {
		avg = float64(stats.TotalChoices) / float64(stats.TotalNodes)
	}
	stats.AverageChoicesPerNode = fmt.Sprintf("%.2f", avg)

	stats.MaxDepth = maxDepth(result.Story, result.StartNodeID)
	return stats
}

// maxDepth returns the node count of the longest acyclic path from the
// start, following choice targets and skipping the restart sentinel.
// The visited set tracks only the current path and is released on
// backtrack, so reconverging branches of a diamond are each explored at
// full depth. A node already on the current path is not re-descended,
// which bounds the walk on cyclic graphs. Iterative to keep deeply
// chained stories off the native call stack.
func maxDepth(nodes []story.StoryNode, startNodeID string) int {
	byID := make(map[string]*story.StoryNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}
	if _, ok := byID[startNodeID]; !ok {
		return 0
	}

	type frame struct {
		id   string
		next int // index of the next choice to descend into
	}

	onPath := map[string]bool{startNodeID: true}
	stack := []frame{{id: startNodeID}}
	best := 1

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := byID[top.id]

		pushed := false
		for top.next < len(n.Choices) {
			c := n.Choices[top.next]
			top.next++
			if c.IsRestart() || onPath[c.NextNodeID] {
				continue
			}
			if _, ok := byID[c.NextNodeID]; !ok {
				continue
			}
			onPath[c.NextNodeID] = true
			stack = append(stack, frame{id: c.NextNodeID})
			if len(stack) > best {
				best = len(stack)
			}
			pushed = true
			break
		}

		if !pushed {
			onPath[stack[len(stack)-1].id] = false
			stack = stack[:len(stack)-1]
		}
	}

	return best
}
