package graph

import (
	"fmt"

	"github.com/jwebster45206/storyforge/pkg/story"
)

// checkIntegrity re-verifies the fully converted story list: every choice
// target must resolve to a real node, and every node must be reachable from
// the start by following choices. Unlike Validate, which inspects raw edges,
// this operates on the final choices, so it catches defects introduced or
// fixed during conversion.
func checkIntegrity(result *ConversionResult) {
	byID := make(map[string]bool, len(result.Story))
	for _, n := range result.Story {
		byID[n.ID] = true
	}

	for _, n := range result.Story {
		for _, c := range n.Choices {
			if c.IsRestart() {
				continue
			}
			if !byID[c.NextNodeID] {
				result.Errors = append(result.Errors,
					fmt.Sprintf("choice '%s' in node '%s' (%s) references nonexistent node: %s",
						c.Text, n.Title, n.ID, c.NextNodeID))
			}
		}
	}

	visited := reachableFrom(result.Story, result.StartNodeID)
	for _, n := range result.Story {
		if n.ID == result.StartNodeID || visited[n.ID] {
			continue
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("node '%s' (%s) is not reachable from the start", n.Title, n.ID))
	}
}

// reachableFrom marks every node reachable from startNodeID by depth-first
// traversal over choice targets, skipping the restart sentinel. An explicit
// stack keeps deeply chained graphs from exhausting the call stack.
func reachableFrom(nodes []story.StoryNode, startNodeID string) map[string]bool {
	byID := make(map[string]*story.StoryNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	visited := make(map[string]bool, len(nodes))
	stack := []string{startNodeID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		n, ok := byID[id]
		if !ok {
			continue
		}
		visited[id] = true
		for _, c := range n.Choices {
			if c.IsRestart() || visited[c.NextNodeID] {
				continue
			}
			stack = append(stack, c.NextNodeID)
		}
	}
	return visited
}
