// Package graph converts editor graphs into playable story graphs.
//
// The pipeline runs one direction: editor graph -> Validate -> Convert ->
// integrity check -> ordered story node list plus diagnostics. All functions
// are pure; inputs are never mutated and no state survives a call.
package graph

import (
	"fmt"

	"github.com/jwebster45206/storyforge/pkg/editor"
)

// ValidationResult reports structural defects found in an editor graph.
// Errors are fatal; warnings are advisory and never affect IsValid.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate examines the raw editor graph and reports structural errors and
// warnings without mutating anything. Edges may reference unknown node ids;
// referential integrity is deliberately left to the post-conversion
// integrity check, which operates on final choices rather than raw edges.
func Validate(nodes []editor.Node, edges []editor.Edge) ValidationResult {
	result := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	if len(nodes) == 0 {
		result.Errors = append(result.Errors, "graph contains no nodes")
		return result
	}

	startCount := 0
	endCount := 0
	for _, n := range nodes {
		switch n.Data.NodeType {
		case editor.NodeTypeStart:
			startCount++
		case editor.NodeTypeEnd:
			endCount++
		}
	}

	switch {
	case startCount == 0:
		result.Errors = append(result.Errors, "no start node found")
	case startCount > 1:
		result.Errors = append(result.Errors, fmt.Sprintf("multiple start nodes found: %d", startCount))
	}

	if endCount == 0 {
		result.Warnings = append(result.Warnings, "no end node found")
	}

	outgoing := make(map[string]int, len(nodes))
	incoming := make(map[string]int, len(nodes))
	for _, e := range edges {
		outgoing[e.Source]++
		incoming[e.Target]++
	}

	for _, n := range nodes {
		if n.Data.NodeType != editor.NodeTypeEnd && outgoing[n.ID] == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("node '%s' (%s) has no outgoing connections", n.Title(), n.ID))
		}
		// Structural approximation only: a node whose incoming edges all
		// come from other unreachable nodes is missed here. True
		// reachability from the start runs in the integrity check.
		if n.Data.NodeType != editor.NodeTypeStart && incoming[n.ID] == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("node '%s' (%s) is not reachable", n.Title(), n.ID))
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
