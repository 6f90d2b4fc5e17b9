package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/jwebster45206/storyforge/pkg/editor"
	"github.com/jwebster45206/storyforge/pkg/story"
)

// ConversionResult is the terminal output of Convert: an ordered story node list
// ready for play or export, plus accumulated diagnostics. A non-empty
// Errors list marks the result unusable for play and export.
type ConversionResult struct {
	Story       []story.StoryNode `json:"story"`
	StartNodeID string            `json:"start_node_id"`
	Errors      []string          `json:"errors"`
	Warnings    []string          `json:"warnings"`
}

// Convert turns an editor graph into a normalized story graph. It is
// deterministic: identical inputs always produce identical output,
// including choice and node ordering. Input nodes and edges are never
// mutated and no references into them survive the call.
func Convert(nodes []editor.Node, edges []editor.Edge) ConversionResult {
	validation := Validate(nodes, edges)
	if !validation.IsValid {
		return ConversionResult{
			Story:       []story.StoryNode{},
			StartNodeID: "",
			Errors:      validation.Errors,
			Warnings:    validation.Warnings,
		}
	}

	result := ConversionResult{
		Story:    make([]story.StoryNode, 0, len(nodes)),
		Errors:   append([]string{}, validation.Errors...),
		Warnings: append([]string{}, validation.Warnings...),
	}

	for _, n := range nodes {
		if n.Data.NodeType == editor.NodeTypeStart {
			result.StartNodeID = n.ID
			break
		}
	}

	for _, n := range nodes {
		converted, err := convertNode(n, edges)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error converting node %s: %v", n.ID, err))
			continue
		}
		result.Story = append(result.Story, converted)
	}

	checkIntegrity(&result)
	sortStory(result.Story, result.StartNodeID)

	return result
}

// convertNode derives a StoryNode from one editor node. A panic inside the
// per-node conversion is recovered and surfaced as that node's error so a
// single malformed node cannot abort the rest of the graph.
func convertNode(n editor.Node, edges []editor.Edge) (converted story.StoryNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	converted = story.StoryNode{
		ID:      n.ID,
		Choices: []story.Choice{},
	}

	var existing []story.Choice
	if n.Data.StoryNode != nil {
		converted.Title = n.Data.StoryNode.Title
		converted.Content = n.Data.StoryNode.Content
		converted.Metadata = copyMetadata(n.Data.StoryNode.Metadata)
		existing = n.Data.StoryNode.Choices
	}

	for _, e := range edges {
		if e.Source != n.ID {
			continue
		}
		converted.Choices = append(converted.Choices, deriveChoice(n, e, existing, len(converted.Choices)))
	}

	// A node mid-edit may carry authored choices that have not been wired
	// to edges yet. Preserve them verbatim rather than emitting an empty
	// choice list.
	if len(converted.Choices) == 0 && len(existing) > 0 {
		for _, c := range existing {
			converted.Choices = append(converted.Choices, copyChoice(c))
		}
	}

	if n.Data.NodeType == editor.NodeTypeEnd && !hasRestartChoice(converted.Choices) {
		converted.Choices = append(converted.Choices, story.Choice{
			ID:           "restart_" + n.ID,
			Text:         "Restart",
			NextNodeID:   story.RestartSentinel,
			Conditions:   []json.RawMessage{},
			Consequences: []json.RawMessage{},
		})
	}

	return converted, nil
}

// deriveChoice builds the choice for the i-th outgoing edge of a node.
//
// Text falls back through: edge label, the edge's attached choice, the
// node's pre-existing choice at the same position, then "Choice N". The
// positional fallback matches the editor's authoring behavior; no id
// correlation exists between edges and authored choices to do better.
func deriveChoice(n editor.Node, e editor.Edge, existing []story.Choice, i int) story.Choice {
	c := story.Choice{
		NextNodeID:   e.Target,
		Conditions:   []json.RawMessage{},
		Consequences: []json.RawMessage{},
	}

	var positional *story.Choice
	if i < len(existing) {
		positional = &existing[i]
	}

	switch {
	case e.Label != "":
		c.Text = e.Label
	case e.Data != nil && e.Data.Choice != nil && e.Data.Choice.Text != "":
		c.Text = e.Data.Choice.Text
	case positional != nil && positional.Text != "":
		c.Text = positional.Text
	default:
		c.Text = fmt.Sprintf("Choice %d", i+1)
	}

	switch {
	case e.ID != "":
		c.ID = e.ID
	case positional != nil && positional.Text != "" && positional.ID != "":
		c.ID = positional.ID
	default:
		c.ID = fmt.Sprintf("choice_%s_%d", n.ID, i)
	}

	if e.Data != nil && e.Data.Choice != nil {
		c.Conditions = copyRaw(e.Data.Choice.Conditions)
		c.Consequences = copyRaw(e.Data.Choice.Consequences)
	}

	return c
}

func hasRestartChoice(choices []story.Choice) bool {
	for _, c := range choices {
		if c.IsRestart() {
			return true
		}
	}
	return false
}

// sortStory orders the final node list: start node first, the remainder by
// numeric id when every remaining id parses as an integer, otherwise by
// lexicographic comparison. The order is total, so output is stable across
// runs regardless of input ordering.
func sortStory(nodes []story.StoryNode, startNodeID string) {
	allNumeric := true
	for _, n := range nodes {
		if _, err := strconv.Atoi(n.ID); err != nil {
			allNumeric = false
			break
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.ID == startNodeID {
			return b.ID != startNodeID
		}
		if b.ID == startNodeID {
			return false
		}
		if allNumeric {
			ai, _ := strconv.Atoi(a.ID)
			bi, _ := strconv.Atoi(b.ID)
			if ai != bi {
				return ai < bi
			}
		}
		return a.ID < b.ID
	})
}

func copyChoice(c story.Choice) story.Choice {
	c.Conditions = copyRaw(c.Conditions)
	c.Consequences = copyRaw(c.Consequences)
	return c
}

func copyMetadata(m story.Metadata) story.Metadata {
	if m.Tags != nil {
		m.Tags = append([]string{}, m.Tags...)
	}
	return m
}

func copyRaw(raw []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
