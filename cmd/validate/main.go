package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/storyforge/pkg/editor"
	"github.com/jwebster45206/storyforge/pkg/graph"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <graph.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]

	g, err := loadGraphFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	result := graph.Convert(g.Nodes, g.Edges)

	for _, e := range result.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	stats := graph.GenerateStats(result)
	fmt.Printf("\nNodes: %d  Choices: %d  End nodes: %d  Max depth: %d  Avg choices/node: %s\n",
		stats.TotalNodes, stats.TotalChoices, stats.EndNodes, stats.MaxDepth, stats.AverageChoicesPerNode)

	if len(result.Errors) > 0 {
		fmt.Printf("\n%s is not playable: %d error(s)\n", filename, len(result.Errors))
		os.Exit(1)
	}

	fmt.Printf("\n%s is valid!\n", filename)
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func loadGraphFile(filename string) (*editor.Graph, error) {
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return nil, fmt.Errorf("graph file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	// Allow 'x.' prefix for experimental graphs
	nameWithoutExt = strings.TrimPrefix(nameWithoutExt, "x.")
	if !validFilenameRegex.MatchString(nameWithoutExt) {
		return nil, fmt.Errorf("graph filename '%s' must be lowercase snake_case (e.g., my_story.json, not my-story.json or MyStory.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var g editor.Graph
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&g); err != nil {
		return nil, fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	return &g, nil
}
