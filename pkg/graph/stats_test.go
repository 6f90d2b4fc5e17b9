package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/storyforge/pkg/story"
)

func statsResult(startID string, nodes ...story.StoryNode) ConversionResult {
	return ConversionResult{
		Story:       nodes,
		StartNodeID: startID,
		Errors:      []string{},
		Warnings:    []string{},
	}
}

func TestGenerateStats_Basic(t *testing.T) {
	result := statsResult("a",
		story.StoryNode{ID: "a", Choices: []story.Choice{
			{ID: "c1", Text: "Left", NextNodeID: "b"},
			{ID: "c2", Text: "Right", NextNodeID: "b"},
		}},
		story.StoryNode{ID: "b"},
	)

	stats := GenerateStats(result)

	assert.Equal(t, 2, stats.TotalNodes)
	assert.Equal(t, 2, stats.TotalChoices)
	assert.Equal(t, 1, stats.EndNodes)
	assert.Equal(t, "1.00", stats.AverageChoicesPerNode)
	assert.False(t, stats.HasErrors)
	assert.False(t, stats.HasWarnings)
}

func TestGenerateStats_RestartOnlyNodeCountsAsEnd(t *testing.T) {
	result := statsResult("a",
		story.StoryNode{ID: "a", Choices: []story.Choice{
			{ID: "c1", Text: "Finish", NextNodeID: "b"},
		}},
		story.StoryNode{ID: "b", Choices: []story.Choice{
			{ID: "restart_b", Text: "Restart", NextNodeID: story.RestartSentinel},
		}},
	)

	stats := GenerateStats(result)

	assert.Equal(t, 1, stats.EndNodes)
}

func TestGenerateStats_EmptyStory(t *testing.T) {
	stats := GenerateStats(statsResult(""))

	assert.Equal(t, 0, stats.TotalNodes)
	assert.Equal(t, "0.00", stats.AverageChoicesPerNode)
	assert.Equal(t, 0, stats.MaxDepth)
}

func TestGenerateStats_MaxDepthLinear(t *testing.T) {
	result := statsResult("1",
		story.StoryNode{ID: "1", Choices: []story.Choice{{NextNodeID: "2"}}},
		story.StoryNode{ID: "2", Choices: []story.Choice{{NextNodeID: "3"}}},
		story.StoryNode{ID: "3"},
	)

	stats := GenerateStats(result)

	assert.Equal(t, 3, stats.MaxDepth)
}

func TestGenerateStats_MaxDepthDiamond(t *testing.T) {
	// 1 -> 2 -> 4 and 1 -> 3 -> 4: reconvergence must not truncate the
	// second branch, so depth is still 3 via either arm.
	result := statsResult("1",
		story.StoryNode{ID: "1", Choices: []story.Choice{{NextNodeID: "2"}, {NextNodeID: "3"}}},
		story.StoryNode{ID: "2", Choices: []story.Choice{{NextNodeID: "4"}}},
		story.StoryNode{ID: "3", Choices: []story.Choice{{NextNodeID: "4"}, {NextNodeID: "5"}}},
		story.StoryNode{ID: "4"},
		story.StoryNode{ID: "5", Choices: []story.Choice{{NextNodeID: "4"}}},
	)

	stats := GenerateStats(result)

	// Longest path is 1 -> 3 -> 5 -> 4.
	assert.Equal(t, 4, stats.MaxDepth)
}

func TestGenerateStats_MaxDepthCycleSafe(t *testing.T) {
	result := statsResult("1",
		story.StoryNode{ID: "1", Choices: []story.Choice{{NextNodeID: "2"}}},
		story.StoryNode{ID: "2", Choices: []story.Choice{{NextNodeID: "1"}, {NextNodeID: "3"}}},
		story.StoryNode{ID: "3", Choices: []story.Choice{{NextNodeID: story.RestartSentinel}}},
	)

	stats := GenerateStats(result)

	assert.Equal(t, 3, stats.MaxDepth)
}

func TestGenerateStats_Flags(t *testing.T) {
	result := statsResult("1", story.StoryNode{ID: "1"})
	result.Errors = append(result.Errors, "boom")
	result.Warnings = append(result.Warnings, "careful")

	stats := GenerateStats(result)

	assert.True(t, stats.HasErrors)
	assert.True(t, stats.HasWarnings)
}
