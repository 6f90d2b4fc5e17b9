package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/storyforge/pkg/graph"
	"github.com/jwebster45206/storyforge/pkg/state"
	"github.com/jwebster45206/storyforge/pkg/story"
)

func playableResult() graph.ConversionResult {
	return graph.ConversionResult{
		StartNodeID: "1",
		Story: []story.StoryNode{
			{ID: "1", Title: "Start", Choices: []story.Choice{
				{ID: "c1", Text: "Onward", NextNodeID: "2"},
			}},
			{ID: "2", Title: "End", Choices: []story.Choice{
				{ID: "restart_2", Text: "Restart", NextNodeID: story.RestartSentinel},
			}},
		},
		Errors:   []string{},
		Warnings: []string{},
	}
}

func TestNew_RejectsErroredResult(t *testing.T) {
	result := playableResult()
	result.Errors = []string{"choice 'x' in node 'y' (1) references nonexistent node: 9"}

	_, err := New(result)

	assert.ErrorIs(t, err, ErrUnplayable)
}

func TestPlayer_ChooseAdvancesSession(t *testing.T) {
	p, err := New(playableResult())
	require.NoError(t, err)

	ps := state.NewPlayState("test_story", p.StartNodeID())
	next, err := p.Choose(ps, "c1")
	require.NoError(t, err)

	assert.Equal(t, "2", next.ID)
	assert.Equal(t, "2", ps.CurrentNodeID)
	assert.Equal(t, []string{"1", "2"}, ps.History)
	assert.Equal(t, 1, ps.VisitCounts["2"])
}

func TestPlayer_RestartSentinelEndsAndResets(t *testing.T) {
	p, err := New(playableResult())
	require.NoError(t, err)

	ps := state.NewPlayState("test_story", p.StartNodeID())
	_, err = p.Choose(ps, "c1")
	require.NoError(t, err)

	node, err := p.Choose(ps, "restart_2")
	require.NoError(t, err)

	assert.True(t, ps.Ended)
	assert.Equal(t, "1", node.ID)
	assert.Equal(t, "1", ps.CurrentNodeID)
}

func TestPlayer_UnknownChoice(t *testing.T) {
	p, err := New(playableResult())
	require.NoError(t, err)

	ps := state.NewPlayState("test_story", p.StartNodeID())
	_, err = p.Choose(ps, "nope")

	assert.ErrorIs(t, err, ErrUnknownChoice)
}

func TestPlayer_UnknownCurrentNode(t *testing.T) {
	p, err := New(playableResult())
	require.NoError(t, err)

	ps := state.NewPlayState("test_story", "ghost")
	_, err = p.Current(ps)

	assert.ErrorIs(t, err, ErrUnknownNode)
}
