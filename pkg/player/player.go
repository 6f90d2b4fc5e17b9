// Package player walks a converted story graph at runtime.
package player

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/storyforge/pkg/graph"
	"github.com/jwebster45206/storyforge/pkg/state"
	"github.com/jwebster45206/storyforge/pkg/story"
)

var (
	// ErrUnknownNode means a session points at a node id absent from the story.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownChoice means the requested choice id does not exist on the current node.
	ErrUnknownChoice = errors.New("unknown choice")
	// ErrUnplayable means the conversion result carries fatal errors.
	ErrUnplayable = errors.New("story has conversion errors")
)

// Player steps a play session through an immutable story graph. The graph
// is indexed once at construction; Player itself holds no session state,
// so one Player can serve any number of concurrent sessions.
type Player struct {
	nodes       map[string]story.StoryNode
	startNodeID string
}

// New builds a Player from a conversion result. Results with fatal errors
// are rejected; the diagnostics tell the author what to fix.
func New(result graph.ConversionResult) (*Player, error) {
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnplayable, result.Errors[0])
	}
	nodes := make(map[string]story.StoryNode, len(result.Story))
	for _, n := range result.Story {
		nodes[n.ID] = n
	}
	if _, ok := nodes[result.StartNodeID]; !ok {
		return nil, fmt.Errorf("%w: start node %s", ErrUnknownNode, result.StartNodeID)
	}
	return &Player{nodes: nodes, startNodeID: result.StartNodeID}, nil
}

// StartNodeID returns the story's entry node id.
func (p *Player) StartNodeID() string {
	return p.startNodeID
}

// Node looks up a node by id.
func (p *Player) Node(id string) (story.StoryNode, error) {
	n, ok := p.nodes[id]
	if !ok {
		return story.StoryNode{}, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n, nil
}

// Current returns the node the session is positioned at.
func (p *Player) Current(ps *state.PlayState) (story.StoryNode, error) {
	return p.Node(ps.CurrentNodeID)
}

// Choose applies the choice with the given id on the session's current
// node. The restart sentinel is never looked up as a node: it marks the
// session ended and repositions it at the start.
func (p *Player) Choose(ps *state.PlayState, choiceID string) (story.StoryNode, error) {
	current, err := p.Current(ps)
	if err != nil {
		return story.StoryNode{}, err
	}

	choice := current.FindChoice(choiceID)
	if choice == nil {
		return story.StoryNode{}, fmt.Errorf("%w: %s on node %s", ErrUnknownChoice, choiceID, current.ID)
	}

	if choice.IsRestart() {
		ps.End()
		ps.CurrentNodeID = p.startNodeID
		return p.Node(p.startNodeID)
	}

	next, err := p.Node(choice.NextNodeID)
	if err != nil {
		return story.StoryNode{}, err
	}
	ps.Visit(next.ID)
	return next, nil
}
