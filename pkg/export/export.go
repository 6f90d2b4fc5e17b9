// Package export serializes converted stories to interchange formats.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/storyforge/pkg/graph"
	"github.com/jwebster45206/storyforge/pkg/story"
)

// Format selects the interchange format to write.
type Format string

const (
	// FormatNative is the storyforge JSON schema: the story list plus
	// start node id and diagnostics, importable back into the editor.
	FormatNative Format = "native"
	// FormatGeneric is a nodes/links JSON shape for graph tooling.
	FormatGeneric Format = "generic"
	// FormatTwee is a plain-text passage markup for interactive-fiction
	// tools that speak the Twee convention.
	FormatTwee Format = "twee"
)

// ErrBlockedByErrors is returned when exporting a result that still
// carries fatal conversion errors without opting out of the check.
var ErrBlockedByErrors = errors.New("story has conversion errors; export blocked")

// Options controls export behavior.
type Options struct {
	Format Format
	// Force exports even when the conversion result carries fatal errors.
	Force bool
}

var titleCaser = cases.Title(language.English)

// Export serializes a conversion result. Results with errors are rejected
// unless Options.Force is set; warnings never block.
func Export(result graph.ConversionResult, opts Options) ([]byte, error) {
	if len(result.Errors) > 0 && !opts.Force {
		return nil, fmt.Errorf("%w: %s", ErrBlockedByErrors, result.Errors[0])
	}

	switch opts.Format {
	case FormatNative, "":
		return exportNative(result)
	case FormatGeneric:
		return exportGeneric(result)
	case FormatTwee:
		return exportTwee(result), nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", opts.Format)
	}
}

func exportNative(result graph.ConversionResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

type genericNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type genericLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

type genericGraph struct {
	Start string        `json:"start"`
	Nodes []genericNode `json:"nodes"`
	Links []genericLink `json:"links"`
}

func exportGeneric(result graph.ConversionResult) ([]byte, error) {
	g := genericGraph{
		Start: result.StartNodeID,
		Nodes: make([]genericNode, 0, len(result.Story)),
		Links: []genericLink{},
	}
	for _, n := range result.Story {
		g.Nodes = append(g.Nodes, genericNode{ID: n.ID, Title: displayTitle(n)})
		for _, c := range n.Choices {
			if c.IsRestart() {
				continue
			}
			g.Links = append(g.Links, genericLink{Source: n.ID, Target: c.NextNodeID, Label: c.Text})
		}
	}
	return json.MarshalIndent(g, "", "  ")
}

// exportTwee writes one ":: Passage" block per node, choices as
// [[text->target]] links. The start node comes first, matching the
// converted node order.
func exportTwee(result graph.ConversionResult) []byte {
	var b strings.Builder
	for i, n := range result.Story {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, ":: %s\n", displayTitle(n))
		if n.Content != "" {
			b.WriteString(n.Content)
			b.WriteString("\n")
		}
		for _, c := range n.Choices {
			if c.IsRestart() {
				continue
			}
			fmt.Fprintf(&b, "[[%s->%s]]\n", c.Text, c.NextNodeID)
		}
	}
	return []byte(b.String())
}

// displayTitle falls back to a humanized form of the node id when the
// author never titled the node: "dark_cave" renders as "Dark Cave".
func displayTitle(n story.StoryNode) string {
	if n.Title != "" {
		return n.Title
	}
	return titleCaser.String(strings.ReplaceAll(n.ID, "_", " "))
}
