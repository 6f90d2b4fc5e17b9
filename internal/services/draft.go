package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/storyforge/pkg/chat"
	"github.com/jwebster45206/storyforge/pkg/story"
)

const draftSystemPrompt = `You are a writing assistant for a branching interactive-fiction editor.
Reply with a single JSON object and nothing else, using this shape:
{"title": "...", "content": "...", "choices": [{"text": "..."}]}
Content should be 2-4 paragraphs of second-person narrative. Choice texts
are short imperative phrases. Do not invent node ids or targets.`

// GenerateNodeDraft asks the LLM for draft content for one story node,
// giving it the surrounding graph context, and parses the reply into a
// StoryNode. The draft's choices carry text only; the author wires
// targets in the editor.
func GenerateNodeDraft(ctx context.Context, llm LLMService, req chat.DraftRequest) (*story.StoryNode, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: draftSystemPrompt},
		{Role: chat.ChatRoleUser, Content: buildDraftPrompt(req)},
	}

	resp, err := llm.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("draft generation failed: %w", err)
	}

	draft, err := parseDraftResponse(resp.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to parse draft response: %w", err)
	}
	return draft, nil
}

func buildDraftPrompt(req chat.DraftRequest) string {
	var b strings.Builder
	b.WriteString(req.Prompt)

	if req.NodeTitle != "" {
		fmt.Fprintf(&b, "\n\nThe node is titled %q.", req.NodeTitle)
	}
	if len(req.Tags) > 0 {
		fmt.Fprintf(&b, "\nTags: %s.", strings.Join(req.Tags, ", "))
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&b, "\nDifficulty: %s.", req.Difficulty)
	}
	if req.StoryTone != "" {
		fmt.Fprintf(&b, "\nTone: %s.", req.StoryTone)
	}
	if len(req.InboundTexts) > 0 {
		fmt.Fprintf(&b, "\nThe player arrives here by choosing: %q.", req.InboundTexts)
	}
	if req.ChoiceCount > 0 {
		fmt.Fprintf(&b, "\nWrite exactly %d choices.", req.ChoiceCount)
	}
	if len(req.ExistingNodes) > 0 {
		fmt.Fprintf(&b, "\nTitles already used in this story: %s.", strings.Join(req.ExistingNodes, ", "))
	}

	return b.String()
}

type draftPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// parseDraftResponse extracts the JSON object from the model's reply.
// Models wrap JSON in markdown fences or prose often enough that the
// parser scans for the outermost braces instead of trusting the reply.
func parseDraftResponse(message string) (*story.StoryNode, error) {
	start := strings.Index(message, "{")
	end := strings.LastIndex(message, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(message[start:end+1]), &payload); err != nil {
		return nil, err
	}

	if payload.Content == "" {
		return nil, fmt.Errorf("draft has no content")
	}

	draft := &story.StoryNode{
		Title:   payload.Title,
		Content: payload.Content,
		Choices: make([]story.Choice, 0, len(payload.Choices)),
	}
	for i, c := range payload.Choices {
		draft.Choices = append(draft.Choices, story.Choice{
			ID:           fmt.Sprintf("draft_choice_%d", i),
			Text:         c.Text,
			Conditions:   []json.RawMessage{},
			Consequences: []json.RawMessage{},
		})
	}
	return draft, nil
}
