package chat

import "fmt"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatMessage is a single message in an LLM conversation. The shape
// follows the chat-completions convention shared by the supported
// providers.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the provider-agnostic reply from an LLM service.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
}

// DraftRequest asks the generation helper for node content. The graph
// context fields let the model write text that fits the surrounding
// story; all of them are optional except Prompt.
type DraftRequest struct {
	Prompt        string   `json:"prompt"`
	NodeTitle     string   `json:"node_title,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	InboundTexts  []string `json:"inbound_texts,omitempty"`  // choice texts leading into the node
	ChoiceCount   int      `json:"choice_count,omitempty"`   // desired number of outgoing choices
	StoryTone     string   `json:"story_tone,omitempty"`     // e.g. "grim", "whimsical"
	ExistingNodes []string `json:"existing_nodes,omitempty"` // titles already used in the story
}

// Validate checks the request before it is sent to a provider.
func (dr *DraftRequest) Validate() error {
	if dr.Prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if dr.ChoiceCount < 0 {
		return fmt.Errorf("choice_count cannot be negative")
	}
	return nil
}
