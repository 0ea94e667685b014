package chat

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// DefaultPromptTurns is the rolling window of transcript messages included
// in generation prompts.
const DefaultPromptTurns = 8

// Turn is the transcript entry shape returned to UI clients.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RenderForPrompt formats the most recent maxTurns messages as a compact
// "User:"/"Assistant:" transcript for the chat_history placeholder.
func RenderForPrompt(messages []*schema.Message, maxTurns int) string {
	if maxTurns <= 0 {
		maxTurns = DefaultPromptTurns
	}
	if len(messages) > maxTurns {
		messages = messages[len(messages)-maxTurns:]
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		prefix := "Assistant"
		if m.Role == schema.User {
			prefix = "User"
		}
		lines = append(lines, prefix+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// Transcript converts stored messages to the wire shape for UI clients.
func Transcript(messages []*schema.Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		role := "assistant"
		if m.Role == schema.User {
			role = "user"
		}
		turns = append(turns, Turn{Role: role, Content: m.Content})
	}
	return turns
}
