// Package chat persists and renders the running transcript of a
// conversation. The transcript is presentation state only: the dialog core
// never reads it, but the text-generation layer includes a recent window of
// it in every prompt, and the HTTP transport returns it to UI clients.
package chat

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Repository stores conversation transcripts keyed by conversation ID.
type Repository interface {
	// AddMessage appends a message to the conversation transcript.
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadHistory retrieves the full transcript for a conversation.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes the transcript for a conversation.
	ClearHistory(ctx context.Context, conversationID string) error

	// GetMessageCount returns the number of messages in the transcript.
	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}
