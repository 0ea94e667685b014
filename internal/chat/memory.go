package chat

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"
)

// MemoryRepository is the default transcript store: per-process, unbounded
// within a conversation, cleared on reset or session end. Suitable for
// local runs without Redis.
type MemoryRepository struct {
	mu       sync.RWMutex
	messages map[string][]*schema.Message
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{messages: make(map[string][]*schema.Message)}
}

func (r *MemoryRepository) AddMessage(_ context.Context, conversationID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[conversationID] = append(r.messages[conversationID], message)
	return nil
}

func (r *MemoryRepository) LoadHistory(_ context.Context, conversationID string) (*ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.messages[conversationID]
	msgs := make([]*schema.Message, len(stored))
	copy(msgs, stored)
	return &ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *MemoryRepository) ClearHistory(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, conversationID)
	return nil
}

func (r *MemoryRepository) GetMessageCount(_ context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages[conversationID]), nil
}

var _ Repository = (*MemoryRepository)(nil)
