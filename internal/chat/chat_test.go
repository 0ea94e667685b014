package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.AddMessage(ctx, "c1", schema.UserMessage("hello")))
	require.NoError(t, repo.AddMessage(ctx, "c1", schema.AssistantMessage("hi there", nil)))
	require.NoError(t, repo.AddMessage(ctx, "c2", schema.UserMessage("other conversation")))

	history, err := repo.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", history.ConversationID)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, schema.User, history.Messages[0].Role)
	assert.Equal(t, "hello", history.Messages[0].Content)
	assert.Equal(t, schema.Assistant, history.Messages[1].Role)

	n, err := repo.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryRepositoryClear(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.AddMessage(ctx, "c1", schema.UserMessage("hello")))
	require.NoError(t, repo.ClearHistory(ctx, "c1"))

	history, err := repo.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)

	n, err := repo.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)

	// clearing an unknown conversation is a no-op
	assert.NoError(t, repo.ClearHistory(ctx, "never-seen"))
}

func TestMemoryRepositoryLoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.AddMessage(ctx, "c1", schema.UserMessage("hello")))

	history, err := repo.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	history.Messages[0] = schema.UserMessage("mutated")

	again, err := repo.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Messages[0].Content)
}

func TestRenderForPrompt(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("hola"),
		schema.AssistantMessage("¿en qué puedo ayudarte?", nil),
	}

	out := RenderForPrompt(msgs, DefaultPromptTurns)
	assert.Equal(t, "User: hola\nAssistant: ¿en qué puedo ayudarte?", out)

	assert.Empty(t, RenderForPrompt(nil, DefaultPromptTurns))
}

func TestRenderForPromptWindow(t *testing.T) {
	var msgs []*schema.Message
	for i := 0; i < 12; i++ {
		msgs = append(msgs, schema.UserMessage(fmt.Sprintf("turn %d", i)))
	}

	out := RenderForPrompt(msgs, 8)
	assert.NotContains(t, out, "turn 3")
	assert.Contains(t, out, "turn 4")
	assert.Contains(t, out, "turn 11")

	// non-positive window falls back to the default
	assert.Equal(t, out, RenderForPrompt(msgs, 0))
}

func TestTranscript(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("hello"),
		schema.AssistantMessage("hi", nil),
	}

	turns := Transcript(msgs)
	require.Len(t, turns, 2)
	assert.Equal(t, Turn{Role: "user", Content: "hello"}, turns[0])
	assert.Equal(t, Turn{Role: "assistant", Content: "hi"}, turns[1])

	assert.Empty(t, Transcript(nil))
}
