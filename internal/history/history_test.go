// ABOUTME: Tests for the SQLite transcript store
// ABOUTME: Round-trips conversations and verifies cascade delete and listing

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-se/sentinel-cli/internal/api"
	"github.com/llm-se/sentinel-cli/internal/chat"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleConversation(id, username string) *Conversation {
	return &Conversation{
		ID:        id,
		Username:  username,
		StartedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Messages: []chat.Message{
			{ID: id + "-1", Role: chat.RoleUser, Content: "ping"},
			{
				ID:      id + "-2",
				Role:    chat.RoleAssistant,
				Content: "pong",
				Sources: []api.Source{{Source: "doc1.pdf", Similarity: 0.9}},
			},
			{ID: id + "-3", Role: chat.RoleSystem, Content: "No relevant information found."},
		},
	}
}

func TestSaveAndGetConversation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveConversation(ctx, sampleConversation("conv-1", "alice")))

	got, err := s.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	require.Len(t, got.Messages, 3)

	assert.Equal(t, chat.RoleUser, got.Messages[0].Role)
	assert.Equal(t, "ping", got.Messages[0].Content)
	assert.Empty(t, got.Messages[0].Sources)

	require.Len(t, got.Messages[1].Sources, 1)
	assert.Equal(t, "doc1.pdf", got.Messages[1].Sources[0].Source)
	assert.InDelta(t, 0.9, got.Messages[1].Sources[0].Similarity, 1e-9)

	assert.Equal(t, chat.RoleSystem, got.Messages[2].Role)
}

func TestGetConversationNotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetConversation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListConversations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	older := sampleConversation("conv-1", "alice")
	older.StartedAt = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveConversation(ctx, older))
	require.NoError(t, s.SaveConversation(ctx, sampleConversation("conv-2", "alice")))
	require.NoError(t, s.SaveConversation(ctx, sampleConversation("conv-3", "bob")))

	summaries, err := s.ListConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 2, "listing is scoped to one user")

	// Most recent first
	assert.Equal(t, "conv-2", summaries[0].ID)
	assert.Equal(t, "conv-1", summaries[1].ID)
	assert.Equal(t, 3, summaries[0].MessageCount)
}

func TestListConversationsEmpty(t *testing.T) {
	s := createTestStore(t)

	summaries, err := s.ListConversations(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestDeleteConversation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveConversation(ctx, sampleConversation("conv-1", "alice")))
	require.NoError(t, s.DeleteConversation(ctx, "conv-1"))

	_, err := s.GetConversation(ctx, "conv-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Messages go with the conversation.
	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count))
	assert.Zero(t, count)
}

func TestDeleteConversationNotFound(t *testing.T) {
	s := createTestStore(t)
	assert.ErrorIs(t, s.DeleteConversation(context.Background(), "missing"), ErrNotFound)
}

func TestSaveEmptyConversation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveConversation(ctx, &Conversation{
		ID:        "empty",
		Username:  "alice",
		StartedAt: time.Now(),
	}))

	got, err := s.GetConversation(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got.Messages)
}
