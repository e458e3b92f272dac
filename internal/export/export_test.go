// ABOUTME: Tests for conversation export rendering
// ABOUTME: Checks markdown, HTML, and YAML output plus unknown-format rejection

package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-se/sentinel-cli/internal/api"
	"github.com/llm-se/sentinel-cli/internal/chat"
	"github.com/llm-se/sentinel-cli/internal/history"
)

func sampleConversation() *history.Conversation {
	return &history.Conversation{
		ID:        "conv-1",
		Username:  "alice",
		StartedAt: time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
		Messages: []chat.Message{
			{ID: "m1", Role: chat.RoleUser, Content: "what is the leave policy?"},
			{
				ID:      "m2",
				Role:    chat.RoleAssistant,
				Content: "Employees get **20 days** of leave.",
				Sources: []api.Source{{Source: "hr-handbook.pdf", Similarity: 0.87}},
			},
			{ID: "m3", Role: chat.RoleSystem, Content: "No relevant information found."},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, sampleConversation(), FormatMarkdown))
	out := b.String()

	assert.Contains(t, out, "# Conversation conv-1")
	assert.Contains(t, out, "- User: alice")
	assert.Contains(t, out, "## You")
	assert.Contains(t, out, "## Sentinel")
	assert.Contains(t, out, "## System")
	assert.Contains(t, out, "Employees get **20 days** of leave.")
	assert.Contains(t, out, "> Source: hr-handbook.pdf (similarity 0.87)")
}

func TestRenderMarkdownShortAlias(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, sampleConversation(), "md"))
	assert.Contains(t, b.String(), "# Conversation conv-1")
}

func TestRenderHTML(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, sampleConversation(), FormatHTML))
	out := b.String()

	assert.Contains(t, out, "<title>Conversation conv-1</title>")
	// goldmark turns the markdown emphasis into real markup
	assert.Contains(t, out, "<strong>20 days</strong>")
	assert.Contains(t, out, `<div class="message assistant">`)
	assert.Contains(t, out, "Source: hr-handbook.pdf")
	assert.NotContains(t, out, "**20 days**")
}

func TestRenderYAML(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, sampleConversation(), FormatYAML))
	out := b.String()

	assert.Contains(t, out, "id: conv-1")
	assert.Contains(t, out, "username: alice")
	assert.Contains(t, out, "role: assistant")
	assert.Contains(t, out, "source: hr-handbook.pdf")
	assert.Contains(t, out, "similarity: 0.87")

	// Messages without a source omit the source keys entirely.
	userSection := out[:strings.Index(out, "role: assistant")]
	assert.NotContains(t, userSection, "source:")
}

func TestRenderUnknownFormat(t *testing.T) {
	var b strings.Builder
	err := Render(&b, sampleConversation(), "pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Empty(t, b.String())
}
