// ABOUTME: Renders saved conversations as Markdown, HTML, or YAML
// ABOUTME: Assistant message bodies are markdown; HTML output runs them through goldmark

package export

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/llm-se/sentinel-cli/internal/chat"
	"github.com/llm-se/sentinel-cli/internal/history"
)

// Supported output formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatYAML     = "yaml"
)

// ErrUnknownFormat is returned for formats other than markdown, html, yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// Render writes the conversation to w in the requested format.
func Render(w io.Writer, conv *history.Conversation, format string) error {
	switch format {
	case FormatMarkdown, "md":
		return renderMarkdown(w, conv)
	case FormatHTML:
		return renderHTML(w, conv)
	case FormatYAML, "yml":
		return renderYAML(w, conv)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderMarkdown(w io.Writer, conv *history.Conversation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Conversation %s\n\n", conv.ID)
	fmt.Fprintf(&b, "- User: %s\n", conv.Username)
	fmt.Fprintf(&b, "- Started: %s\n\n", conv.StartedAt.Format("2006-01-02 15:04:05"))

	for _, msg := range conv.Messages {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", roleHeading(msg.Role), msg.Content)
		if len(msg.Sources) > 0 {
			fmt.Fprintf(&b, "> Source: %s (similarity %.2f)\n\n", msg.Sources[0].Source, msg.Sources[0].Similarity)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var htmlPage = template.Must(template.New("conversation").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Conversation {{.ID}}</title>
</head>
<body>
<h1>Conversation {{.ID}}</h1>
<p>{{.Username}} — {{.Started}}</p>
{{range .Messages}}<div class="message {{.Role}}">
<h2>{{.Heading}}</h2>
{{.Body}}
{{if .Source}}<p class="source">Source: {{.Source}}</p>{{end}}
</div>
{{end}}</body>
</html>
`))

func renderHTML(w io.Writer, conv *history.Conversation) error {
	type htmlMessage struct {
		Role    string
		Heading string
		Body    template.HTML
		Source  string
	}

	messages := make([]htmlMessage, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		var body bytes.Buffer
		// Assistant answers are markdown; everything else is plain text but
		// goldmark renders that unchanged inside a paragraph.
		if err := goldmark.Convert([]byte(msg.Content), &body); err != nil {
			return fmt.Errorf("converting markdown: %w", err)
		}

		m := htmlMessage{
			Role:    string(msg.Role),
			Heading: roleHeading(msg.Role),
			Body:    template.HTML(body.String()),
		}
		if len(msg.Sources) > 0 {
			m.Source = msg.Sources[0].Source
		}
		messages = append(messages, m)
	}

	return htmlPage.Execute(w, struct {
		ID       string
		Username string
		Started  string
		Messages []htmlMessage
	}{
		ID:       conv.ID,
		Username: conv.Username,
		Started:  conv.StartedAt.Format("2006-01-02 15:04:05"),
		Messages: messages,
	})
}

// yamlConversation mirrors Conversation with explicit yaml keys.
type yamlConversation struct {
	ID        string        `yaml:"id"`
	Username  string        `yaml:"username"`
	StartedAt string        `yaml:"started_at"`
	Messages  []yamlMessage `yaml:"messages"`
}

type yamlMessage struct {
	Role       string   `yaml:"role"`
	Content    string   `yaml:"content"`
	Source     string   `yaml:"source,omitempty"`
	Similarity *float64 `yaml:"similarity,omitempty"`
}

func renderYAML(w io.Writer, conv *history.Conversation) error {
	out := yamlConversation{
		ID:        conv.ID,
		Username:  conv.Username,
		StartedAt: conv.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, msg := range conv.Messages {
		m := yamlMessage{Role: string(msg.Role), Content: msg.Content}
		if len(msg.Sources) > 0 {
			m.Source = msg.Sources[0].Source
			sim := msg.Sources[0].Similarity
			m.Similarity = &sim
		}
		out.Messages = append(out.Messages, m)
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

func roleHeading(role chat.Role) string {
	switch role {
	case chat.RoleUser:
		return "You"
	case chat.RoleAssistant:
		return "Sentinel"
	case chat.RoleSystem:
		return "System"
	default:
		return string(role)
	}
}
