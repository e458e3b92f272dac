// ABOUTME: Chat message lifecycle: placeholder, correlation, and resolution
// ABOUTME: One request in flight at a time; placeholders matched by request id

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/llm-se/sentinel-cli/internal/api"
)

// Role of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Transcript text for the three non-answer outcomes. PlaceholderText is the
// interim assistant entry; it is matched by id, never by this text.
const (
	PlaceholderText  = "Thinking…"
	noInfoText       = "No relevant information found."
	errorText        = "An error occurred. Please try again."
	authRequiredText = "Authentication required. Please log in."
)

// Send outcomes that leave the transcript untouched.
var (
	// ErrEmptyQuery: blank or whitespace-only input is a no-op.
	ErrEmptyQuery = errors.New("empty query")
	// ErrBusy: a request is already in flight; no new placeholder is minted
	// until it resolves.
	ErrBusy = errors.New("a request is already in flight")
)

// Message is one transcript entry. ID is used for list identity and for
// resolving the placeholder; it is regenerated when a placeholder is
// replaced, so a request id is consumed exactly once.
type Message struct {
	ID      string
	Role    Role
	Content string
	Sources []api.Source
}

// QueryClient issues the retrieval query for one send.
type QueryClient interface {
	Query(ctx context.Context, token, requestID, query string) (*api.QueryResponse, error)
}

// Pipeline owns the transcript and drives one query at a time through the
// backend. The transcript is append-only except for the single
// replace-by-request-id used to resolve a pending entry.
type Pipeline struct {
	client QueryClient
	token  func() string
	logger *slog.Logger

	mu       sync.Mutex
	messages []Message
	sending  bool

	// newID is swappable so tests can use deterministic ids.
	newID func() string
}

// NewPipeline creates an empty pipeline. token supplies the current bearer
// credential at submit time.
func NewPipeline(client QueryClient, token func() string) *Pipeline {
	return &Pipeline{
		client: client,
		token:  token,
		logger: slog.Default().With("component", "chat"),
		newID:  func() string { return uuid.New().String() },
	}
}

// Send turns one typed query into exactly one resolved transcript entry.
// Blank input and submissions while a request is outstanding are rejected
// without touching the transcript. A missing credential appends a system
// message and never contacts the network.
func (p *Pipeline) Send(ctx context.Context, input string) error {
	query := strings.TrimSpace(input)
	if query == "" {
		return ErrEmptyQuery
	}

	p.mu.Lock()
	if p.sending {
		p.mu.Unlock()
		return ErrBusy
	}

	token := p.token()
	if token == "" {
		p.messages = append(p.messages, Message{
			ID:      p.newID(),
			Role:    RoleSystem,
			Content: authRequiredText,
		})
		p.mu.Unlock()
		return nil
	}

	// The user message and its placeholder are appended together, under the
	// same lock, so no observer ever sees one without the other. The
	// placeholder carries the request id.
	requestID := p.newID()
	p.messages = append(p.messages,
		Message{ID: p.newID(), Role: RoleUser, Content: query},
		Message{ID: requestID, Role: RoleAssistant, Content: PlaceholderText},
	)
	p.sending = true
	p.mu.Unlock()

	resp, err := p.client.Query(ctx, token, requestID, query)
	p.resolve(requestID, p.outcome(resp, err))
	return nil
}

// outcome converts a query result into the message that replaces the
// placeholder. Failures never escape the pipeline; they become system
// transcript entries.
func (p *Pipeline) outcome(resp *api.QueryResponse, err error) Message {
	if err != nil {
		p.logger.Warn("query failed", "error", err)
		return Message{ID: p.newID(), Role: RoleSystem, Content: errorText}
	}

	switch resp.Type {
	case api.ResponseTypeAnswer:
		if resp.Data == nil {
			return Message{ID: p.newID(), Role: RoleSystem, Content: errorText}
		}
		// Keep only the first source. Deliberate contract with the backend
		// result shape; downstream rendering depends on it.
		sources := resp.Data.Sources
		if len(sources) > 1 {
			sources = sources[:1]
		}
		return Message{
			ID:      p.newID(),
			Role:    RoleAssistant,
			Content: resp.Data.Answer,
			Sources: sources,
		}
	case api.ResponseTypeNoInfo:
		return Message{ID: p.newID(), Role: RoleSystem, Content: noInfoText}
	default:
		p.logger.Warn("unrecognized response type", "type", resp.Type)
		return Message{ID: p.newID(), Role: RoleSystem, Content: errorText}
	}
}

// resolve replaces the placeholder carrying requestID in place and reopens
// the pipeline for the next send.
func (p *Pipeline) resolve(requestID string, resolved Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sending = false

	for i := range p.messages {
		if p.messages[i].ID == requestID {
			p.messages[i] = resolved
			return
		}
	}
	// No placeholder would mean it was dropped; keep the outcome visible.
	p.messages = append(p.messages, resolved)
}

// Transcript returns a copy of the messages in order.
func (p *Pipeline) Transcript() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Sending reports whether a request is outstanding.
func (p *Pipeline) Sending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sending
}

// Clear drops the transcript. Rejected while a request is outstanding so a
// resolving response cannot land in a fresh conversation.
func (p *Pipeline) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sending {
		return ErrBusy
	}
	p.messages = nil
	return nil
}
