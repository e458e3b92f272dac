// ABOUTME: SQLite persistence for chat transcripts using modernc.org/sqlite
// ABOUTME: Conversations and their messages with automatic schema creation

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/llm-se/sentinel-cli/internal/api"
	"github.com/llm-se/sentinel-cli/internal/chat"
)

// ErrNotFound is returned when a requested conversation does not exist.
var ErrNotFound = errors.New("not found")

// Conversation is a saved transcript for one user.
type Conversation struct {
	ID        string
	Username  string
	StartedAt time.Time
	Messages  []chat.Message
}

// Summary is one row of a conversation listing.
type Summary struct {
	ID           string
	Username     string
	StartedAt    time.Time
	MessageCount int
}

// Store persists transcripts in a local SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a store at the given path. The schema is created if it does
// not exist; parent directories are created as needed.
func Open(path string) (*Store, error) {
	logger := slog.Default().With("component", "history")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("history store opened", "path", path)
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			started_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_conversations_username
			ON conversations(username, started_at);

		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			source TEXT,
			similarity REAL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation
			ON messages(conversation_id, position);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveConversation stores a conversation and all its messages in one
// transaction. At most one source per message is stored, matching the
// transcript contract.
func (s *Store) SaveConversation(ctx context.Context, conv *Conversation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (id, username, started_at) VALUES (?, ?, ?)`,
		conv.ID, conv.Username, conv.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}

	now := time.Now().UTC()
	for i, msg := range conv.Messages {
		var source sql.NullString
		var similarity sql.NullFloat64
		if len(msg.Sources) > 0 {
			source = sql.NullString{String: msg.Sources[0].Source, Valid: true}
			similarity = sql.NullFloat64{Float64: msg.Sources[0].Similarity, Valid: true}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO messages (id, conversation_id, position, role, content, source, similarity, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, conv.ID, i, string(msg.Role), msg.Content, source, similarity, now,
		)
		if err != nil {
			return fmt.Errorf("inserting message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Info("conversation saved", "id", conv.ID, "messages", len(conv.Messages))
	return nil
}

// GetConversation loads a conversation with its messages in order.
func (s *Store) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	conv := &Conversation{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT username, started_at FROM conversations WHERE id = ?`, id,
	).Scan(&conv.Username, &conv.StartedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying conversation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, source, similarity
		 FROM messages WHERE conversation_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg chat.Message
		var role string
		var source sql.NullString
		var similarity sql.NullFloat64
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &source, &similarity); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.Role = chat.Role(role)
		if source.Valid {
			msg.Sources = []api.Source{{Source: source.String, Similarity: similarity.Float64}}
		}
		conv.Messages = append(conv.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return conv, nil
}

// ListConversations returns summaries for a user, most recent first.
func (s *Store) ListConversations(ctx context.Context, username string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.username, c.started_at, COUNT(m.id)
		 FROM conversations c
		 LEFT JOIN messages m ON m.conversation_id = c.id
		 WHERE c.username = ?
		 GROUP BY c.id
		 ORDER BY c.started_at DESC`, username,
	)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Username, &s.StartedAt, &s.MessageCount); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}
	return out, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
