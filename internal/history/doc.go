// Package history provides local persistent storage of chat transcripts
// using SQLite.
//
// # Data Models
//
//   - Conversation: A saved transcript with its owner and start time
//   - Summary: A listing row with the message count
//
// Messages are stored in order with at most one source citation each,
// matching what the chat pipeline surfaces.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The schema is created on open; deleting a conversation cascades to its
// messages.
//
// # Error Handling
//
//   - ErrNotFound: The requested conversation does not exist
//
// All methods accept context.Context for cancellation support.
package history
