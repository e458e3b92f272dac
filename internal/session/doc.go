// Package session holds the "who is logged in" state for the client.
//
// # Lifecycle
//
// The store starts empty. Login sets the credential and profile together,
// and only when both the validation probe and the profile fetch succeed —
// a failure anywhere leaves the store logged out and the token file
// removed. Logout clears both. Resume rehydrates just the credential from
// the token file so a new process starts in a logged-in state without a
// network round-trip.
//
// # Credential
//
// The bearer credential is the username itself; the backend resolves it to
// a user row on every request. It is persisted to a single token file
// (~/.config/sentinel/token); absence of that file means logged out.
package session
