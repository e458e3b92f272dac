// ABOUTME: In-memory session store with fail-closed login and durable token file
// ABOUTME: Single source of truth for the current credential and user profile

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/llm-se/sentinel-cli/internal/api"
)

// loginProbeID and loginProbeQuery form the throwaway query used to validate
// a credential before the profile fetch. The backend authenticates the
// bearer header before it looks at the query, so any body works.
const (
	loginProbeID    = "login_check"
	loginProbeQuery = "auth_check"
)

// Login error taxonomy. These are surfaced verbatim as the login prompt's
// error text.
var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrInvalidUser        = errors.New("user not found")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrLoginFailed        = errors.New("login failed")
	ErrProfileUnavailable = errors.New("failed to load user profile")
)

// Session is a point-in-time snapshot of the store. User is only meaningful
// while Token is set; a token without a profile is the transient state
// between a resumed credential and an explicit profile fetch.
type Session struct {
	Token string
	User  *api.UserProfile
}

// LoggedIn reports whether a credential is present.
func (s Session) LoggedIn() bool {
	return s.Token != ""
}

// AuthClient is the subset of the backend client the store needs.
type AuthClient interface {
	Query(ctx context.Context, token, requestID, query string) (*api.QueryResponse, error)
	Me(ctx context.Context, token string) (*api.UserProfile, error)
}

// Store holds the current credential and profile. The raw state is never
// exposed; all access goes through Login, Logout, Current, and Resume.
type Store struct {
	client AuthClient
	tokens *TokenFile
	logger *slog.Logger

	mu    sync.Mutex
	token string
	user  *api.UserProfile
}

// NewStore creates an empty store backed by the given token file.
func NewStore(client AuthClient, tokens *TokenFile) *Store {
	return &Store{
		client: client,
		tokens: tokens,
		logger: slog.Default().With("component", "session"),
	}
}

// Login validates the username against the backend and fetches its profile.
// The credential is persisted only when both calls succeed; on any failure
// the store is left logged out and the token file cleared.
func (s *Store) Login(ctx context.Context, username string) (*api.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	// Probe with a throwaway query. 401 and 403 distinguish unknown from
	// deactivated users.
	if _, err := s.client.Query(ctx, username, loginProbeID, loginProbeQuery); err != nil {
		s.clear()
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusUnauthorized:
				return nil, ErrInvalidUser
			case http.StatusForbidden:
				return nil, ErrInactiveUser
			}
		}
		s.logger.Warn("login probe failed", "error", err)
		return nil, ErrLoginFailed
	}

	profile, err := s.client.Me(ctx, username)
	if err != nil {
		// The credential validated but the profile is unavailable. The store
		// must still fail closed: no credential survives a partial login.
		s.clear()
		s.logger.Warn("profile fetch failed after successful probe", "error", err)
		return nil, ErrProfileUnavailable
	}

	if err := s.tokens.Save(username); err != nil {
		s.clear()
		return nil, fmt.Errorf("persisting credential: %w", err)
	}

	s.mu.Lock()
	s.token = username
	s.user = profile
	s.mu.Unlock()

	s.logger.Info("logged in", "username", profile.Username, "role_level", profile.RoleLevel)
	return profile, nil
}

// Logout clears the credential and profile. Idempotent.
func (s *Store) Logout() {
	s.clear()
}

// Current returns a snapshot of the session. No I/O; the profile must
// already be resident from Login.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{Token: s.token, User: s.user}
}

// Resume rehydrates a persisted credential from the token file. The profile
// is not re-fetched; a resumed session carries a token only, and the
// credential may be stale until the next backend call rejects it.
func (s *Store) Resume() bool {
	token, err := s.tokens.Load()
	if err != nil || token == "" {
		return false
	}

	s.mu.Lock()
	s.token = token
	s.user = nil
	s.mu.Unlock()
	return true
}

// clear wipes memory and the token file together.
func (s *Store) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to clear token file", "error", err)
	}
}
