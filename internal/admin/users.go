// ABOUTME: Admin user resource client with refresh-after-mutation list state
// ABOUTME: Call-site guards block deleting the built-in admin or yourself

package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/llm-se/sentinel-cli/internal/api"
)

// BuiltInAdmin is the distinguished account the backend seeds. It can never
// be deleted, and the client refuses before any network call is made.
const BuiltInAdmin = "admin"

// Deletion guards, enforced at the call site.
var (
	ErrProtectedUser = errors.New("the built-in admin account cannot be deleted")
	ErrSelfDelete    = errors.New("you cannot delete your own account")
)

// ErrMissingField is a validation failure raised before any call is made.
var ErrMissingField = errors.New("required field is empty")

// UsersAPI is the subset of the backend client the user resource needs.
type UsersAPI interface {
	ListUsers(ctx context.Context, token string) ([]api.User, error)
	CreateUser(ctx context.Context, token string, user api.UserCreate) error
	UpdateUser(ctx context.Context, token, username string, update api.UserUpdate) error
	DeleteUser(ctx context.Context, token, username string) error
}

// Users manages the user list. Every successful mutation triggers a fresh
// list so the local state is never partially patched; a failed mutation
// leaves the previously loaded list untouched.
type Users struct {
	api   UsersAPI
	token func() string
	self  func() string

	list ListState[api.User]
}

// NewUsers creates a user resource client. token supplies the bearer
// credential; self supplies the caller's own username for the self-delete
// guard.
func NewUsers(client UsersAPI, token, self func() string) *Users {
	return &Users{api: client, token: token, self: self}
}

// Refresh reloads the user list from the backend.
func (u *Users) Refresh(ctx context.Context) error {
	u.list.beginLoading()
	users, err := u.api.ListUsers(ctx, u.token())
	if err != nil {
		u.list.fail(err)
		return err
	}
	u.list.load(users)
	return nil
}

// Create adds a user and resynchronizes the list.
func (u *Users) Create(ctx context.Context, user api.UserCreate) error {
	if strings.TrimSpace(user.Username) == "" || strings.TrimSpace(user.Department) == "" {
		return ErrMissingField
	}
	if err := u.api.CreateUser(ctx, u.token(), user); err != nil {
		u.list.banner(err)
		return err
	}
	return u.Refresh(ctx)
}

// Update applies a partial update and resynchronizes the list.
func (u *Users) Update(ctx context.Context, username string, update api.UserUpdate) error {
	if strings.TrimSpace(username) == "" {
		return ErrMissingField
	}
	if err := u.api.UpdateUser(ctx, u.token(), username, update); err != nil {
		u.list.banner(err)
		return err
	}
	return u.Refresh(ctx)
}

// SetActive toggles a user's active flag and resynchronizes the list.
func (u *Users) SetActive(ctx context.Context, username string, active bool) error {
	return u.Update(ctx, username, api.UserUpdate{IsActive: &active})
}

// CanDelete runs the call-site deletion guards without issuing any request,
// so callers can disable the action up front.
func (u *Users) CanDelete(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrMissingField
	}
	if username == BuiltInAdmin {
		return ErrProtectedUser
	}
	if username == u.self() {
		return ErrSelfDelete
	}
	return nil
}

// Delete removes a user and resynchronizes the list. The built-in admin
// account and the caller's own account are refused before any request is
// issued.
func (u *Users) Delete(ctx context.Context, username string) error {
	if err := u.CanDelete(username); err != nil {
		return err
	}
	if err := u.api.DeleteUser(ctx, u.token(), username); err != nil {
		u.list.banner(err)
		return err
	}
	return u.Refresh(ctx)
}

// State returns the tagged list state.
func (u *Users) State() State {
	return u.list.state
}

// List returns the last loaded user list.
func (u *Users) List() []api.User {
	return u.list.items
}

// Err returns the current banner error, if any.
func (u *Users) Err() error {
	return u.list.err
}
