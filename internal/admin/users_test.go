// ABOUTME: Tests for the user resource client
// ABOUTME: Covers refresh-after-mutation, banner errors, and deletion guards

package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-se/sentinel-cli/internal/api"
)

// fakeUsersAPI scripts backend behavior and counts calls.
type fakeUsersAPI struct {
	users     []api.User
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	lastToken  string
	lastUpdate api.UserUpdate
}

func (f *fakeUsersAPI) ListUsers(ctx context.Context, token string) ([]api.User, error) {
	f.listCalls++
	f.lastToken = token
	return f.users, f.listErr
}

func (f *fakeUsersAPI) CreateUser(ctx context.Context, token string, user api.UserCreate) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeUsersAPI) UpdateUser(ctx context.Context, token, username string, update api.UserUpdate) error {
	f.updateCalls++
	f.lastUpdate = update
	return f.updateErr
}

func (f *fakeUsersAPI) DeleteUser(ctx context.Context, token, username string) error {
	f.deleteCalls++
	return f.deleteErr
}

func newTestUsers(f *fakeUsersAPI) *Users {
	return NewUsers(f, func() string { return "admin" }, func() string { return "admin" })
}

func TestUsersRefresh(t *testing.T) {
	f := &fakeUsersAPI{users: []api.User{{Username: "admin"}, {Username: "bob"}}}
	u := newTestUsers(f)

	require.NoError(t, u.Refresh(context.Background()))
	assert.Equal(t, StateLoaded, u.State())
	assert.Len(t, u.List(), 2)
	assert.NoError(t, u.Err())
	assert.Equal(t, "admin", f.lastToken)
}

func TestUsersRefreshFailure(t *testing.T) {
	f := &fakeUsersAPI{listErr: errors.New("boom")}
	u := newTestUsers(f)

	require.Error(t, u.Refresh(context.Background()))
	assert.Equal(t, StateError, u.State())
	assert.Empty(t, u.List())
	assert.Error(t, u.Err())
}

func TestUsersCreateRefreshesList(t *testing.T) {
	f := &fakeUsersAPI{users: []api.User{{Username: "admin"}, {Username: "carol"}}}
	u := newTestUsers(f)

	err := u.Create(context.Background(), api.UserCreate{Username: "carol", Department: "legal"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.createCalls)
	assert.Equal(t, 1, f.listCalls, "a successful mutation must re-list")
	assert.Equal(t, StateLoaded, u.State())
	assert.Len(t, u.List(), 2)
}

func TestUsersCreateValidation(t *testing.T) {
	f := &fakeUsersAPI{}
	u := newTestUsers(f)

	err := u.Create(context.Background(), api.UserCreate{Username: "", Department: "legal"})
	assert.ErrorIs(t, err, ErrMissingField)

	err = u.Create(context.Background(), api.UserCreate{Username: "carol", Department: "  "})
	assert.ErrorIs(t, err, ErrMissingField)

	assert.Zero(t, f.createCalls, "validation failures must not reach the network")
}

func TestUsersCreateFailureKeepsList(t *testing.T) {
	f := &fakeUsersAPI{users: []api.User{{Username: "admin"}}}
	u := newTestUsers(f)
	require.NoError(t, u.Refresh(context.Background()))

	f.createErr = &api.APIError{StatusCode: 400, Detail: "User already exists"}
	err := u.Create(context.Background(), api.UserCreate{Username: "admin", Department: "security"})
	require.Error(t, err)

	// The loaded list survives; the failure becomes the banner error.
	assert.Equal(t, StateLoaded, u.State())
	assert.Len(t, u.List(), 1)
	assert.EqualError(t, u.Err(), "User already exists")
	assert.Equal(t, 1, f.listCalls, "a failed mutation must not re-list")
}

func TestUsersSetActiveSendsPartialUpdate(t *testing.T) {
	f := &fakeUsersAPI{}
	u := newTestUsers(f)

	require.NoError(t, u.SetActive(context.Background(), "bob", false))

	require.NotNil(t, f.lastUpdate.IsActive)
	assert.False(t, *f.lastUpdate.IsActive)
	assert.Nil(t, f.lastUpdate.RoleLevel)
	assert.Nil(t, f.lastUpdate.ClearanceLevel)
	assert.Nil(t, f.lastUpdate.Department)
	assert.Equal(t, 1, f.listCalls)
}

func TestUsersDeleteGuards(t *testing.T) {
	f := &fakeUsersAPI{}
	u := newTestUsers(f) // caller is "admin"

	assert.ErrorIs(t, u.Delete(context.Background(), BuiltInAdmin), ErrProtectedUser)

	other := NewUsers(f, func() string { return "carol" }, func() string { return "carol" })
	assert.ErrorIs(t, other.Delete(context.Background(), "carol"), ErrSelfDelete)

	assert.Zero(t, f.deleteCalls, "guarded deletes must never be issued")
}

func TestUsersCanDelete(t *testing.T) {
	u := NewUsers(&fakeUsersAPI{}, func() string { return "carol" }, func() string { return "carol" })

	assert.ErrorIs(t, u.CanDelete("admin"), ErrProtectedUser)
	assert.ErrorIs(t, u.CanDelete("carol"), ErrSelfDelete)
	assert.ErrorIs(t, u.CanDelete(" "), ErrMissingField)
	assert.NoError(t, u.CanDelete("bob"))
}

func TestUsersDeleteRefreshesList(t *testing.T) {
	f := &fakeUsersAPI{users: []api.User{{Username: "admin"}}}
	u := NewUsers(f, func() string { return "admin" }, func() string { return "admin" })

	require.NoError(t, u.Delete(context.Background(), "bob"))
	assert.Equal(t, 1, f.deleteCalls)
	assert.Equal(t, 1, f.listCalls)
}
