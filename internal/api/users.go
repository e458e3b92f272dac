// ABOUTME: Admin user management calls against /admin/users
// ABOUTME: Covers listing, creation, partial update, and deletion

package api

import (
	"context"
	"net/http"
	"net/url"
)

// User is one row of the admin user listing.
type User struct {
	Username       string `json:"username"`
	RoleLevel      int    `json:"role_level"`
	ClearanceLevel int    `json:"clearance_level"`
	Department     string `json:"department"`
	IsActive       bool   `json:"is_active"`
}

// UserCreate is the body for creating a user. New users start active.
type UserCreate struct {
	Username       string `json:"username"`
	RoleLevel      int    `json:"role_level"`
	ClearanceLevel int    `json:"clearance_level"`
	Department     string `json:"department"`
}

// UserUpdate is a partial update; nil fields are left untouched by the
// backend.
type UserUpdate struct {
	RoleLevel      *int    `json:"role_level,omitempty"`
	ClearanceLevel *int    `json:"clearance_level,omitempty"`
	Department     *string `json:"department,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// ListUsers returns all user accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/admin/users", token, nil)
	if err != nil {
		return nil, err
	}

	var out []User
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser creates a new user account. Admin only.
func (c *Client) CreateUser(ctx context.Context, token string, user UserCreate) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/admin/users", token, user)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UpdateUser applies a partial update to the named user. Admin only.
func (c *Client) UpdateUser(ctx context.Context, token, username string, update UserUpdate) error {
	req, err := c.newRequest(ctx, http.MethodPatch, "/admin/users/"+url.PathEscape(username), token, update)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DeleteUser permanently deletes the named user. Admin only.
func (c *Client) DeleteUser(ctx context.Context, token, username string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(username), token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
