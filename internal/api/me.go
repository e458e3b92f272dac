// ABOUTME: GET /auth/me call for fetching the authenticated user's profile
// ABOUTME: The profile drives client-side role gating and display

package api

import (
	"context"
	"net/http"
)

// UserProfile is the identity the backend resolves from a bearer credential.
type UserProfile struct {
	Username       string `json:"username"`
	Department     string `json:"department"`
	RoleLevel      int    `json:"role_level"`
	ClearanceLevel int    `json:"clearance_level"`
}

// Me returns the profile of the user the credential belongs to.
func (c *Client) Me(ctx context.Context, token string) (*UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", token, nil)
	if err != nil {
		return nil, err
	}

	var out UserProfile
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
