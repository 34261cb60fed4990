package client

import (
	"context"
	"net/http"
)

type authResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

// Bootstrap confirms a persisted token against the server. Call it once at
// startup: a session in StateChecking resolves to StateCheckedIn on
// success or StateAnonymous (token cleared) on failure. A session without
// a persisted token is left anonymous.
func (c *Client) Bootstrap(ctx context.Context) error {
	if c.session.State() != StateChecking {
		return nil
	}

	var resp authResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &resp, http.StatusOK)
	if err != nil {
		// A 401 has already reset the session via the gateway. Any
		// other failure must still resolve the transient state; the
		// stored token may be fine, but the guard cannot hang forever.
		if !IsUnauthorized(err) {
			if apiErr, ok := err.(*APIError); ok {
				c.session.reset(apiErr)
			} else {
				c.session.reset(nil)
			}
		}
		return err
	}

	c.session.confirm(resp.User)
	return nil
}

// Register creates an account and establishes a checked-in session.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, body, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	if err := c.session.establish(resp.User, resp.Token); err != nil {
		return nil, &APIError{Kind: KindServer, Message: "failed to persist token", Err: err}
	}
	return resp.User, nil
}

// Login authenticates and establishes a checked-in session. An invalid
// credential failure surfaces as KindUnauthorized without touching the
// (anonymous) session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	if err := c.session.establish(resp.User, resp.Token); err != nil {
		return nil, &APIError{Kind: KindServer, Message: "failed to persist token", Err: err}
	}
	return resp.User, nil
}

// Logout clears the session and the persisted token immediately. It is
// purely client-side; the server keeps no session state to invalidate.
func (c *Client) Logout() {
	c.session.reset(nil)
}

// GetProfile fetches the current user record.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// UpdateProfile applies a partial profile update and refreshes the session
// snapshot.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", nil, req, &resp, http.StatusOK); err != nil {
		return nil, err
	}

	c.session.mu.Lock()
	if c.session.state == StateCheckedIn {
		c.session.user = resp.User
	}
	c.session.mu.Unlock()
	return resp.User, nil
}
