package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to discover
// all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// clientConfig collects option results that are applied after all options
// have run.
type clientConfig struct {
	tokenStore     TokenStore
	onForcedLogout func()
}

// Option configures a Client during construction in New.
type Option func(*Client, *clientConfig) error

// WithHTTPTimeout sets the underlying http.Client timeout. This is a coarse
// safety net; prefer per-request context deadlines. Must be greater than
// zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client, _ *clientConfig) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. The token-injecting
// transport is still installed on top of the client's transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client, _ *clientConfig) error {
		if h == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = h
		return nil
	}
}

// WithLogger sets the SDK logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client, _ *clientConfig) error {
		c.log = log
		return nil
	}
}

// WithTokenStore sets where the session token is persisted between runs.
// The default is an in-memory store that forgets the token on exit.
func WithTokenStore(store TokenStore) Option {
	return func(_ *Client, cfg *clientConfig) error {
		if store == nil {
			return fmt.Errorf("token store must not be nil")
		}
		cfg.tokenStore = store
		return nil
	}
}

// WithForcedLogoutHandler registers a callback fired when a 401 tears the
// session down — the SDK analogue of a hard navigation to the login screen.
func WithForcedLogoutHandler(fn func()) Option {
	return func(_ *Client, cfg *clientConfig) error {
		cfg.onForcedLogout = fn
		return nil
	}
}
