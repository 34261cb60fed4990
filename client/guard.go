package client

import "context"

// Decision is the route guard's verdict for a protected view.
type Decision struct {
	// Allow is true only once the session is checked in.
	Allow bool
	// RedirectTo carries the login path, preserving the originally
	// requested path for post-login return.
	RedirectTo string
}

// Guard blocks rendering of protected views until the session reaches a
// stable state. While the session is still checking a persisted token the
// caller shows a loading indicator; Resolve returns only from a stable
// state.
type Guard struct {
	session   *Session
	loginPath string
}

// NewGuard builds a guard redirecting to loginPath when anonymous.
func (c *Client) NewGuard(loginPath string) *Guard {
	return &Guard{session: c.session, loginPath: loginPath}
}

// Resolve waits for the session to leave StateChecking, then either allows
// rendering or redirects to login with the requested path attached.
func (g *Guard) Resolve(ctx context.Context, requestedPath string) (Decision, error) {
	for {
		state, changed := g.session.snapshot()
		switch state {
		case StateCheckedIn:
			return Decision{Allow: true}, nil
		case StateAnonymous:
			to := g.loginPath
			if requestedPath != "" {
				to += "?from=" + requestedPath
			}
			return Decision{RedirectTo: to}, nil
		}

		// StateChecking: wait for the next transition.
		select {
		case <-ctx.Done():
			return Decision{}, ctx.Err()
		case <-changed:
		}
	}
}
