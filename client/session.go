package client

import (
	"sync"

	"github.com/rs/zerolog"
)

// State is the session lifecycle position.
//
//	StateAnonymous  — no valid session; protected views must redirect.
//	StateChecking   — a persisted token exists but the server has not yet
//	                  confirmed it since the app loaded (authenticated but
//	                  unchecked). Transient: it always resolves to
//	                  StateCheckedIn or StateAnonymous.
//	StateCheckedIn  — the server confirmed the token; protected views may
//	                  render.
type State int

const (
	StateAnonymous State = iota
	StateChecking
	StateCheckedIn
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateChecking:
		return "checking"
	case StateCheckedIn:
		return "checked_in"
	default:
		return "unknown"
	}
}

// Session is the process-wide session state machine. It is constructed once
// by the Client, hydrated from the persisted token, and torn down by Logout.
// All mutation goes through its methods; there are no ad hoc globals.
type Session struct {
	mu      sync.Mutex
	state   State
	user    *User
	token   string
	lastErr *APIError
	store   TokenStore
	changed chan struct{} // closed and replaced on every transition
	log     zerolog.Logger

	onForcedLogout func()
}

func newSession(store TokenStore, log zerolog.Logger) *Session {
	s := &Session{
		state:   StateAnonymous,
		store:   store,
		changed: make(chan struct{}),
		log:     log,
	}
	s.hydrate()
	return s
}

// hydrate moves to StateChecking when a persisted token exists. The profile
// check itself is driven by Client.Bootstrap.
func (s *Session) hydrate() {
	token, err := s.store.Load()
	if err != nil {
		return
	}
	s.state = StateChecking
	s.token = token
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the current user snapshot, nil while not checked in.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Err returns the error recorded by the most recent failed transition.
func (s *Session) Err() *APIError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// IsAuthenticated reports whether a token is held, checked or not.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateAnonymous
}

// snapshot returns state plus the channel that will be closed on the next
// transition, so callers can wait without holding the lock.
func (s *Session) snapshot() (State, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.changed
}

func (s *Session) currentToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// transition must be called with the lock held.
func (s *Session) transition(to State) {
	if s.state == to {
		return
	}
	s.log.Debug().Str("from", s.state.String()).Str("to", to.String()).Msg("session transition")
	s.state = to
	close(s.changed)
	s.changed = make(chan struct{})
}

// establish records a fresh login or registration: the token is persisted
// and the session is immediately checked (the server just confirmed it).
func (s *Session) establish(user *User, token string) error {
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.lastErr = nil
	s.transition(StateCheckedIn)
	return nil
}

// confirm resolves StateChecking after a successful profile fetch.
func (s *Session) confirm(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.lastErr = nil
	s.transition(StateCheckedIn)
}

// reset clears every field and the persisted token, landing in
// StateAnonymous. Used by Logout and by the forced-logout path.
func (s *Session) reset(cause *APIError) {
	_ = s.store.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.lastErr = cause
	s.transition(StateAnonymous)
}

// handleUnauthorized is invoked by the HTTP gateway on any 401. The first
// 401 of a session tears it down exactly once; an anonymous session is left
// alone so login failures surface locally instead of triggering a global
// logout.
func (s *Session) handleUnauthorized(cause *APIError) {
	s.mu.Lock()
	wasAuthenticated := s.state != StateAnonymous
	s.mu.Unlock()
	if !wasAuthenticated {
		return
	}

	s.log.Info().Msg("unauthorized response, forcing logout")
	forcedLogoutsTotal.Inc()
	s.reset(cause)
	if s.onForcedLogout != nil {
		s.onForcedLogout()
	}
}
