package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/api/respond"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/store"
)

type contextKey int

const (
	userKey contextKey = iota
	entryKey
)

// Middleware enforces bearer authentication and entry ownership in front of
// protected handlers.
type Middleware struct {
	tokens *TokenService
	store  store.Store
	log    zerolog.Logger
}

func NewMiddleware(tokens *TokenService, st store.Store, log zerolog.Logger) *Middleware {
	return &Middleware{tokens: tokens, store: st, log: log}
}

// UserFrom returns the authenticated user attached by RequireAuth.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

// EntryFrom returns the entry attached by RequireEntryOwner.
func EntryFrom(ctx context.Context) (*model.Entry, bool) {
	e, ok := ctx.Value(entryKey).(*model.Entry)
	return e, ok
}

// RequireAuth verifies the bearer token, loads the user it names, and
// rejects tokens whose embedded email no longer matches the record (the
// token predates an email change). All rejection reasons are 401.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.WriteUnauthorized(w, "No authorization token provided")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			respond.WriteUnauthorized(w, "Invalid authorization scheme")
			return
		}

		identity, err := m.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				m.log.Info().Str("reason", "expired").Msg("token rejected")
				respond.WriteUnauthorized(w, "Token has expired")
				return
			}
			m.log.Info().Str("reason", "malformed").Msg("token rejected")
			respond.WriteUnauthorized(w, "Invalid token")
			return
		}

		user, err := m.store.Users().GetByID(r.Context(), identity.UserID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				respond.WriteUnauthorized(w, "User not found")
				return
			}
			m.log.Error().Err(err).Msg("user lookup failed during auth")
			respond.WriteInternalError(w, "Internal server error")
			return
		}

		if user.Email != identity.Email {
			m.log.Info().Str("user_id", user.ID.String()).Msg("token email mismatch")
			respond.WriteUnauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// RequireEntryOwner loads the entry named by the {id} path variable and
// verifies it belongs to the authenticated user. A missing entry is 404, an
// entry owned by someone else is 403. List/get deliberately do NOT use this
// check: they collapse both cases to 404 to hide existence from non-owners.
func (m *Middleware) RequireEntryOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			respond.WriteUnauthorized(w, "No authorization token provided")
			return
		}

		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			respond.WriteNotFound(w, "Entry not found")
			return
		}

		entry, err := m.store.Entries().GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				respond.WriteNotFound(w, "Entry not found")
				return
			}
			m.log.Error().Err(err).Msg("entry lookup failed during ownership check")
			respond.WriteInternalError(w, "Internal server error")
			return
		}

		if entry.UserID != user.ID {
			m.log.Info().
				Str("user_id", user.ID.String()).
				Str("entry_id", entry.ID.String()).
				Msg("ownership check rejected")
			respond.WriteForbidden(w, "You do not have permission to access this resource")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), entryKey, entry)))
	})
}
