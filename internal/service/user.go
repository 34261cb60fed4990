// Package service implements the application logic between the HTTP layer
// and the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/auth"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/store"
)

// ErrInvalidCredentials is returned for both unknown-email and wrong-password
// logins so responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ConflictError names the colliding field when registration or a profile
// update hits an existing username or email.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "username or email already exists"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *ConflictError) Is(target error) bool { return target == model.ErrConflict }

// UserService handles registration, authentication, and profile operations.
type UserService struct {
	store  store.Store
	tokens *auth.TokenService
	log    zerolog.Logger
}

func NewUserService(st store.Store, tokens *auth.TokenService, log zerolog.Logger) *UserService {
	return &UserService{store: st, tokens: tokens, log: log}
}

// Register creates an account and issues its first token. The pre-check is
// a fast path that allows field-specific conflict messages; the database
// unique index remains the authoritative conflict signal, so a race between
// two concurrent registrations still resolves to exactly one account.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	existing, err := s.store.Users().FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		field := "username"
		if existing.Email == email {
			field = "email"
		}
		s.log.Info().Str("field", field).Msg("registration conflict")
		return nil, "", &ConflictError{Field: field}
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, "", fmt.Errorf("registration pre-check: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.store.Users().Create(ctx, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			// Lost the race after the pre-check passed.
			return nil, "", &ConflictError{}
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("registration success")
	return user, token, nil
}

// Login verifies credentials, updates lastLogin, and issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.log.Info().Msg("login failed")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.log.Info().Str("user_id", user.ID.String()).Msg("login failed")
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.store.Users().TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", err
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("login success")
	return user, token, nil
}

// Profile returns the user record for a verified identity.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

// UpdateProfile applies a partial update; nil fields retain prior values.
// A collision with a different existing user is a conflict.
func (s *UserService) UpdateProfile(ctx context.Context, user *model.User, username, email *string) (*model.User, error) {
	newUsername := user.Username
	if username != nil {
		newUsername = *username
	}
	newEmail := user.Email
	if email != nil {
		newEmail = *email
	}

	if newUsername != user.Username || newEmail != user.Email {
		existing, err := s.store.Users().FindByUsernameOrEmail(ctx, newUsername, newEmail)
		if err == nil && existing.ID != user.ID {
			s.log.Info().Str("user_id", user.ID.String()).Msg("profile update conflict")
			return nil, &ConflictError{}
		}
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("profile update pre-check: %w", err)
		}
	}

	updated := *user
	updated.Username = newUsername
	updated.Email = newEmail

	out, err := s.store.Users().Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, &ConflictError{}
		}
		return nil, err
	}

	s.log.Info().Str("user_id", out.ID.String()).Msg("profile updated")
	return out, nil
}
