package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/api/respond"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/api/validate"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/auth"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/service"
)

// AuthHandler provides HTTP transport for registration, login, and profile
// operations.
type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type authResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
	Token   string      `json:"token,omitempty"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Register(req.Username, req.Email, req.Password); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			if conflict.Field != "" {
				respond.WriteBadRequest(w, "User with this "+conflict.Field+" already exists")
			} else {
				respond.WriteBadRequest(w, "User with this username or email already exists")
			}
			return
		}
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		User:    user,
		Token:   token,
	})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Login(req.Email, req.Password); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Identical body for unknown email and wrong password.
			respond.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// GetProfile GET /api/auth/profile
//
// Clients call this after page load specifically to confirm a persisted
// token is still valid, not merely to fetch display data.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "No authorization token provided")
		return
	}
	respond.WriteJSON(w, http.StatusOK, authResponse{
		Message: "Profile retrieved successfully",
		User:    user,
	})
}

// UpdateProfile PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "No authorization token provided")
		return
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Username != nil {
		if err := validate.Username(*req.Username); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if req.Email != nil {
		if err := validate.Email(*req.Email); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}

	updated, err := h.users.UpdateProfile(r.Context(), user, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			respond.WriteBadRequest(w, "Email or username already taken")
			return
		}
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusOK, authResponse{
		Message: "Profile updated successfully",
		User:    updated,
	})
}
