// Package auth provides token issuance/verification, password hashing, and
// the HTTP middleware that enforces both.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
)

// Token rejection reasons are distinguished so the middleware can log them,
// but every one of them collapses to 401 at the API boundary.
var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims binds a token to a user id and the email the user had at issuance.
// A token whose email no longer matches the current record is rejected.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Identity is the result of a successful verification.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// TokenService issues and verifies signed bearer tokens. There is no
// refresh mechanism; expired tokens require re-authentication.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user's id and email with a fixed expiry.
func (s *TokenService) Issue(u *model.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: u.Email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure, and expiry. The library already
// rejects expired tokens; the explicit comparison below is a second line of
// defense should parser options ever change.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	return &Identity{UserID: userID, Email: claims.Email}, nil
}
