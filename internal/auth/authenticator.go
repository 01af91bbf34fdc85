// Package auth implements the connection-authentication handshake: a bearer
// JWT presented at connect time is resolved to a user identity and role, or
// the handshake is rejected before any room state exists.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jobdeck/realtime/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

// AuthError carries the taxonomy reason for a rejected handshake. Fatal to
// the handshake only, never to the service.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "auth failed: " + e.Reason }

const (
	ReasonNoToken      = "no token"
	ReasonInvalidToken = "invalid token"
	ReasonUnknownUser  = "user not found"
)

// Claims is the payload carried inside the signed token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IdentityStore resolves a user ID against the external identity
// collaborator. Lookup must return ErrUserNotFound for unknown users.
type IdentityStore interface {
	Lookup(ctx context.Context, id domain.UserID) (domain.Identity, error)
}

type Authenticator struct {
	secret  []byte
	store   IdentityStore
	timeout time.Duration
}

func NewAuthenticator(secret string, store IdentityStore, timeout time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), store: store, timeout: timeout}
}

// Authenticate validates the bearer credential and resolves it to an
// identity. Every failure is an *AuthError; the caller must terminate the
// handshake on any error, before creating room state.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, &AuthError{Reason: ReasonNoToken}
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return domain.Identity{}, &AuthError{Reason: ReasonInvalidToken}
	}

	// The identity store is an external collaborator; bound the lookup so a
	// slow store cannot hold the handshake open indefinitely.
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	identity, err := a.store.Lookup(ctx, domain.UserID(claims.UserID))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.Identity{}, &AuthError{Reason: ReasonUnknownUser}
		}
		return domain.Identity{}, &AuthError{Reason: ReasonInvalidToken}
	}
	return identity, nil
}

// TokenFromRequest pulls the bearer credential from the Authorization header
// or, for browser WebSocket clients that cannot set headers, the token query
// field.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// GenerateToken signs a token for a user. Token issuance belongs to the
// identity collaborator in production; this helper exists for local
// development and tests.
func GenerateToken(secret string, id domain.Identity, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: string(id.UserID),
		Role:   string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "jobdeck",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
