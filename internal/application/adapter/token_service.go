// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IssuedToken is a signed access token bound to a server-side session.
type IssuedToken struct {
	AccessToken string
	SessionID   uuid.UUID
	ExpiresAt   time.Time
}

// TokenClaims represents the claims contained in a JWT token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	SessionID uuid.UUID
	ExpiresAt time.Time
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	// IssueToken opens a session for the user and returns a signed token for it.
	IssueToken(ctx context.Context, userID uuid.UUID, email string) (*IssuedToken, error)

	// ValidateAccessToken validates a token and its session, returning its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)

	// RevokeSession ends the session so tokens carrying it stop authenticating.
	RevokeSession(ctx context.Context, sessionID uuid.UUID) error
}
