// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	tokenIssuer = "expense-tracker"

	// DefaultSessionDuration applies when no session expiry is configured.
	DefaultSessionDuration = 30 * 24 * time.Hour
)

// CustomClaims represents the custom claims for JWT tokens.
// The registered ID claim (jti) carries the session ID.
type CustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// tokenService implements the adapter.TokenService interface.
type tokenService struct {
	secret          []byte
	sessionDuration time.Duration
	sessionRepo     adapter.SessionRepository
	clock           adapter.Clock
}

// NewTokenService creates a new token service instance.
func NewTokenService(
	secret string,
	sessionDuration time.Duration,
	sessionRepo adapter.SessionRepository,
	clock adapter.Clock,
) adapter.TokenService {
	if sessionDuration <= 0 {
		sessionDuration = DefaultSessionDuration
	}
	return &tokenService{
		secret:          []byte(secret),
		sessionDuration: sessionDuration,
		sessionRepo:     sessionRepo,
		clock:           clock,
	}
}

// IssueToken opens a session for the user and signs a token bound to it.
func (s *tokenService) IssueToken(ctx context.Context, userID uuid.UUID, email string) (*adapter.IssuedToken, error) {
	session := entity.NewSession(userID, s.sessionDuration)
	session.CreatedAt = s.clock.Now().UTC()
	session.ExpiresAt = session.CreatedAt.Add(s.sessionDuration)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	token, err := s.generateJWT(session, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &adapter.IssuedToken{
		AccessToken: token,
		SessionID:   session.ID,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// ValidateAccessToken validates the token signature and its session.
func (s *tokenService) ValidateAccessToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	claims, err := s.parseJWT(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", domainerror.ErrInvalidToken)
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID in token: %w", domainerror.ErrInvalidToken)
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID || !session.IsActive(s.clock.Now()) {
		return nil, domainerror.ErrSessionRevoked
	}

	return &adapter.TokenClaims{
		UserID:    userID,
		Email:     claims.Email,
		SessionID: sessionID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// RevokeSession ends the session so its tokens stop authenticating.
func (s *tokenService) RevokeSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessionRepo.Revoke(ctx, sessionID)
}

// generateJWT creates a signed token for the session.
func (s *tokenService) generateJWT(session *entity.Session, email string) (string, error) {
	claims := CustomClaims{
		UserID: session.UserID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
			Issuer:    tokenIssuer,
			Subject:   session.UserID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// parseJWT parses and validates a JWT token.
func (s *tokenService) parseJWT(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w: %w", domainerror.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, domainerror.ErrInvalidToken
	}

	return claims, nil
}
