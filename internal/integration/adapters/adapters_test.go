package adapters

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const testSecret = "test-secret"

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func newMemorySessionRepository() *memorySessionRepository {
	return &memorySessionRepository{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (r *memorySessionRepository) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *memorySessionRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[id]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, domainerror.ErrSessionNotFound
}

func (r *memorySessionRepository) Revoke(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[id]; ok && session.RevokedAt == nil {
		now := time.Now().UTC()
		session.RevokedAt = &now
	}
	return nil
}

func (r *memorySessionRepository) DeleteInactive(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(cutoff) || (session.RevokedAt != nil && session.RevokedAt.Before(cutoff)) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newService := func() (*manualClock, *memorySessionRepository, *tokenService) {
		clock := &manualClock{now: time.Now().UTC()}
		repo := newMemorySessionRepository()
		svc := NewTokenService(testSecret, time.Hour, repo, clock).(*tokenService)
		return clock, repo, svc
	}

	t.Run("issued token validates", func(t *testing.T) {
		_, repo, svc := newService()

		issued, err := svc.IssueToken(ctx, userID, "user@example.com")
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}
		if _, err := repo.FindByID(ctx, issued.SessionID); err != nil {
			t.Errorf("expected session to be stored, got %v", err)
		}

		claims, err := svc.ValidateAccessToken(ctx, issued.AccessToken)
		if err != nil {
			t.Fatalf("ValidateAccessToken() error = %v", err)
		}
		if claims.UserID != userID {
			t.Errorf("expected user %s, got %s", userID, claims.UserID)
		}
		if claims.SessionID != issued.SessionID {
			t.Errorf("expected session %s, got %s", issued.SessionID, claims.SessionID)
		}
		if claims.Email != "user@example.com" {
			t.Errorf("expected email user@example.com, got %s", claims.Email)
		}
	})

	t.Run("revoked session is rejected", func(t *testing.T) {
		_, _, svc := newService()

		issued, _ := svc.IssueToken(ctx, userID, "user@example.com")
		if err := svc.RevokeSession(ctx, issued.SessionID); err != nil {
			t.Fatalf("RevokeSession() error = %v", err)
		}

		if _, err := svc.ValidateAccessToken(ctx, issued.AccessToken); !errors.Is(err, domainerror.ErrSessionRevoked) {
			t.Errorf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		clock, _, svc := newService()

		issued, _ := svc.IssueToken(ctx, userID, "user@example.com")
		clock.now = clock.now.Add(2 * time.Hour)

		if _, err := svc.ValidateAccessToken(ctx, issued.AccessToken); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("token for unknown session is rejected", func(t *testing.T) {
		clock, _, svc := newService()
		session := entity.NewSession(userID, time.Hour)
		session.CreatedAt = clock.now
		session.ExpiresAt = clock.now.Add(time.Hour)

		token, err := svc.generateJWT(session, "user@example.com")
		if err != nil {
			t.Fatalf("generateJWT() error = %v", err)
		}
		if _, err := svc.ValidateAccessToken(ctx, token); !errors.Is(err, domainerror.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		_, _, svc := newService()
		other := NewTokenService("other-secret", time.Hour, newMemorySessionRepository(), &manualClock{now: time.Now()})

		issued, _ := other.IssueToken(ctx, userID, "user@example.com")
		if _, err := svc.ValidateAccessToken(ctx, issued.AccessToken); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("token with a foreign signing method is rejected", func(t *testing.T) {
		_, _, svc := newService()
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{UserID: userID.String()})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("SignedString() error = %v", err)
		}

		if _, err := svc.ValidateAccessToken(ctx, token); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, _, svc := newService()
		if _, err := svc.ValidateAccessToken(ctx, "not-a-token"); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestPasswordService(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	hash, err := svc.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "password123" {
		t.Error("expected the password to be hashed")
	}
	if err := svc.VerifyPassword(hash, "password123"); err != nil {
		t.Errorf("VerifyPassword() with the right password error = %v", err)
	}
	if err := svc.VerifyPassword(hash, "wrong-password"); err == nil {
		t.Error("expected VerifyPassword() to fail for the wrong password")
	}

	tests := []struct {
		password  string
		expectErr bool
	}{
		{password: "", expectErr: true},
		{password: "1234567", expectErr: true},
		{password: "12345678", expectErr: false},
	}
	for _, tt := range tests {
		err := svc.ValidatePasswordStrength(tt.password)
		if (err != nil) != tt.expectErr {
			t.Errorf("ValidatePasswordStrength(%q) error = %v, expectErr %v", tt.password, err, tt.expectErr)
		}
	}
}

func TestNewPasswordServiceWithCost_FallsBackToDefault(t *testing.T) {
	svc := NewPasswordServiceWithCost(0).(*passwordService)
	if svc.cost != defaultBcryptCost {
		t.Errorf("expected cost %d, got %d", defaultBcryptCost, svc.cost)
	}
}
