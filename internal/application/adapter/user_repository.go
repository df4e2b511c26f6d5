// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create creates a new user in the database.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by their ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionRepository defines the interface for login session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)

	// Revoke marks a session as revoked. Revoking an unknown session is not an error.
	Revoke(ctx context.Context, id uuid.UUID) error

	// DeleteInactive removes sessions that expired or were revoked before cutoff
	// and returns how many were removed.
	DeleteInactive(ctx context.Context, cutoff time.Time) (int64, error)
}
