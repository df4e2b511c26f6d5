// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ExpenseQuery selects a user's expenses.
// Month and Year only constrain the result when both are set; Month is 1-indexed.
type ExpenseQuery struct {
	UserID     uuid.UUID
	Month      *int
	Year       *int
	CategoryID *uuid.UUID
}

// ExpenseRepository defines the interface for expense persistence operations.
type ExpenseRepository interface {
	// Create creates a new expense in the database.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByID retrieves an expense by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)

	// Query returns the matching expenses ordered by date descending, each with its category.
	Query(ctx context.Context, query ExpenseQuery) ([]*entity.ExpenseWithCategory, error)

	// Delete removes an expense from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
