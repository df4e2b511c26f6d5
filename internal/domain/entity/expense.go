// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for expense dates on the wire.
const DateLayout = "2006-01-02"

// Expense represents a single spending record.
// Date is a calendar date stored at UTC midnight.
type Expense struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	CategoryID  uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewExpense creates a new Expense entity.
func NewExpense(userID uuid.UUID, description string, amount decimal.Decimal, date time.Time, categoryID uuid.UUID) *Expense {
	now := time.Now().UTC()

	return &Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Date:        TruncateToDate(date),
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ExpenseWithCategory pairs an expense with its category.
// Category is nil when the referenced category no longer exists.
type ExpenseWithCategory struct {
	Expense  *Expense
	Category *Category
}

// TruncateToDate drops the time-of-day component, keeping the calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
