// Package expense contains expense-related use cases.
package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed length for expense descriptions.
const MaxDescriptionLength = 255

const (
	// maxAmountInputLength bounds the raw amount text.
	maxAmountInputLength = 32
	// maxAmountIntegerDigits matches the decimal(15,2) amount column.
	maxAmountIntegerDigits = 13
)

// MaxAmount is the largest amount an expense can record.
var MaxAmount = decimal.RequireFromString("9999999999999.99")

// CreateExpenseInput represents the input for expense creation.
// Amount, Date and CategoryID are raw request values validated here.
type CreateExpenseInput struct {
	UserID      uuid.UUID
	Description string
	Amount      string
	Date        string
	CategoryID  string
}

// CreateExpenseOutput represents the output of expense creation.
type CreateExpenseOutput struct {
	Expense  *entity.Expense
	Category *entity.Category
}

// CreateExpenseUseCase handles expense creation logic.
type CreateExpenseUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	categoryRepo adapter.CategoryRepository
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	categoryRepo adapter.CategoryRepository,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute validates the input and records the expense.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	// Validate description
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeDescriptionRequired,
			domainerror.FieldDescription,
			"description is required",
			domainerror.ErrDescriptionRequired,
		)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeDescriptionTooLong,
			domainerror.FieldDescription,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	// Validate amount
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidAmount,
			domainerror.FieldAmount,
			fmt.Sprintf("amount must be a number between 0 and %s", MaxAmount.StringFixed(2)),
			domainerror.ErrInvalidAmount,
		)
	}

	// Validate category reference
	rawCategoryID := strings.TrimSpace(input.CategoryID)
	if rawCategoryID == "" {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeCategoryRequired,
			domainerror.FieldCategoryID,
			"category is required",
			domainerror.ErrCategoryRequired,
		)
	}

	// Validate date
	date, err := time.Parse(entity.DateLayout, strings.TrimSpace(input.Date))
	if err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseDate,
			domainerror.FieldDate,
			"date must be formatted as YYYY-MM-DD",
			domainerror.ErrInvalidExpenseDate,
		)
	}

	// Resolve the category among the user's own
	category, err := uc.findOwnedCategory(ctx, rawCategoryID, input.UserID)
	if err != nil {
		return nil, err
	}

	expense := entity.NewExpense(input.UserID, description, amount, date, category.ID)
	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return &CreateExpenseOutput{
		Expense:  expense,
		Category: category,
	}, nil
}

func (uc *CreateExpenseUseCase) findOwnedCategory(ctx context.Context, rawID string, userID uuid.UUID) (*entity.Category, error) {
	missing := domainerror.NewExpenseError(
		domainerror.ErrCodeExpenseCategoryMissing,
		domainerror.FieldCategoryID,
		"category does not exist",
		domainerror.ErrCategoryNotFoundForExpense,
	)

	categoryID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, missing
	}

	category, err := uc.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, missing
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category.UserID != userID {
		return nil, missing
	}

	return category, nil
}

// parseAmount accepts a decimal number between zero and MaxAmount.
// The digit count is checked before rounding because rescaling a value
// such as 1e50000000 allocates the full expansion.
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxAmountInputLength {
		return decimal.Zero, domainerror.ErrInvalidAmount
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, domainerror.ErrInvalidAmount
	}
	if amount.IsZero() {
		return decimal.Zero, nil
	}

	integerDigits := amount.NumDigits() + int(amount.Exponent())
	if integerDigits > maxAmountIntegerDigits {
		return decimal.Zero, domainerror.ErrInvalidAmount
	}
	// Below a thousandth the amount rounds to zero cents
	if integerDigits < -2 {
		return decimal.Zero, nil
	}

	amount = amount.Round(2)
	if amount.GreaterThan(MaxAmount) {
		return decimal.Zero, domainerror.ErrInvalidAmount
	}
	return amount, nil
}
