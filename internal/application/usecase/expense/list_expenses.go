// Package expense contains expense-related use cases.
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/application/usecase/report"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ListExpensesInput represents the input for listing expenses.
type ListExpensesInput struct {
	UserID uuid.UUID
	Filter report.ReportFilter
}

// ListExpensesOutput represents the output of listing expenses.
type ListExpensesOutput struct {
	Expenses []*entity.ExpenseWithCategory
	Total    decimal.Decimal
}

// ListExpensesUseCase lists a user's expenses with the filter applied by the store.
type ListExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(expenseRepo adapter.ExpenseRepository) *ListExpensesUseCase {
	return &ListExpensesUseCase{
		expenseRepo: expenseRepo,
	}
}

// Execute returns the matching expenses newest first.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	query := adapter.ExpenseQuery{
		UserID:     input.UserID,
		CategoryID: input.Filter.CategoryID,
	}
	if input.Filter.HasPeriod() {
		query.Month = input.Filter.Month
		query.Year = input.Filter.Year
	}

	rows, err := uc.expenseRepo.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	total := decimal.Zero
	expenses := make([]*entity.ExpenseWithCategory, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.Expense == nil {
			continue
		}
		expenses = append(expenses, row)
		total = total.Add(row.Expense.Amount)
	}

	return &ListExpensesOutput{
		Expenses: expenses,
		Total:    total,
	}, nil
}
