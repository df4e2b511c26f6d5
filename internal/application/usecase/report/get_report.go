package report

import (
	"context"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// GetReportInput represents the input for building a user's expense report.
type GetReportInput struct {
	UserID uuid.UUID
	Filter ReportFilter
}

// GetReportOutput represents the output of the report use case.
type GetReportOutput struct {
	Report *ReportResult
}

// GetReportUseCase loads a user's expenses and categories and summarizes them.
type GetReportUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	categoryRepo adapter.CategoryRepository
	clock        adapter.Clock
	yearlyWindow int
}

// NewGetReportUseCase creates a new GetReportUseCase instance.
// The yearly window is limited to 1..DefaultYearlyWindow years; other values
// select the default.
func NewGetReportUseCase(
	expenseRepo adapter.ExpenseRepository,
	categoryRepo adapter.CategoryRepository,
	clock adapter.Clock,
	yearlyWindow int,
) *GetReportUseCase {
	if yearlyWindow < 1 || yearlyWindow > DefaultYearlyWindow {
		yearlyWindow = DefaultYearlyWindow
	}
	return &GetReportUseCase{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		clock:        clock,
		yearlyWindow: yearlyWindow,
	}
}

// Execute builds the report for the given user and filter.
func (uc *GetReportUseCase) Execute(ctx context.Context, input GetReportInput) (*GetReportOutput, error) {
	// Load the whole collection; the series are not narrowed by the filter
	rows, err := uc.expenseRepo.Query(ctx, adapter.ExpenseQuery{UserID: input.UserID})
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportInternalError,
			"failed to load expenses",
			err,
		)
	}

	categories, err := uc.categoryRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportInternalError,
			"failed to load categories",
			err,
		)
	}

	expenses := make([]*entity.Expense, 0, len(rows))
	for _, row := range rows {
		if row != nil && row.Expense != nil {
			expenses = append(expenses, row.Expense)
		}
	}

	result := BuildReport(BuildReportInput{
		Expenses:     expenses,
		Categories:   categories,
		Filter:       input.Filter,
		CurrentYear:  uc.clock.Now().UTC().Year(),
		YearlyWindow: uc.yearlyWindow,
	})

	return &GetReportOutput{
		Report: result,
	}, nil
}
