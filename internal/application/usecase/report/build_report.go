package report

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// BuildReportInput holds everything a report is computed from.
type BuildReportInput struct {
	Expenses     []*entity.Expense
	Categories   []*entity.Category
	Filter       ReportFilter
	CurrentYear  int
	YearlyWindow int
}

// ReportResult is the summarized view of a user's expenses.
type ReportResult struct {
	Filter           ReportFilter
	StatsYear        int
	FilteredExpenses []*entity.ExpenseWithCategory
	Total            decimal.Decimal
	Categories       []*entity.Category
	MonthlySeries    [12]MonthlyBucket
	YearlySeries     []YearlyBucket
	MaxMonthlyAmount decimal.Decimal
	MaxYearlyAmount  decimal.Decimal
}

// BuildReport filters the expense list and computes both chart series.
//
// The monthly series covers the filter year when one is given, otherwise the
// current year. Both series are computed over every expense passed in; the
// category filter only narrows FilteredExpenses.
func BuildReport(input BuildReportInput) *ReportResult {
	statsYear := input.CurrentYear
	if input.Filter.Year != nil {
		statsYear = *input.Filter.Year
	}

	categoriesByID := make(map[uuid.UUID]*entity.Category, len(input.Categories))
	for _, category := range input.Categories {
		if category != nil {
			categoriesByID[category.ID] = category
		}
	}

	filtered := FilterAndSort(input.Expenses, input.Filter)
	rows := make([]*entity.ExpenseWithCategory, len(filtered))
	total := decimal.Zero
	for i, expense := range filtered {
		// Orphaned expenses keep a nil category
		rows[i] = &entity.ExpenseWithCategory{
			Expense:  expense,
			Category: categoriesByID[expense.CategoryID],
		}
		total = total.Add(expense.Amount)
	}

	monthly := MonthlyRollup(input.Expenses, statsYear)
	maxMonthly := MaxAmount(monthly[:])

	yearly := YearlyRollup(input.Expenses, input.CurrentYear, input.YearlyWindow)
	maxYearly := MaxAmount(yearly)

	categories := input.Categories
	if categories == nil {
		categories = []*entity.Category{}
	}

	return &ReportResult{
		Filter:           input.Filter,
		StatsYear:        statsYear,
		FilteredExpenses: rows,
		Total:            total,
		Categories:       categories,
		MonthlySeries:    ScaleMonthly(monthly, maxMonthly),
		YearlySeries:     ScaleYearly(yearly, maxYearly),
		MaxMonthlyAmount: maxMonthly,
		MaxYearlyAmount:  maxYearly,
	}
}
