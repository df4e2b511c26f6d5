// Package report contains the expense report use case and the aggregation
// functions behind it.
//
// The aggregation functions are pure: they take every input explicitly,
// including the current year, never read the wall clock, and never mutate
// the slices they are given. Buckets they return are recomputed on every
// call and are never persisted.
package report

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// DefaultYearlyWindow is the number of calendar years, ending at the current
// year, covered by the yearly series.
const DefaultYearlyWindow = 5

// monthLabels are the short month names used for the monthly series.
var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var hundred = decimal.NewFromInt(100)

// ReportFilter narrows the expense list of a report.
// A nil field means the filter is absent.
type ReportFilter struct {
	Month      *int // 1-indexed
	Year       *int
	CategoryID *uuid.UUID
}

// HasPeriod reports whether the month filter applies.
// It only does when both month and year are present.
func (f ReportFilter) HasPeriod() bool {
	return f.Month != nil && f.Year != nil
}

// MonthlyBucket is the total spent in one month of a year.
type MonthlyBucket struct {
	Month      int
	Label      string
	Amount     decimal.Decimal
	Percentage int
}

func (b MonthlyBucket) amount() decimal.Decimal { return b.Amount }

// YearlyBucket is the total spent in one calendar year.
type YearlyBucket struct {
	Year       int
	Amount     decimal.Decimal
	Percentage int
}

func (b YearlyBucket) amount() decimal.Decimal { return b.Amount }

type amountBucket interface {
	amount() decimal.Decimal
}

// FilterAndSort returns the expenses matching filter, newest first.
// Filters combine with AND and equal dates keep their input order.
func FilterAndSort(expenses []*entity.Expense, filter ReportFilter) []*entity.Expense {
	result := make([]*entity.Expense, 0, len(expenses))
	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		if filter.HasPeriod() && !inMonth(expense, *filter.Year, *filter.Month) {
			continue
		}
		if filter.CategoryID != nil && expense.CategoryID != *filter.CategoryID {
			continue
		}
		result = append(result, expense)
	}

	slices.SortStableFunc(result, func(a, b *entity.Expense) int {
		return b.Date.Compare(a.Date)
	})
	return result
}

// MonthlyRollup sums the expenses dated in targetYear into twelve buckets,
// January first. Months without expenses hold zero.
func MonthlyRollup(expenses []*entity.Expense, targetYear int) [12]MonthlyBucket {
	var buckets [12]MonthlyBucket
	for i := range buckets {
		buckets[i] = MonthlyBucket{
			Month:  i + 1,
			Label:  monthLabels[i],
			Amount: decimal.Zero,
		}
	}

	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		year, month, _ := expense.Date.Date()
		if year != targetYear {
			continue
		}
		buckets[month-1].Amount = buckets[month-1].Amount.Add(expense.Amount)
	}

	return buckets
}

// YearlyRollup sums expenses per calendar year over the windowSize years
// ending at currentYear, newest year first. Only years with at least one
// expense are returned. A windowSize below one selects DefaultYearlyWindow.
func YearlyRollup(expenses []*entity.Expense, currentYear, windowSize int) []YearlyBucket {
	if windowSize <= 0 {
		windowSize = DefaultYearlyWindow
	}
	firstYear := currentYear - windowSize + 1

	totals := make(map[int]decimal.Decimal, windowSize)
	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		year := expense.Date.Year()
		if year < firstYear || year > currentYear {
			continue
		}
		total, ok := totals[year]
		if !ok {
			total = decimal.Zero
		}
		totals[year] = total.Add(expense.Amount)
	}

	buckets := make([]YearlyBucket, 0, len(totals))
	for year := currentYear; year >= firstYear; year-- {
		if total, ok := totals[year]; ok {
			buckets = append(buckets, YearlyBucket{Year: year, Amount: total})
		}
	}
	return buckets
}

// PercentageOf scales amount against maxAmount for bar rendering, rounding half up.
// The result is clamped to [0, 100] and is 0 whenever maxAmount is not positive.
func PercentageOf(amount, maxAmount decimal.Decimal) int {
	if !maxAmount.IsPositive() || !amount.IsPositive() {
		return 0
	}

	pct := amount.Mul(hundred).Div(maxAmount).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// MaxAmount returns the largest bucket amount, or zero for an empty series.
func MaxAmount[B amountBucket](buckets []B) decimal.Decimal {
	result := decimal.Zero
	for _, bucket := range buckets {
		if bucket.amount().GreaterThan(result) {
			result = bucket.amount()
		}
	}
	return result
}

// ScaleMonthly fills in each bucket's percentage of maxAmount.
func ScaleMonthly(buckets [12]MonthlyBucket, maxAmount decimal.Decimal) [12]MonthlyBucket {
	for i := range buckets {
		buckets[i].Percentage = PercentageOf(buckets[i].Amount, maxAmount)
	}
	return buckets
}

// ScaleYearly returns a copy of buckets with each percentage of maxAmount filled in.
func ScaleYearly(buckets []YearlyBucket, maxAmount decimal.Decimal) []YearlyBucket {
	scaled := make([]YearlyBucket, len(buckets))
	for i, bucket := range buckets {
		bucket.Percentage = PercentageOf(bucket.Amount, maxAmount)
		scaled[i] = bucket
	}
	return scaled
}

func inMonth(expense *entity.Expense, year, month int) bool {
	y, m, _ := expense.Date.Date()
	return y == year && int(m) == month
}
