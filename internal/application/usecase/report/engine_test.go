package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

var (
	categoryA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	categoryB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newExpense(description, amount string, date time.Time, categoryID uuid.UUID) *entity.Expense {
	return &entity.Expense{
		ID:          uuid.New(),
		UserID:      uuid.Nil,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		CategoryID:  categoryID,
	}
}

func intPtr(v int) *int { return &v }

func descriptions(expenses []*entity.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.Description
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleExpenses() []*entity.Expense {
	return []*entity.Expense{
		newExpense("groceries", "100", day(2024, time.January, 15), categoryA),
		newExpense("bus", "50", day(2024, time.January, 20), categoryB),
		newExpense("rent", "200", day(2024, time.March, 1), categoryA),
		newExpense("old", "30", day(2023, time.January, 31), categoryA),
		newExpense("feb-end", "10", day(2024, time.February, 29), categoryB),
	}
}

func TestFilterAndSort(t *testing.T) {
	tests := []struct {
		name     string
		filter   ReportFilter
		expected []string
	}{
		{
			name:     "no filter returns everything newest first",
			filter:   ReportFilter{},
			expected: []string{"rent", "feb-end", "bus", "groceries", "old"},
		},
		{
			name:     "month and year restrict to that calendar month",
			filter:   ReportFilter{Month: intPtr(1), Year: intPtr(2024)},
			expected: []string{"bus", "groceries"},
		},
		{
			name:     "last day of month is included",
			filter:   ReportFilter{Month: intPtr(2), Year: intPtr(2024)},
			expected: []string{"feb-end"},
		},
		{
			name:     "month without year does not filter",
			filter:   ReportFilter{Month: intPtr(1)},
			expected: []string{"rent", "feb-end", "bus", "groceries", "old"},
		},
		{
			name:     "year without month does not filter",
			filter:   ReportFilter{Year: intPtr(2023)},
			expected: []string{"rent", "feb-end", "bus", "groceries", "old"},
		},
		{
			name:     "category filter alone",
			filter:   ReportFilter{CategoryID: &categoryA},
			expected: []string{"rent", "groceries", "old"},
		},
		{
			name:     "month and category combine with AND",
			filter:   ReportFilter{Month: intPtr(1), Year: intPtr(2024), CategoryID: &categoryA},
			expected: []string{"groceries"},
		},
		{
			name:     "month with no expenses yields empty list",
			filter:   ReportFilter{Month: intPtr(7), Year: intPtr(2024)},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := descriptions(FilterAndSort(sampleExpenses(), tt.filter))
			if !equalStrings(got, tt.expected) {
				t.Errorf("FilterAndSort() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFilterAndSort_IsIntersectionOfSingleFilters(t *testing.T) {
	expenses := sampleExpenses()
	period := ReportFilter{Month: intPtr(1), Year: intPtr(2024)}
	category := ReportFilter{CategoryID: &categoryB}
	combined := ReportFilter{Month: period.Month, Year: period.Year, CategoryID: category.CategoryID}

	inCategory := make(map[uuid.UUID]bool)
	for _, e := range FilterAndSort(expenses, category) {
		inCategory[e.ID] = true
	}

	var intersection []string
	for _, e := range FilterAndSort(expenses, period) {
		if inCategory[e.ID] {
			intersection = append(intersection, e.Description)
		}
	}

	got := descriptions(FilterAndSort(expenses, combined))
	if !equalStrings(got, intersection) {
		t.Errorf("combined filter = %v, want intersection %v", got, intersection)
	}
}

func TestFilterAndSort_StableForEqualDates(t *testing.T) {
	same := day(2024, time.May, 5)
	expenses := []*entity.Expense{
		newExpense("first", "1", same, categoryA),
		newExpense("newer", "1", day(2024, time.May, 6), categoryA),
		newExpense("second", "1", same, categoryA),
		newExpense("third", "1", same, categoryB),
	}

	got := descriptions(FilterAndSort(expenses, ReportFilter{}))
	expected := []string{"newer", "first", "second", "third"}
	if !equalStrings(got, expected) {
		t.Errorf("FilterAndSort() = %v, want %v", got, expected)
	}
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	expenses := sampleExpenses()
	before := descriptions(expenses)

	_ = FilterAndSort(expenses, ReportFilter{CategoryID: &categoryA})

	if after := descriptions(expenses); !equalStrings(before, after) {
		t.Errorf("input reordered: before %v, after %v", before, after)
	}
}

func TestFilterAndSort_SkipsNilEntries(t *testing.T) {
	expenses := []*entity.Expense{nil, newExpense("only", "5", day(2024, time.June, 1), categoryA), nil}

	got := FilterAndSort(expenses, ReportFilter{})
	if len(got) != 1 || got[0].Description != "only" {
		t.Errorf("FilterAndSort() = %v, want [only]", descriptions(got))
	}
}

func TestMonthlyRollup(t *testing.T) {
	expenses := []*entity.Expense{
		newExpense("a", "100", day(2024, time.January, 15), categoryA),
		newExpense("b", "50", day(2024, time.January, 20), categoryB),
		newExpense("c", "200", day(2024, time.March, 1), categoryA),
	}

	buckets := MonthlyRollup(expenses, 2024)

	expected := map[int]string{1: "150", 3: "200"}
	labels := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	for i, bucket := range buckets {
		if bucket.Month != i+1 {
			t.Errorf("bucket %d: Month = %d, want %d", i, bucket.Month, i+1)
		}
		if bucket.Label != labels[i] {
			t.Errorf("bucket %d: Label = %q, want %q", i, bucket.Label, labels[i])
		}
		want := decimal.Zero
		if amount, ok := expected[bucket.Month]; ok {
			want = decimal.RequireFromString(amount)
		}
		if !bucket.Amount.Equal(want) {
			t.Errorf("bucket %s: Amount = %s, want %s", bucket.Label, bucket.Amount, want)
		}
	}

	peak := MaxAmount(buckets[:])
	if !peak.Equal(decimal.NewFromInt(200)) {
		t.Errorf("MaxAmount() = %s, want 200", peak)
	}
	if pct := PercentageOf(buckets[0].Amount, peak); pct != 75 {
		t.Errorf("PercentageOf(Jan) = %d, want 75", pct)
	}
}

func TestMonthlyRollup_EmptyCollection(t *testing.T) {
	buckets := MonthlyRollup(nil, 2024)

	if len(buckets) != 12 {
		t.Fatalf("len = %d, want 12", len(buckets))
	}
	for _, bucket := range buckets {
		if !bucket.Amount.IsZero() {
			t.Errorf("bucket %s: Amount = %s, want 0", bucket.Label, bucket.Amount)
		}
		if pct := PercentageOf(bucket.Amount, MaxAmount(buckets[:])); pct != 0 {
			t.Errorf("bucket %s: percentage = %d, want 0", bucket.Label, pct)
		}
	}
	if peak := MaxAmount(buckets[:]); !peak.IsZero() {
		t.Errorf("MaxAmount() = %s, want 0", peak)
	}
}

func TestMonthlyRollup_SumMatchesYearTotal(t *testing.T) {
	expenses := sampleExpenses()
	expenses = append(expenses,
		newExpense("cents", "0.35", day(2024, time.December, 31), categoryA),
		newExpense("next-year", "999", day(2025, time.January, 1), categoryA),
	)

	buckets := MonthlyRollup(expenses, 2024)

	bucketSum := decimal.Zero
	for _, bucket := range buckets {
		bucketSum = bucketSum.Add(bucket.Amount)
	}

	yearSum := decimal.Zero
	for _, e := range expenses {
		if e.Date.Year() == 2024 {
			yearSum = yearSum.Add(e.Amount)
		}
	}

	if !bucketSum.Equal(yearSum) {
		t.Errorf("sum of buckets = %s, want %s", bucketSum, yearSum)
	}
	if !buckets[11].Amount.Equal(decimal.RequireFromString("0.35")) {
		t.Errorf("Dec = %s, want 0.35", buckets[11].Amount)
	}
}

func TestMonthlyRollup_Idempotent(t *testing.T) {
	expenses := sampleExpenses()

	first := MonthlyRollup(expenses, 2024)
	second := MonthlyRollup(expenses, 2024)

	for i := range first {
		if !first[i].Amount.Equal(second[i].Amount) || first[i].Label != second[i].Label {
			t.Errorf("bucket %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestYearlyRollup(t *testing.T) {
	tests := []struct {
		name        string
		expenses    []*entity.Expense
		currentYear int
		window      int
		expected    []YearlyBucket
	}{
		{
			name: "missing years are not zero-filled",
			expenses: []*entity.Expense{
				newExpense("a", "10", day(2022, time.March, 3), categoryA),
				newExpense("b", "20", day(2024, time.April, 4), categoryA),
				newExpense("c", "5", day(2024, time.May, 5), categoryB),
			},
			currentYear: 2024,
			window:      5,
			expected: []YearlyBucket{
				{Year: 2024, Amount: decimal.NewFromInt(25)},
				{Year: 2022, Amount: decimal.NewFromInt(10)},
			},
		},
		{
			name: "years outside the window are dropped",
			expenses: []*entity.Expense{
				newExpense("too-old", "10", day(2019, time.December, 31), categoryA),
				newExpense("oldest-kept", "7", day(2020, time.January, 1), categoryA),
				newExpense("future", "99", day(2025, time.January, 1), categoryA),
			},
			currentYear: 2024,
			window:      5,
			expected: []YearlyBucket{
				{Year: 2020, Amount: decimal.NewFromInt(7)},
			},
		},
		{
			name: "non-positive window uses the default",
			expenses: []*entity.Expense{
				newExpense("a", "1", day(2020, time.June, 1), categoryA),
				newExpense("b", "2", day(2019, time.June, 1), categoryA),
			},
			currentYear: 2024,
			window:      0,
			expected: []YearlyBucket{
				{Year: 2020, Amount: decimal.NewFromInt(1)},
			},
		},
		{
			name: "custom window",
			expenses: []*entity.Expense{
				newExpense("a", "1", day(2023, time.June, 1), categoryA),
				newExpense("b", "2", day(2024, time.June, 1), categoryA),
			},
			currentYear: 2024,
			window:      1,
			expected: []YearlyBucket{
				{Year: 2024, Amount: decimal.NewFromInt(2)},
			},
		},
		{
			name:        "empty collection",
			expenses:    nil,
			currentYear: 2024,
			window:      5,
			expected:    []YearlyBucket{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YearlyRollup(tt.expenses, tt.currentYear, tt.window)
			if len(got) != len(tt.expected) {
				t.Fatalf("YearlyRollup() returned %d buckets (%+v), want %d", len(got), got, len(tt.expected))
			}
			for i := range got {
				if got[i].Year != tt.expected[i].Year || !got[i].Amount.Equal(tt.expected[i].Amount) {
					t.Errorf("bucket %d = {%d %s}, want {%d %s}",
						i, got[i].Year, got[i].Amount, tt.expected[i].Year, tt.expected[i].Amount)
				}
			}
		})
	}
}

func TestPercentageOf(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		peak     string
		expected int
	}{
		{name: "three quarters", amount: "150", peak: "200", expected: 75},
		{name: "equal to max", amount: "200", peak: "200", expected: 100},
		{name: "zero max", amount: "0", peak: "0", expected: 0},
		{name: "zero max with amount", amount: "5", peak: "0", expected: 0},
		{name: "zero amount", amount: "0", peak: "100", expected: 0},
		{name: "half rounds up", amount: "1", peak: "8", expected: 13},
		{name: "below half rounds down", amount: "1", peak: "3", expected: 33},
		{name: "above half rounds up", amount: "2", peak: "3", expected: 67},
		{name: "cents", amount: "0.05", peak: "10", expected: 1},
		{name: "amount above max is clamped", amount: "250", peak: "200", expected: 100},
		{name: "negative amount is clamped", amount: "-5", peak: "100", expected: 0},
		{name: "negative max", amount: "5", peak: "-100", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentageOf(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.peak))
			if got != tt.expected {
				t.Errorf("PercentageOf(%s, %s) = %d, want %d", tt.amount, tt.peak, got, tt.expected)
			}
		})
	}
}

func TestPercentageOf_BoundsOverSeries(t *testing.T) {
	buckets := MonthlyRollup(sampleExpenses(), 2024)
	peak := MaxAmount(buckets[:])

	for _, bucket := range ScaleMonthly(buckets, peak) {
		if bucket.Percentage < 0 || bucket.Percentage > 100 {
			t.Errorf("bucket %s: percentage %d out of range", bucket.Label, bucket.Percentage)
		}
		if bucket.Amount.Equal(peak) && bucket.Percentage != 100 {
			t.Errorf("bucket %s holds the peak but scaled to %d", bucket.Label, bucket.Percentage)
		}
	}
}

func TestMaxAmount_Yearly(t *testing.T) {
	if peak := MaxAmount([]YearlyBucket{}); !peak.IsZero() {
		t.Errorf("MaxAmount(empty) = %s, want 0", peak)
	}

	buckets := []YearlyBucket{
		{Year: 2024, Amount: decimal.NewFromInt(40)},
		{Year: 2023, Amount: decimal.NewFromInt(90)},
	}
	if peak := MaxAmount(buckets); !peak.Equal(decimal.NewFromInt(90)) {
		t.Errorf("MaxAmount() = %s, want 90", peak)
	}
}
