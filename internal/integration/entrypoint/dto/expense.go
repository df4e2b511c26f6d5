// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/usecase/report"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// CreateExpenseRequest represents the request body for expense creation.
// Amount may be sent as a JSON number or a string.
type CreateExpenseRequest struct {
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
	CategoryID  string          `json:"categoryId"`
}

// AmountText returns the raw amount as text for validation.
func (r CreateExpenseRequest) AmountText() string {
	raw := bytes.TrimSpace(r.Amount)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return string(raw)
}

// ExpenseCategoryResponse represents category information in expense responses.
type ExpenseCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExpenseResponse represents a single expense in API responses.
// Category is null when the category has been deleted.
type ExpenseResponse struct {
	ID          string                   `json:"id"`
	Description string                   `json:"description"`
	Amount      string                   `json:"amount"`
	Date        string                   `json:"date"`
	CategoryID  string                   `json:"categoryId"`
	Category    *ExpenseCategoryResponse `json:"category"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// ExpenseListResponse represents the response for listing expenses.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    string            `json:"total"`
}

// FilterResponse echoes the filter values that were applied.
type FilterResponse struct {
	Month      *int    `json:"month"`
	Year       *int    `json:"year"`
	CategoryID *string `json:"categoryId"`
}

// MonthlyBucketResponse represents one month of the monthly series.
type MonthlyBucketResponse struct {
	Month      int    `json:"month"`
	Label      string `json:"label"`
	Amount     string `json:"amount"`
	Percentage int    `json:"percentage"`
}

// YearlyBucketResponse represents one year of the yearly series.
type YearlyBucketResponse struct {
	Year       int    `json:"year"`
	Amount     string `json:"amount"`
	Percentage int    `json:"percentage"`
}

// ReportResponse represents the expense report.
type ReportResponse struct {
	Filter           FilterResponse          `json:"filter"`
	StatsYear        int                     `json:"statsYear"`
	Expenses         []ExpenseResponse       `json:"expenses"`
	Total            string                  `json:"total"`
	Categories       []CategoryResponse      `json:"categories"`
	MonthlySeries    []MonthlyBucketResponse `json:"monthlySeries"`
	YearlySeries     []YearlyBucketResponse  `json:"yearlySeries"`
	MaxMonthlyAmount string                  `json:"maxMonthlyAmount"`
	MaxYearlyAmount  string                  `json:"maxYearlyAmount"`
}

// ToExpenseResponse converts an expense and its optional category.
func ToExpenseResponse(expense *entity.Expense, category *entity.Category) ExpenseResponse {
	response := ExpenseResponse{
		ID:          expense.ID.String(),
		Description: expense.Description,
		Amount:      formatAmount(expense.Amount),
		Date:        expense.Date.Format(entity.DateLayout),
		CategoryID:  expense.CategoryID.String(),
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
	if category != nil {
		response.Category = &ExpenseCategoryResponse{
			ID:   category.ID.String(),
			Name: category.Name,
		}
	}
	return response
}

// ToExpenseListResponse converts a filtered expense list and its total.
func ToExpenseListResponse(rows []*entity.ExpenseWithCategory, total decimal.Decimal) ExpenseListResponse {
	return ExpenseListResponse{
		Expenses: toExpenseResponses(rows),
		Total:    formatAmount(total),
	}
}

// ToReportResponse converts a report result.
func ToReportResponse(result *report.ReportResult) ReportResponse {
	response := ReportResponse{
		Filter:           toFilterResponse(result.Filter),
		StatsYear:        result.StatsYear,
		Expenses:         toExpenseResponses(result.FilteredExpenses),
		Total:            formatAmount(result.Total),
		Categories:       ToCategoryListResponse(result.Categories).Categories,
		MonthlySeries:    make([]MonthlyBucketResponse, len(result.MonthlySeries)),
		YearlySeries:     make([]YearlyBucketResponse, len(result.YearlySeries)),
		MaxMonthlyAmount: formatAmount(result.MaxMonthlyAmount),
		MaxYearlyAmount:  formatAmount(result.MaxYearlyAmount),
	}

	for i, bucket := range result.MonthlySeries {
		response.MonthlySeries[i] = MonthlyBucketResponse{
			Month:      bucket.Month,
			Label:      bucket.Label,
			Amount:     formatAmount(bucket.Amount),
			Percentage: bucket.Percentage,
		}
	}
	for i, bucket := range result.YearlySeries {
		response.YearlySeries[i] = YearlyBucketResponse{
			Year:       bucket.Year,
			Amount:     formatAmount(bucket.Amount),
			Percentage: bucket.Percentage,
		}
	}

	return response
}

func toExpenseResponses(rows []*entity.ExpenseWithCategory) []ExpenseResponse {
	responses := make([]ExpenseResponse, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.Expense == nil {
			continue
		}
		responses = append(responses, ToExpenseResponse(row.Expense, row.Category))
	}
	return responses
}

func toFilterResponse(filter report.ReportFilter) FilterResponse {
	response := FilterResponse{
		Month: filter.Month,
		Year:  filter.Year,
	}
	if filter.CategoryID != nil {
		id := filter.CategoryID.String()
		response.CategoryID = &id
	}
	return response
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
