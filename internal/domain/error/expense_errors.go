// Package error defines domain-specific errors for the Expense Tracker application.
package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense is not found in the system.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrDescriptionRequired is returned when the expense description is blank.
	ErrDescriptionRequired = errors.New("description is required")

	// ErrDescriptionTooLong is returned when the description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrInvalidAmount is returned when the amount is not a non-negative number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrCategoryRequired is returned when no category is given for an expense.
	ErrCategoryRequired = errors.New("category is required")

	// ErrInvalidExpenseDate is returned when the date cannot be parsed.
	ErrInvalidExpenseDate = errors.New("invalid date")

	// ErrCategoryNotFoundForExpense is returned when the referenced category does not exist for the user.
	ErrCategoryNotFoundForExpense = errors.New("category not found for expense")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeDescriptionRequired    ExpenseErrorCode = "EXP-010001"
	ErrCodeInvalidAmount          ExpenseErrorCode = "EXP-010002"
	ErrCodeCategoryRequired       ExpenseErrorCode = "EXP-010003"
	ErrCodeInvalidExpenseDate     ExpenseErrorCode = "EXP-010004"
	ErrCodeExpenseCategoryMissing ExpenseErrorCode = "EXP-010005"
	ErrCodeDescriptionTooLong     ExpenseErrorCode = "EXP-010006"
	ErrCodeMissingExpenseFields   ExpenseErrorCode = "EXP-010007"

	// Lookup errors (02XXXX)
	ErrCodeExpenseNotFound ExpenseErrorCode = "EXP-020001"
)

// Field names reported with expense validation errors.
const (
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategoryID  = "categoryId"
	FieldDate        = "date"
)

// ExpenseError represents an expense error with code, message and the offending field.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Field   string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError.
func NewExpenseError(code ExpenseErrorCode, field, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Field:   field,
		Err:     err,
	}
}
