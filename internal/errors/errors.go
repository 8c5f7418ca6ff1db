// Package errors provides custom error types for the saldo API.
// All service-layer errors should use AppError so clients see consistent
// responses that never leak internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrStoreFailure   = &AppError{Code: "STORE_FAILURE", Message: "Document store operation failed", StatusCode: http.StatusBadGateway}
)

// Identity errors.
var (
	ErrMissingIdentity = &AppError{Code: "MISSING_IDENTITY", Message: "X-User-ID header is required", StatusCode: http.StatusUnauthorized}
)

// Budget errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrNotAMember     = &AppError{Code: "NOT_A_MEMBER", Message: "User is not a member of this budget", StatusCode: http.StatusForbidden}
)

// Account and group errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrGroupNotFound   = &AppError{Code: "GROUP_NOT_FOUND", Message: "Group not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// Month and transaction errors.
var (
	ErrMonthNotFound       = &AppError{Code: "MONTH_NOT_FOUND", Message: "Month not found", StatusCode: http.StatusNotFound}
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount       = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be a positive number", StatusCode: http.StatusBadRequest}
	ErrInvalidMonthKey     = &AppError{Code: "INVALID_MONTH_KEY", Message: "Month must be formatted as YYYY-MM", StatusCode: http.StatusBadRequest}
)

// Allocation lifecycle errors.
var (
	ErrAlreadyFinalized = &AppError{Code: "ALREADY_FINALIZED", Message: "Allocations for this month are already finalized", StatusCode: http.StatusConflict}
	ErrNotFinalized     = &AppError{Code: "NOT_FINALIZED", Message: "Allocations for this month are not finalized", StatusCode: http.StatusConflict}
)

// Feedback errors.
var (
	ErrFeedbackNotFound = &AppError{Code: "FEEDBACK_NOT_FOUND", Message: "Feedback entry not found", StatusCode: http.StatusNotFound}
)
