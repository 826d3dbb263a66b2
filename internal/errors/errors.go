// Package errors provides custom error types for the fintrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
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

// Is reports whether target is an AppError carrying the same code, so that
// errors.Is(err, ErrInvalidParameter) matches copies made by Wrap/WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
	ErrInvalidResetToken  = &AppError{Code: "INVALID_RESET_TOKEN", Message: "Password reset token is invalid or has expired", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Store errors. Every failure reading or writing the ledger surfaces as
// ErrStoreUnavailable with the driver error kept as Internal.
var (
	ErrStoreUnavailable = &AppError{Code: "STORE_UNAVAILABLE", Message: "The data store is unavailable", StatusCode: http.StatusServiceUnavailable}
)

// Parameter errors.
var (
	ErrInvalidParameter   = &AppError{Code: "INVALID_PARAMETER", Message: "Invalid parameter", StatusCode: http.StatusBadRequest}
	ErrInvalidTimeRange   = &AppError{Code: "INVALID_TIME_RANGE", Message: "Unsupported time range", StatusCode: http.StatusBadRequest}
	ErrInvalidDate        = &AppError{Code: "INVALID_DATE", Message: "Dates must use the YYYY-MM-DD format", StatusCode: http.StatusBadRequest}
	ErrUnsupportedFormat  = &AppError{Code: "UNSUPPORTED_FORMAT", Message: "Unsupported format", StatusCode: http.StatusBadRequest}
	ErrInvalidSortField   = &AppError{Code: "INVALID_SORT_FIELD", Message: "Unsupported sort field", StatusCode: http.StatusBadRequest}
	ErrNegativeAmount     = &AppError{Code: "NEGATIVE_AMOUNT", Message: "Amount must not be negative", StatusCode: http.StatusBadRequest}
	ErrInvalidTransaction = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Transaction type must be income or expense", StatusCode: http.StatusBadRequest}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrEmptyCategory = &AppError{Code: "EMPTY_CATEGORY", Message: "Category is required", StatusCode: http.StatusBadRequest}
)
