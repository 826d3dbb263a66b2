package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertStoreUnavailable checks that err surfaced a ledger failure and kept
// the driver error for the logs.
func AssertStoreUnavailable(t *testing.T, err error) {
	t.Helper()

	AssertAppError(t, err, apperrors.ErrStoreUnavailable.Code)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Internal == nil {
		t.Error("expected the driver error to be kept as Internal")
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal compares amounts by value, so "12.50" matches 12.5.
func AssertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("bad expected amount %q: %v", want, err)
	}
	if !got.Equal(expected) {
		t.Errorf("expected amount %s, got %s", expected, got)
	}
}
