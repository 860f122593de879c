package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsTransient reports whether err may succeed on retry. Plain errors and
// store or system failures are transient; validation, integrity, conflict and
// open-breaker errors are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return true
	}
	switch appErr.Code {
	case "STORE_001", "SYS_001":
		return true
	}
	return false
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidAccessKey() *AppError {
	return New("SEC_001", "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Validation (VAL) ----

func ErrInvalidAmount() *AppError {
	return New("VAL_001", "Amount must be a positive decimal", http.StatusBadRequest)
}

func ErrUnknownCurrency(currency string) *AppError {
	return New("VAL_002", fmt.Sprintf("Unsupported currency %q", currency), http.StatusBadRequest)
}

func ErrInvalidUserID() *AppError {
	return New("VAL_003", "User id must be a positive integer", http.StatusBadRequest)
}

func ErrInvalidExternalRef() *AppError {
	return New("VAL_004", "External reference is malformed", http.StatusBadRequest)
}

func ErrInvalidSchedule(reason string) *AppError {
	return New("VAL_005", "Invalid commission schedule: "+reason, http.StatusBadRequest)
}

// Validation returns a generic VAL_006 validation error.
func Validation(message string) *AppError {
	return New("VAL_006", message, http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("VAL_404", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Concurrency & integrity ----

// ErrConcurrencyConflict marks a lost cursor compare-and-swap or a dedupe
// key already taken by another writer. Callers treat it as a no-op.
func ErrConcurrencyConflict(what string) *AppError {
	return New("CONC_001", "Concurrent update lost: "+what, http.StatusConflict)
}

func ErrDataIntegrity(detail string) *AppError {
	return New("INTEG_001", "Data integrity violation: "+detail, http.StatusUnprocessableEntity)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_004", "Operator role required", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Store & System ----

// ErrStoreUnavailable is a transient store failure; the unit of work is
// left untouched and may be retried.
func ErrStoreUnavailable(err error) *AppError {
	return Wrap("STORE_001", "Store temporarily unavailable", http.StatusServiceUnavailable, err)
}

func ErrCircuitOpen(err error) *AppError {
	return Wrap("STORE_002", "Store circuit breaker open", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
