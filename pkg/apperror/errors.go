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
	Subject    string `json:"subject,omitempty"` // Offending user or entity, when one is known
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s (%s)", e.Message, e.Subject)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
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

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Error codes.
const (
	CodeInsufficientFunds      = "WAL_001"
	CodeConflict               = "WAL_002"
	CodeFraudLimitExceeded     = "WAL_003"
	CodeDuplicateEvent         = "WAL_004"
	CodeProviderTransferFailed = "WAL_005"
	CodeInvalidGameState       = "GAME_001"
	CodeAlreadyQueued          = "MM_001"
	CodeValidation             = "VAL_001"
	CodeNotFound               = "VAL_002"
	CodeUnauthenticated        = "AUTH_001"
	CodeInvalidSignature       = "AUTH_002"
	CodeInternal               = "SYS_001"
	CodeRateLimitExceeded      = "SYS_002"
)

// ---- Wallet (WAL) ----

func ErrInsufficientFunds(userID string) *AppError {
	e := New(CodeInsufficientFunds, "Insufficient balance in wallet", http.StatusPaymentRequired)
	e.Subject = userID
	return e
}

func ErrConflict(userID string) *AppError {
	e := New(CodeConflict, "Wallet was modified concurrently, retry with fresh state", http.StatusConflict)
	e.Subject = userID
	return e
}

func ErrFraudLimitExceeded(action string) *AppError {
	return New(CodeFraudLimitExceeded, fmt.Sprintf("Too many %s attempts in the current window", action), http.StatusTooManyRequests)
}

// ErrDuplicateEvent marks an idempotency short-circuit. Callers treat it as success.
func ErrDuplicateEvent(reference string) *AppError {
	e := New(CodeDuplicateEvent, "Event already applied", http.StatusOK)
	e.Subject = reference
	return e
}

// ErrProviderTransferFailed reports a withdrawal whose debit was refunded.
func ErrProviderTransferFailed(err error) *AppError {
	return Wrap(CodeProviderTransferFailed, "Payout provider rejected the transfer, funds were returned", http.StatusBadGateway, err)
}

// ---- Games (GAME) ----

func ErrInvalidGameState(message string) *AppError {
	return New(CodeInvalidGameState, message, http.StatusConflict)
}

// ---- Matchmaking (MM) ----

func ErrAlreadyQueued(userID string) *AppError {
	e := New(CodeAlreadyQueued, "User is already waiting in a queue", http.StatusConflict)
	e.Subject = userID
	return e
}

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error; it is raised before any mutation.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrUnauthenticated() *AppError {
	return New(CodeUnauthenticated, "Missing or malformed user identity", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New(CodeInvalidSignature, "Webhook signature is invalid or expired", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Too many requests, slow down", http.StatusTooManyRequests)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}
