package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WAL_001", "Insufficient funds", http.StatusPaymentRequired),
			expected: "[WAL_001] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
		{
			name:     "with subject",
			appErr:   ErrInsufficientFunds("bob"),
			expected: "[WAL_001] Insufficient balance in wallet (bob)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("VAL_001", "test", http.StatusBadRequest).Unwrap())
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("withdraw: %w", ErrConflict("alice"))

	assert.True(t, HasCode(wrapped, CodeConflict))
	assert.False(t, HasCode(wrapped, CodeInsufficientFunds))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
	assert.False(t, HasCode(nil, CodeConflict))
}

func TestErrorCatalog(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InsufficientFunds", ErrInsufficientFunds("u1"), "WAL_001", 402},
		{"Conflict", ErrConflict("u1"), "WAL_002", 409},
		{"FraudLimitExceeded", ErrFraudLimitExceeded("withdrawal"), "WAL_003", 429},
		{"DuplicateEvent", ErrDuplicateEvent("ref-1"), "WAL_004", 200},
		{"ProviderTransferFailed", ErrProviderTransferFailed(errors.New("declined")), "WAL_005", 502},
		{"InvalidGameState", ErrInvalidGameState("game is not active"), "GAME_001", 409},
		{"AlreadyQueued", ErrAlreadyQueued("u1"), "MM_001", 409},
		{"Validation", Validation("bad stake"), "VAL_001", 400},
		{"NotFound", ErrNotFound("Game"), "VAL_002", 404},
		{"Unauthenticated", ErrUnauthenticated(), "AUTH_001", 401},
		{"InvalidSignature", ErrInvalidSignature(), "AUTH_002", 401},
		{"RateLimitExceeded", ErrRateLimitExceeded(), "SYS_002", 429},
		{"Database", ErrDatabaseError(errors.New("timeout")), "SYS_001", 500},
		{"Internal", InternalError(errors.New("boom")), "SYS_001", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrInsufficientFunds_NamesPlayer(t *testing.T) {
	err := ErrInsufficientFunds("carol")
	assert.Equal(t, "carol", err.Subject)
}

func TestErrNotFound_FormatsEntity(t *testing.T) {
	assert.Equal(t, "Wallet not found", ErrNotFound("Wallet").Message)
}
