package dto

import (
	"wager-settlement/internal/core/domain"

	"github.com/shopspring/decimal"
)

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	UserID    string          `json:"user_id"`
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	Amount        decimal.Decimal   `json:"amount"`
	PayoutDetails map[string]string `json:"payout_details,omitempty"`
}

// WithdrawResponse reports whether money left the wallet.
type WithdrawResponse struct {
	WithdrawalID      string          `json:"withdrawal_id"`
	ProviderReference string          `json:"provider_reference,omitempty"`
	Status            string          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	Available         decimal.Decimal `json:"available"`
}

// DepositWebhook is the provider callback for a completed deposit.
type DepositWebhook struct {
	ProviderReference string           `json:"provider_reference" binding:"required,max=128,safe_id"`
	Provider          string           `json:"provider" binding:"required,max=32,safe_id"`
	UserID            string           `json:"user_id" binding:"required,max=64,safe_id"`
	Amount            decimal.Decimal  `json:"amount"`
	Currency          string           `json:"currency" binding:"required,len=3"`
	FXRate            *decimal.Decimal `json:"fx_rate,omitempty"`
}

// DepositResponse acknowledges a deposit callback.
type DepositResponse struct {
	Duplicate bool            `json:"duplicate"`
	Credited  decimal.Decimal `json:"credited"`
	Currency  string          `json:"currency"`
}

// WithdrawalWebhook is the provider callback that settles a pending withdrawal.
type WithdrawalWebhook struct {
	ProviderReference string `json:"provider_reference" binding:"required,max=128,safe_id"`
	Provider          string `json:"provider" binding:"required,max=32,safe_id"`
	WithdrawalID      string `json:"withdrawal_id" binding:"required,max=128,safe_id"`
	UserID            string `json:"user_id" binding:"required,max=64,safe_id"`
	Status            string `json:"status" binding:"required,oneof=SUCCEEDED FAILED"`
	Reason            string `json:"reason,omitempty" binding:"max=256"`
}

// EnqueueRequest asks to be paired for a player-vs-player game.
type EnqueueRequest struct {
	Mode         domain.GameMode `json:"mode" binding:"required,game_mode"`
	Stake        decimal.Decimal `json:"stake"`
	ConnectionID string          `json:"connection_id,omitempty" binding:"omitempty,max=128,safe_id"`
}

// EnqueueResponse reports whether the caller was matched immediately.
type EnqueueResponse struct {
	Matched bool             `json:"matched"`
	Game    *domain.GameView `json:"game,omitempty"`
}

// CreateGameRequest starts a single-player house game.
type CreateGameRequest struct {
	Mode  domain.GameMode `json:"mode" binding:"required,game_mode"`
	Stake decimal.Decimal `json:"stake"`
}

// GameResultRequest resolves a player-vs-player game.
type GameResultRequest struct {
	WinnerID string `json:"winner_id" binding:"required,max=64,safe_id"`
}

// CrashResultRequest resolves a house game. A missing cashout_at means the
// player never cashed out.
type CrashResultRequest struct {
	CashoutAt *decimal.Decimal `json:"cashout_at,omitempty"`
}

// ResolutionResponse is the outcome of a resolution attempt.
type ResolutionResponse struct {
	Applied bool            `json:"applied"`
	Game    domain.GameView `json:"game"`
}
