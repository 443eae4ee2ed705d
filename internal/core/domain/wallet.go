package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds a user's spendable and wagered funds.
// Version increments by exactly one on every balance mutation.
type Wallet struct {
	UserID           string          `json:"user_id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	LockedBalance    decimal.Decimal `json:"locked_balance"`
	Currency         string          `json:"currency"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Total returns available plus locked funds.
func (w *Wallet) Total() decimal.Decimal {
	return w.AvailableBalance.Add(w.LockedBalance)
}

// CanCover reports whether the available balance covers amount.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.AvailableBalance.GreaterThanOrEqual(amount)
}

// NewWallet returns an empty wallet at version zero.
func NewWallet(userID, currency string, now time.Time) *Wallet {
	return &Wallet{
		UserID:           userID,
		AvailableBalance: decimal.Zero,
		LockedBalance:    decimal.Zero,
		Currency:         currency,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// MoneyScale is the number of fractional digits kept for stored amounts.
const MoneyScale = 4

// RoundMoney rounds an amount to the stored money scale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}
