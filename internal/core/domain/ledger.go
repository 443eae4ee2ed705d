package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryType classifies a balance-affecting event.
type LedgerEntryType string

const (
	LedgerDeposit     LedgerEntryType = "DEPOSIT"
	LedgerWithdrawal  LedgerEntryType = "WITHDRAWAL"
	LedgerStakeLock   LedgerEntryType = "STAKE_LOCK"
	LedgerStakeUnlock LedgerEntryType = "STAKE_UNLOCK"
	LedgerPayout      LedgerEntryType = "PAYOUT"
	LedgerCommission  LedgerEntryType = "COMMISSION"
	LedgerRefund      LedgerEntryType = "REFUND"
)

// Valid reports whether t is one of the known entry types.
func (t LedgerEntryType) Valid() bool {
	switch t {
	case LedgerDeposit, LedgerWithdrawal, LedgerStakeLock, LedgerStakeUnlock,
		LedgerPayout, LedgerCommission, LedgerRefund:
		return true
	}
	return false
}

// LedgerEntry is an immutable record of one balance movement.
// Amount is signed; see Effect for how it maps onto wallet buckets.
type LedgerEntry struct {
	ID               uuid.UUID        `json:"id"`
	TransactionID    string           `json:"transaction_id"`
	WalletID         string           `json:"wallet_id"`
	Amount           decimal.Decimal  `json:"amount"`
	Type             LedgerEntryType  `json:"type"`
	ReferenceID      string           `json:"reference_id"`
	Currency         string           `json:"currency"`
	OriginalAmount   *decimal.Decimal `json:"original_amount,omitempty"`
	OriginalCurrency *string          `json:"original_currency,omitempty"`
	FXRate           *decimal.Decimal `json:"fx_rate,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Effect returns the change this entry applies to the available and locked buckets.
func (e LedgerEntry) Effect() (available, locked decimal.Decimal) {
	switch e.Type {
	case LedgerStakeLock:
		return e.Amount, e.Amount.Neg()
	case LedgerStakeUnlock:
		return decimal.Zero, e.Amount
	default:
		return e.Amount, decimal.Zero
	}
}

// ReplayLedger folds entries into the balances they imply.
func ReplayLedger(entries []LedgerEntry) (available, locked decimal.Decimal) {
	available, locked = decimal.Zero, decimal.Zero
	for _, e := range entries {
		a, l := e.Effect()
		available = available.Add(a)
		locked = locked.Add(l)
	}
	return available, locked
}

// BuildStepTransactionID derives the per-step idempotency key of a settlement entry.
func BuildStepTransactionID(referenceID string, t LedgerEntryType, walletID string) string {
	return referenceID + ":" + string(t) + ":" + walletID
}

// NewLedgerEntry fills the identity fields of an entry.
func NewLedgerEntry(walletID string, t LedgerEntryType, amount decimal.Decimal, referenceID, currency string, now time.Time) LedgerEntry {
	return LedgerEntry{
		ID:            uuid.New(),
		TransactionID: BuildStepTransactionID(referenceID, t, walletID),
		WalletID:      walletID,
		Amount:        amount,
		Type:          t,
		ReferenceID:   referenceID,
		Currency:      currency,
		CreatedAt:     now,
	}
}
