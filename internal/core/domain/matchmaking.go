package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QueueEntry is a player waiting to be paired. Entries are never persisted.
type QueueEntry struct {
	UserID       string          `json:"user_id"`
	ConnectionID string          `json:"connection_id"`
	Stake        decimal.Decimal `json:"stake"`
	Mode         GameMode        `json:"mode"`
	EnqueuedAt   time.Time       `json:"enqueued_at"`
}

// Bracket is a configured stake range used for pairing.
type Bracket struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether stake falls in the bracket. When closed is false
// the upper edge is excluded.
func (b Bracket) Contains(stake decimal.Decimal, closed bool) bool {
	if stake.LessThan(b.Min) {
		return false
	}
	if closed {
		return stake.LessThanOrEqual(b.Max)
	}
	return stake.LessThan(b.Max)
}

// Key identifies the bracket in queue keys and metrics labels.
func (b Bracket) Key() string {
	return b.Min.String() + "-" + b.Max.String()
}

// StakePolicy decides the agreed stake of a paired game.
type StakePolicy string

const (
	StakePolicyLower StakePolicy = "lower"
	StakePolicyEqual StakePolicy = "equal"
)

// Agree returns the stake both players play for and whether the pair is acceptable.
func (p StakePolicy) Agree(a, b decimal.Decimal) (decimal.Decimal, bool) {
	switch p {
	case StakePolicyEqual:
		if !a.Equal(b) {
			return decimal.Zero, false
		}
		return a, true
	default:
		return decimal.Min(a, b), true
	}
}
