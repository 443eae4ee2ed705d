package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GameMode identifies the wager variant.
type GameMode string

const (
	GameModeDuel  GameMode = "DUEL"
	GameModePool  GameMode = "POOL"
	GameModeCrash GameMode = "CRASH"
)

// Valid reports whether m is a supported mode.
func (m GameMode) Valid() bool {
	switch m {
	case GameModeDuel, GameModePool, GameModeCrash:
		return true
	}
	return false
}

// IsHouse reports whether the mode is played against the house.
func (m GameMode) IsHouse() bool {
	return m == GameModeCrash
}

// PlayerCount is the number of seats the mode requires.
func (m GameMode) PlayerCount() int {
	if m.IsHouse() {
		return 1
	}
	return 2
}

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	GameStatusActive             GameStatus = "ACTIVE"
	GameStatusCompleted          GameStatus = "COMPLETED"
	GameStatusCancelledByTimeout GameStatus = "CANCELLED_BY_TIMEOUT"
	GameStatusCancelledByError   GameStatus = "CANCELLED_BY_ERROR"
	GameStatusCancelledByCrash   GameStatus = "CANCELLED_BY_CRASH"
)

// IsTerminal returns true for every status other than ACTIVE.
func (s GameStatus) IsTerminal() bool {
	return s != GameStatusActive
}

// CancelReason selects the terminal status of a cancellation.
type CancelReason string

const (
	CancelReasonTimeout CancelReason = "TIMEOUT"
	CancelReasonError   CancelReason = "ERROR"
	CancelReasonCrash   CancelReason = "CRASH"
)

// Status maps a cancel reason to its terminal game status.
func (r CancelReason) Status() (GameStatus, bool) {
	switch r {
	case CancelReasonTimeout:
		return GameStatusCancelledByTimeout, true
	case CancelReasonError:
		return GameStatusCancelledByError, true
	case CancelReasonCrash:
		return GameStatusCancelledByCrash, true
	}
	return "", false
}

// Game is one wager. Exactly one terminal transition out of ACTIVE succeeds,
// enforced by the Version compare-and-swap in the repository.
type Game struct {
	ID         uuid.UUID        `json:"id"`
	Mode       GameMode         `json:"mode"`
	Stake      decimal.Decimal  `json:"stake"`
	Status     GameStatus       `json:"status"`
	Players    []string         `json:"players"`
	WinnerID   *string          `json:"winner_id,omitempty"`
	CrashPoint *decimal.Decimal `json:"-"`
	CashoutAt  *decimal.Decimal `json:"cashout_at,omitempty"`
	NodeID     string           `json:"-"`
	ExpiresAt  time.Time        `json:"expires_at"`
	Version    int64            `json:"version"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// HasPlayer reports whether userID holds a seat in the game.
func (g *Game) HasPlayer(userID string) bool {
	return slices.Contains(g.Players, userID)
}

// Opponents returns every player except userID.
func (g *Game) Opponents(userID string) []string {
	out := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if p != userID {
			out = append(out, p)
		}
	}
	return out
}

// Pot is the sum of all stakes.
func (g *Game) Pot() decimal.Decimal {
	return g.Stake.Mul(decimal.NewFromInt(int64(len(g.Players))))
}

// IsExpired reports whether an active game has outlived its deadline.
func (g *Game) IsExpired(now time.Time) bool {
	return g.Status == GameStatusActive && g.ExpiresAt.Before(now)
}

// GameView is the client-facing projection of a game.
// The crash point is only revealed once the game is terminal.
type GameView struct {
	ID         uuid.UUID        `json:"id"`
	Mode       GameMode         `json:"mode"`
	Stake      decimal.Decimal  `json:"stake"`
	Status     GameStatus       `json:"status"`
	Players    []string         `json:"players"`
	WinnerID   *string          `json:"winner_id,omitempty"`
	CrashPoint *decimal.Decimal `json:"crash_point,omitempty"`
	CashoutAt  *decimal.Decimal `json:"cashout_at,omitempty"`
	ExpiresAt  time.Time        `json:"expires_at"`
	CreatedAt  time.Time        `json:"created_at"`
}

// View projects the game for clients.
func (g *Game) View() GameView {
	v := GameView{
		ID:        g.ID,
		Mode:      g.Mode,
		Stake:     g.Stake,
		Status:    g.Status,
		Players:   slices.Clone(g.Players),
		WinnerID:  g.WinnerID,
		CashoutAt: g.CashoutAt,
		ExpiresAt: g.ExpiresAt,
		CreatedAt: g.CreatedAt,
	}
	if g.Status.IsTerminal() && g.CrashPoint != nil {
		cp := *g.CrashPoint
		v.CrashPoint = &cp
	}
	return v
}
