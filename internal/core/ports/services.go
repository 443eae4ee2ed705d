package ports

import (
	"context"
	"time"

	"wager-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks wager-settlement/internal/core/ports WalletService,GameService,Matchmaker,PayoutProvider,VelocityStore,VelocityGuard,DedupCache

// --- Collaborator Ports ---

// TransferStatus is the provider's verdict on a payout.
type TransferStatus string

const (
	TransferSucceeded TransferStatus = "SUCCEEDED"
	TransferPending   TransferStatus = "PENDING"
	TransferFailed    TransferStatus = "FAILED"
)

// TransferRequest is sent to the payment provider for a withdrawal.
type TransferRequest struct {
	WithdrawalID  string
	UserID        string
	Amount        decimal.Decimal
	Currency      string
	PayoutDetails map[string]string
}

// TransferResult is the provider's synchronous answer.
type TransferResult struct {
	ProviderReference string
	Status            TransferStatus
	Reason            string
}

// PayoutProvider submits withdrawals to the external payment provider.
type PayoutProvider interface {
	Name() string
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// VelocityStore is the shared attempt counter behind the velocity guard.
type VelocityStore interface {
	// Increment bumps the counter and returns its new value. The counter
	// expires at expireAt.
	Increment(ctx context.Context, key string, expireAt time.Time) (int64, error)
}

// DedupCache is the Redis-layer fast path for already applied provider events.
type DedupCache interface {
	Seen(ctx context.Context, providerReference string) (bool, error)
	Mark(ctx context.Context, providerReference string, ttl time.Duration) error
}

// VelocityGuard rejects actions attempted too often.
type VelocityGuard interface {
	CheckAndRecord(ctx context.Context, userID, action string) error
}

// --- Service Ports (Business Logic) ---

// Balance is a point-in-time view of a wallet.
type Balance struct {
	UserID    string
	Available decimal.Decimal
	Locked    decimal.Decimal
	Total     decimal.Decimal
	Currency  string
	Version   int64
}

// PayoutResult describes a settled match.
type PayoutResult struct {
	MatchID        string
	WinnerID       string
	WinnerAmount   decimal.Decimal
	Commission     decimal.Decimal
	Stakes         map[string]decimal.Decimal
	AlreadySettled bool
}

// RefundResult describes refunded stakes.
type RefundResult struct {
	MatchID         string
	Refunds         map[string]decimal.Decimal
	AlreadyRefunded bool
}

// WithdrawRequest holds validated input for a withdrawal.
type WithdrawRequest struct {
	UserID        string
	Amount        decimal.Decimal
	PayoutDetails map[string]string
}

// WithdrawStatus is the outcome reported to the caller.
type WithdrawStatus string

const (
	WithdrawCompleted WithdrawStatus = "COMPLETED"
	WithdrawPending   WithdrawStatus = "PENDING"
	WithdrawRefunded  WithdrawStatus = "REFUNDED"
)

// WithdrawResult tells the caller whether money left the wallet.
type WithdrawResult struct {
	WithdrawalID      string
	ProviderReference string
	Status            WithdrawStatus
	Amount            decimal.Decimal
	Available         decimal.Decimal
}

// DepositRequest is a verified provider deposit event.
type DepositRequest struct {
	ProviderReference string
	Provider          string
	UserID            string
	Amount            decimal.Decimal
	Currency          string
	FXRate            *decimal.Decimal
}

// DepositResult reports the credited amount. Duplicate is set on replays.
type DepositResult struct {
	Duplicate bool
	Credited  decimal.Decimal
	Currency  string
}

// WithdrawalResultEvent is a verified provider callback for a pending withdrawal.
type WithdrawalResultEvent struct {
	ProviderReference string
	Provider          string
	WithdrawalID      string
	UserID            string
	Succeeded         bool
	Reason            string
}

// ReconciliationReport compares a wallet against its ledger.
type ReconciliationReport struct {
	UserID          string
	WalletAvailable decimal.Decimal
	WalletLocked    decimal.Decimal
	LedgerAvailable decimal.Decimal
	LedgerLocked    decimal.Decimal
	Entries         int
	Balanced        bool
}

// WalletService defines atomic fund operations.
// The *Tx variants join a transaction owned by the caller.
type WalletService interface {
	GetBalance(ctx context.Context, userID string) (*Balance, error)
	EnsureWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	LockFundsForMatch(ctx context.Context, playerIDs []string, stake decimal.Decimal, matchID string) error
	LockFundsTx(ctx context.Context, tx pgx.Tx, playerIDs []string, stake decimal.Decimal, matchID string) error
	ProcessPayout(ctx context.Context, matchID, winnerID string, loserIDs []string, totalPot decimal.Decimal) (*PayoutResult, error)
	PayoutTx(ctx context.Context, tx pgx.Tx, matchID, winnerID string, loserIDs []string, totalPot decimal.Decimal) (*PayoutResult, error)
	SettleHouseTx(ctx context.Context, tx pgx.Tx, matchID, playerID string, payout decimal.Decimal) (*PayoutResult, error)
	RefundStakes(ctx context.Context, matchID string, playerIDs []string) (*RefundResult, error)
	RefundTx(ctx context.Context, tx pgx.Tx, matchID string, playerIDs []string) (*RefundResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*WithdrawResult, error)
	ProcessWithdrawalResult(ctx context.Context, evt WithdrawalResultEvent) (*WithdrawResult, error)
	ProcessDeposit(ctx context.Context, req DepositRequest) (*DepositResult, error)
	Reconcile(ctx context.Context, userID string) (*ReconciliationReport, error)
}

// Resolution is the result of a terminal transition attempt.
// Applied is false when another path had already resolved the game.
type Resolution struct {
	Game    *domain.Game
	Applied bool
}

// GameService drives the game state machine.
type GameService interface {
	Create(ctx context.Context, mode domain.GameMode, stake decimal.Decimal, players []string) (*domain.Game, error)
	Complete(ctx context.Context, gameID uuid.UUID, winnerID string) (*Resolution, error)
	ResolveCrash(ctx context.Context, gameID uuid.UUID, cashoutAt *decimal.Decimal) (*Resolution, error)
	Cancel(ctx context.Context, gameID uuid.UUID, reason domain.CancelReason) (*Resolution, error)
	Get(ctx context.Context, gameID uuid.UUID) (*domain.GameView, error)
	RecoverOrphaned(ctx context.Context) (int, error)
}

// EnqueueRequest asks to be paired.
type EnqueueRequest struct {
	UserID       string
	ConnectionID string
	Stake        decimal.Decimal
	Mode         domain.GameMode
}

// Matchmaker pairs waiting players.
type Matchmaker interface {
	// Enqueue returns the created game when a partner was found, or nil when queued.
	Enqueue(ctx context.Context, req EnqueueRequest) (*domain.Game, error)
	Dequeue(userID string) bool
	Disconnect(connectionID string) int
	QueueDepth() map[string]int
}
