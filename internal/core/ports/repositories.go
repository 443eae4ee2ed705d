package ports

import (
	"context"
	"time"

	"wager-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mocks wager-settlement/internal/core/ports WalletRepository,LedgerRepository,WebhookRepository,GameRepository,DBTransactor

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx must be called inside a transaction block.
// Reads return (nil, nil) when the wallet does not exist.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error)
	CreateIfMissing(ctx context.Context, tx pgx.Tx, userID, currency string) (*domain.Wallet, error)
	// ApplyDelta adds the deltas to both buckets and bumps the version, provided the
	// stored version equals expectedVersion and neither bucket would go negative.
	// It returns false when no row matched.
	ApplyDelta(ctx context.Context, tx pgx.Tx, userID string, expectedVersion int64, dAvailable, dLocked decimal.Decimal) (bool, error)
}

// LedgerRepository defines the append-only ledger.
type LedgerRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	ListByReference(ctx context.Context, tx pgx.Tx, referenceID string) ([]domain.LedgerEntry, error)
	ExistsByReference(ctx context.Context, tx pgx.Tx, referenceID string, entryType domain.LedgerEntryType) (bool, error)
	ListByWallet(ctx context.Context, walletID string) ([]domain.LedgerEntry, error)
}

// WebhookRepository persists processed provider events.
type WebhookRepository interface {
	// Insert returns false when a row for the provider reference already exists.
	Insert(ctx context.Context, tx pgx.Tx, w *domain.ProcessedWebhook) (bool, error)
	Exists(ctx context.Context, providerReference string) (bool, error)
}

// GameTransition describes one terminal state change.
type GameTransition struct {
	GameID          uuid.UUID
	ExpectedVersion int64
	To              domain.GameStatus
	WinnerID        *string
	CashoutAt       *decimal.Decimal
}

// GameRepository defines persistence operations for games.
type GameRepository interface {
	Create(ctx context.Context, tx pgx.Tx, game *domain.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	// Transition moves an ACTIVE game at the expected version to a terminal status.
	// It returns false when another writer already moved it.
	Transition(ctx context.Context, tx pgx.Tx, t GameTransition) (bool, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.Game, error)
	ListActiveByNode(ctx context.Context, nodeID string) ([]domain.Game, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
