package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wager-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = `user_id, available_balance::text, locked_balance::text, currency, version, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetByUserID fetches a wallet without locking.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("get wallet by user id: %w", err)
	}
	return w, nil
}

// GetForUpdate fetches a wallet with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`

	w, err := scanWallet(tx.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// CreateIfMissing provisions an empty wallet and returns the locked row.
func (r *WalletRepo) CreateIfMissing(ctx context.Context, tx pgx.Tx, userID, currency string) (*domain.Wallet, error) {
	query := `INSERT INTO wallets (user_id, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := tx.Exec(ctx, query, userID, currency, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("insert wallet: %w", err)
	}

	w, err := r.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("wallet %s missing after provisioning", userID)
	}
	return w, nil
}

// ApplyDelta moves money between buckets under the version guard.
func (r *WalletRepo) ApplyDelta(ctx context.Context, tx pgx.Tx, userID string, expectedVersion int64, dAvailable, dLocked decimal.Decimal) (bool, error) {
	query := `UPDATE wallets
		SET available_balance = available_balance + $3::numeric,
			locked_balance = locked_balance + $4::numeric,
			version = version + 1,
			updated_at = NOW()
		WHERE user_id = $1 AND version = $2
			AND available_balance + $3::numeric >= 0
			AND locked_balance + $4::numeric >= 0`

	tag, err := tx.Exec(ctx, query, userID, expectedVersion, dAvailable.String(), dLocked.String())
	if err != nil {
		return false, fmt.Errorf("apply wallet delta: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		w                 domain.Wallet
		available, locked string
	)
	err := row.Scan(&w.UserID, &available, &locked, &w.Currency, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if w.AvailableBalance, err = decimal.NewFromString(available); err != nil {
		return nil, fmt.Errorf("parse available balance: %w", err)
	}
	if w.LockedBalance, err = decimal.NewFromString(locked); err != nil {
		return nil, fmt.Errorf("parse locked balance: %w", err)
	}
	return &w, nil
}
