package postgres

import (
	"context"
	"fmt"

	"wager-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `id, transaction_id, wallet_id, amount::text, entry_type, reference_id, currency,
		original_amount::text, original_currency, fx_rate::text, created_at`

// LedgerRepo implements ports.LedgerRepository. Rows are never updated or deleted.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Append inserts one entry within a database transaction.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	if !e.Type.Valid() {
		return fmt.Errorf("insert ledger entry: unknown entry type %q", e.Type)
	}
	query := `INSERT INTO ledger_entries (id, transaction_id, wallet_id, amount, entry_type, reference_id,
		currency, original_amount, original_currency, fx_rate, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8::numeric, $9, $10::numeric, $11)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.TransactionID, e.WalletID, e.Amount.String(), string(e.Type), e.ReferenceID,
		e.Currency, optionalDecimal(e.OriginalAmount), e.OriginalCurrency, optionalDecimal(e.FXRate),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ListByReference returns every entry of one game or withdrawal in insertion order.
func (r *LedgerRepo) ListByReference(ctx context.Context, tx pgx.Tx, referenceID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE reference_id = $1 ORDER BY created_at, transaction_id`

	rows, err := pick(r.pool, tx).Query(ctx, query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by reference: %w", err)
	}
	return collectEntries(rows)
}

// ExistsByReference reports whether an entry of the given type exists for the reference.
func (r *LedgerRepo) ExistsByReference(ctx context.Context, tx pgx.Tx, referenceID string, entryType domain.LedgerEntryType) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE reference_id = $1 AND entry_type = $2)`

	var exists bool
	if err := pick(r.pool, tx).QueryRow(ctx, query, referenceID, string(entryType)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check ledger entry exists: %w", err)
	}
	return exists, nil
}

// ListByWallet returns a wallet's full history for reconciliation.
func (r *LedgerRepo) ListByWallet(ctx context.Context, walletID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE wallet_id = $1 ORDER BY created_at, transaction_id`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by wallet: %w", err)
	}
	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e                      domain.LedgerEntry
			entryType, amount      string
			originalAmount, fxRate *string
		)
		if err := rows.Scan(
			&e.ID, &e.TransactionID, &e.WalletID, &amount, &entryType, &e.ReferenceID, &e.Currency,
			&originalAmount, &e.OriginalCurrency, &fxRate, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Type = domain.LedgerEntryType(entryType)

		var err error
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse ledger amount: %w", err)
		}
		if e.OriginalAmount, err = parseOptionalDecimal(originalAmount); err != nil {
			return nil, fmt.Errorf("parse original amount: %w", err)
		}
		if e.FXRate, err = parseOptionalDecimal(fxRate); err != nil {
			return nil, fmt.Errorf("parse fx rate: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

func optionalDecimal(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseOptionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
