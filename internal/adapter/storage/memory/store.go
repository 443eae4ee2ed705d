// Package memory is a transactional in-process store implementing the
// repository ports. It backs local runs (storage.driver=memory) and the
// service tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"wager-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errNoTx = errors.New("memory: operation requires an open transaction from this store")

// Store holds all rows. A transaction owns the write lock from Begin until
// Commit or Rollback, so transactions are serializable.
type Store struct {
	mu       sync.RWMutex
	wallets  map[string]*domain.Wallet
	ledger   []domain.LedgerEntry
	txIDs    map[string]struct{}
	webhooks map[string]domain.ProcessedWebhook
	games    map[uuid.UUID]*domain.Game
}

// New creates an empty store.
func New() *Store {
	return &Store{
		wallets:  make(map[string]*domain.Wallet),
		txIDs:    make(map[string]struct{}),
		webhooks: make(map[string]domain.ProcessedWebhook),
		games:    make(map[uuid.UUID]*domain.Game),
	}
}

// Begin implements ports.DBTransactor.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &Tx{store: s}, nil
}

// Wallets returns the wallet repository view.
func (s *Store) Wallets() *WalletRepo { return &WalletRepo{s: s} }

// Ledger returns the ledger repository view.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s: s} }

// Webhooks returns the processed-webhook repository view.
func (s *Store) Webhooks() *WebhookRepo { return &WebhookRepo{s: s} }

// Games returns the game repository view.
func (s *Store) Games() *GameRepo { return &GameRepo{s: s} }

// Ping implements ports.HealthChecker.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }

// own checks that tx is an open transaction of this store.
func (s *Store) own(tx pgx.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s || t.done {
		return nil, errNoTx
	}
	return t, nil
}

// Tx is an in-memory transaction. Writes apply immediately and are undone on Rollback.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

func (t *Tx) record(fn func()) {
	t.undo = append(t.undo, fn)
}

// Commit keeps all writes and releases the store.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// Rollback reverts all writes in reverse order and releases the store.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// Begin on an open transaction returns the same transaction; savepoints are not supported.
func (t *Tx) Begin(ctx context.Context) (pgx.Tx, error) {
	if t.done {
		return nil, pgx.ErrTxClosed
	}
	return t, nil
}

func (t *Tx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.ErrUnsupported
}
func (t *Tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *Tx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *Tx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.ErrUnsupported
}
func (t *Tx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), errors.ErrUnsupported
}
func (t *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.ErrUnsupported
}
func (t *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *Tx) Conn() *pgx.Conn                                               { return nil }
