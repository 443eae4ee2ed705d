package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"wager-settlement/internal/core/domain"
	"wager-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// --- Wallets ---

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct{ s *Store }

func (r *WalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.get(userID), nil
}

func (r *WalletRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	if _, err := r.s.own(tx); err != nil {
		return nil, err
	}
	return r.get(userID), nil
}

func (r *WalletRepo) CreateIfMissing(ctx context.Context, tx pgx.Tx, userID, currency string) (*domain.Wallet, error) {
	t, err := r.s.own(tx)
	if err != nil {
		return nil, err
	}
	if _, ok := r.s.wallets[userID]; !ok {
		r.s.wallets[userID] = domain.NewWallet(userID, currency, time.Now().UTC())
		t.record(func() { delete(r.s.wallets, userID) })
	}
	return r.get(userID), nil
}

func (r *WalletRepo) ApplyDelta(ctx context.Context, tx pgx.Tx, userID string, expectedVersion int64, dAvailable, dLocked decimal.Decimal) (bool, error) {
	t, err := r.s.own(tx)
	if err != nil {
		return false, err
	}
	w, ok := r.s.wallets[userID]
	if !ok || w.Version != expectedVersion {
		return false, nil
	}
	available := w.AvailableBalance.Add(dAvailable)
	locked := w.LockedBalance.Add(dLocked)
	if available.IsNegative() || locked.IsNegative() {
		return false, nil
	}

	prev := *w
	w.AvailableBalance = domain.RoundMoney(available)
	w.LockedBalance = domain.RoundMoney(locked)
	w.Version++
	w.UpdatedAt = time.Now().UTC()
	t.record(func() { *w = prev })
	return true, nil
}

// List returns every wallet ordered by user id.
func (r *WalletRepo) List(ctx context.Context) []domain.Wallet {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Wallet, 0, len(r.s.wallets))
	for _, w := range r.s.wallets {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (r *WalletRepo) get(userID string) *domain.Wallet {
	w, ok := r.s.wallets[userID]
	if !ok {
		return nil
	}
	cp := *w
	return &cp
}

// --- Ledger ---

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct{ s *Store }

func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	t, err := r.s.own(tx)
	if err != nil {
		return err
	}
	if !e.Type.Valid() {
		return fmt.Errorf("insert ledger entry: unknown entry type %q", e.Type)
	}
	if _, ok := r.s.wallets[e.WalletID]; !ok {
		return fmt.Errorf("insert ledger entry: wallet %s does not exist", e.WalletID)
	}
	if _, dup := r.s.txIDs[e.TransactionID]; dup {
		return fmt.Errorf("insert ledger entry: duplicate transaction id %s", e.TransactionID)
	}
	n := len(r.s.ledger)
	r.s.ledger = append(r.s.ledger, *e)
	r.s.txIDs[e.TransactionID] = struct{}{}
	t.record(func() {
		r.s.ledger = r.s.ledger[:n]
		delete(r.s.txIDs, e.TransactionID)
	})
	return nil
}

func (r *LedgerRepo) ListByReference(ctx context.Context, tx pgx.Tx, referenceID string) ([]domain.LedgerEntry, error) {
	unlock, err := r.s.read(tx)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return r.filter(func(e domain.LedgerEntry) bool { return e.ReferenceID == referenceID }), nil
}

func (r *LedgerRepo) ExistsByReference(ctx context.Context, tx pgx.Tx, referenceID string, entryType domain.LedgerEntryType) (bool, error) {
	unlock, err := r.s.read(tx)
	if err != nil {
		return false, err
	}
	defer unlock()
	return slices.ContainsFunc(r.s.ledger, func(e domain.LedgerEntry) bool {
		return e.ReferenceID == referenceID && e.Type == entryType
	}), nil
}

func (r *LedgerRepo) ListByWallet(ctx context.Context, walletID string) ([]domain.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.filter(func(e domain.LedgerEntry) bool { return e.WalletID == walletID }), nil
}

// List returns the whole ledger in append order.
func (r *LedgerRepo) List(ctx context.Context) []domain.LedgerEntry {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.ledger)
}

func (r *LedgerRepo) filter(keep func(domain.LedgerEntry) bool) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	for _, e := range r.s.ledger {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// read takes the read lock unless tx already holds the store.
func (s *Store) read(tx pgx.Tx) (func(), error) {
	if tx != nil {
		if _, err := s.own(tx); err != nil {
			return nil, err
		}
		return func() {}, nil
	}
	s.mu.RLock()
	return s.mu.RUnlock, nil
}

// --- Processed webhooks ---

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct{ s *Store }

func (r *WebhookRepo) Insert(ctx context.Context, tx pgx.Tx, w *domain.ProcessedWebhook) (bool, error) {
	t, err := r.s.own(tx)
	if err != nil {
		return false, err
	}
	if _, ok := r.s.webhooks[w.ProviderReference]; ok {
		return false, nil
	}
	r.s.webhooks[w.ProviderReference] = *w
	t.record(func() { delete(r.s.webhooks, w.ProviderReference) })
	return true, nil
}

func (r *WebhookRepo) Exists(ctx context.Context, providerReference string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.webhooks[providerReference]
	return ok, nil
}

// --- Games ---

// GameRepo implements ports.GameRepository.
type GameRepo struct{ s *Store }

func (r *GameRepo) Create(ctx context.Context, tx pgx.Tx, g *domain.Game) error {
	t, err := r.s.own(tx)
	if err != nil {
		return err
	}
	if _, ok := r.s.games[g.ID]; ok {
		return fmt.Errorf("insert game: duplicate id %s", g.ID)
	}
	r.s.games[g.ID] = cloneGame(g)
	t.record(func() { delete(r.s.games, g.ID) })
	return nil
}

func (r *GameRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.games[id]
	if !ok {
		return nil, nil
	}
	return cloneGame(g), nil
}

func (r *GameRepo) Transition(ctx context.Context, tx pgx.Tx, tr ports.GameTransition) (bool, error) {
	t, err := r.s.own(tx)
	if err != nil {
		return false, err
	}
	g, ok := r.s.games[tr.GameID]
	if !ok || g.Version != tr.ExpectedVersion || g.Status != domain.GameStatusActive {
		return false, nil
	}
	prev := cloneGame(g)
	g.Status = tr.To
	g.WinnerID = tr.WinnerID
	g.CashoutAt = tr.CashoutAt
	g.Version++
	g.UpdatedAt = time.Now().UTC()
	t.record(func() { *g = *prev })
	return true, nil
}

func (r *GameRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.Game, error) {
	return r.list(func(g *domain.Game) bool { return g.IsExpired(now) }, limit), nil
}

func (r *GameRepo) ListActiveByNode(ctx context.Context, nodeID string) ([]domain.Game, error) {
	return r.list(func(g *domain.Game) bool {
		return g.Status == domain.GameStatusActive && g.NodeID == nodeID
	}, 0), nil
}

func (r *GameRepo) list(keep func(*domain.Game) bool, limit int) []domain.Game {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Game
	for _, g := range r.s.games {
		if keep(g) {
			out = append(out, *cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func cloneGame(g *domain.Game) *domain.Game {
	cp := *g
	cp.Players = slices.Clone(g.Players)
	return &cp
}
