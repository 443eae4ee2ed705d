package service

import (
	"context"
	"testing"
	"time"

	"wager-settlement/internal/adapter/storage/memory"
	redisstore "wager-settlement/internal/adapter/storage/redis"
	"wager-settlement/internal/core/domain"
	"wager-settlement/internal/core/ports"
	"wager-settlement/internal/core/ports/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const systemUser = "system"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testEnv wires the real services over the memory store and miniredis.
type testEnv struct {
	store    *memory.Store
	mr       *miniredis.Miniredis
	provider *mocks.MockPayoutProvider
	wallets  *WalletServiceImpl
	games    *GameLifecycle
}

func newTestEnv(t *testing.T, withdrawLimit int) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memory.New()
	provider := mocks.NewMockPayoutProvider(ctrl)
	velocity := NewVelocityGuard(redisstore.NewVelocityStore(client), map[string]int{ActionWithdrawal: withdrawLimit}, 0, zerolog.Nop())
	wallets := NewWalletService(
		store.Wallets(), store.Ledger(), store.Webhooks(), store,
		velocity, provider, redisstore.NewDedupCache(client),
		WalletSettings{Currency: "USD", SystemUserID: systemUser, CommissionRate: d("0.10"), DedupTTL: time.Hour},
		zerolog.Nop(),
	)
	games := NewGameLifecycle(store.Games(), wallets, store,
		GameSettings{TTL: 5 * time.Minute, NodeID: "node-1", HouseEdge: d("0.01"), SystemUserID: systemUser},
		zerolog.Nop(),
	)
	return &testEnv{store: store, mr: mr, provider: provider, wallets: wallets, games: games}
}

func (e *testEnv) fund(t *testing.T, userID, amount string) {
	t.Helper()
	_, err := e.wallets.ProcessDeposit(context.Background(), ports.DepositRequest{
		ProviderReference: "seed-" + uuid.NewString(),
		Provider:          "sandbox",
		UserID:            userID,
		Amount:            d(amount),
		Currency:          "USD",
	})
	require.NoError(t, err)
}

func (e *testEnv) assertBalance(t *testing.T, userID, available, locked string) {
	t.Helper()
	b, err := e.wallets.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, d(available).Equal(b.Available), "%s available: want %s, got %s", userID, available, b.Available)
	assert.True(t, d(locked).Equal(b.Locked), "%s locked: want %s, got %s", userID, locked, b.Locked)
}

// assertReconciled checks every wallet against its ledger, that all money held
// equals deposits less withdrawals net of compensating refunds, and that
// settlement entries of ref neither create nor destroy money.
func (e *testEnv) assertReconciled(t *testing.T, refs ...string) {
	t.Helper()
	ctx := context.Background()
	held := decimal.Zero
	for _, w := range e.store.Wallets().List(ctx) {
		rep, err := e.wallets.Reconcile(ctx, w.UserID)
		require.NoError(t, err)
		assert.True(t, rep.Balanced, "wallet %s does not match its ledger", w.UserID)
		held = held.Add(w.Total())
	}

	ledger := e.store.Ledger().List(ctx)
	external := make(map[string]bool)
	for _, entry := range ledger {
		if entry.Type == domain.LedgerDeposit || entry.Type == domain.LedgerWithdrawal {
			external[entry.ReferenceID] = true
		}
	}
	inflow := decimal.Zero
	for _, entry := range ledger {
		if external[entry.ReferenceID] {
			inflow = inflow.Add(entry.Amount)
		}
	}
	assert.True(t, held.Equal(inflow), "wallets hold %s but deposits net of withdrawals are %s", held, inflow)

	for _, ref := range refs {
		var byRef []domain.LedgerEntry
		for _, entry := range e.store.Ledger().List(ctx) {
			if entry.ReferenceID == ref {
				byRef = append(byRef, entry)
			}
		}
		a, l := domain.ReplayLedger(byRef)
		assert.True(t, a.Add(l).IsZero(), "entries of %s change total money by %s", ref, a.Add(l))
	}
}

func (e *testEnv) versions(t *testing.T, userIDs ...string) map[string]int64 {
	t.Helper()
	out := make(map[string]int64, len(userIDs))
	for _, id := range userIDs {
		w, err := e.store.Wallets().GetByUserID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, w, id)
		out[id] = w.Version
	}
	return out
}

func (e *testEnv) succeedTransfers(times int) {
	e.provider.EXPECT().Transfer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
			return &ports.TransferResult{ProviderReference: "prov-" + req.WithdrawalID, Status: ports.TransferSucceeded}, nil
		}).Times(times)
}
