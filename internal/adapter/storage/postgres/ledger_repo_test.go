package postgres

import (
	"context"
	"testing"
	"time"

	"wager-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerCols() []string {
	return []string{"id", "transaction_id", "wallet_id", "amount", "entry_type", "reference_id", "currency",
		"original_amount", "original_currency", "fx_rate", "created_at"}
}

func strPtr(s string) *string { return &s }

func TestLedgerRepo_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)
	e := domain.NewLedgerEntry("alice", domain.LedgerDeposit, decimal.RequireFromString("92"), "dep-1", "USD", now)
	orig := decimal.RequireFromString("100")
	rate := decimal.RequireFromString("0.92")
	e.OriginalAmount = &orig
	e.OriginalCurrency = strPtr("EUR")
	e.FXRate = &rate

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs(e.ID, "dep-1:DEPOSIT:alice", "alice", "92", "DEPOSIT", "dep-1", "USD",
			strPtr("100"), strPtr("EUR"), strPtr("0.92"), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Append(context.Background(), tx, &e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_Append_RejectsUnknownType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	e := domain.NewLedgerEntry("alice", domain.LedgerEntryType("BONUS"), decimal.RequireFromString("5"), "promo", "USD", time.Now())

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Append(context.Background(), tx, &e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entry type")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_ListByReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows(ledgerCols()).
		AddRow(uuid.New(), "g1:STAKE_LOCK:alice", "alice", "-10.0000", "STAKE_LOCK", "g1", "USD",
			(*string)(nil), (*string)(nil), (*string)(nil), now).
		AddRow(uuid.New(), "g1:STAKE_LOCK:bob", "bob", "-10.0000", "STAKE_LOCK", "g1", "USD",
			(*string)(nil), (*string)(nil), (*string)(nil), now)

	mock.ExpectQuery("SELECT .+ FROM ledger_entries WHERE reference_id").
		WithArgs("g1").
		WillReturnRows(rows)

	entries, err := repo.ListByReference(context.Background(), nil, "g1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.LedgerStakeLock, entries[0].Type)
	assert.Equal(t, "bob", entries[1].WalletID)
	assert.True(t, decimal.NewFromInt(-10).Equal(entries[1].Amount))
	assert.Nil(t, entries[0].FXRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_ListByWallet_ParsesFXFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows(ledgerCols()).
		AddRow(uuid.New(), "dep-1:DEPOSIT:alice", "alice", "92.0000", "DEPOSIT", "dep-1", "USD",
			strPtr("100.0000"), strPtr("EUR"), strPtr("0.92000000"), now)

	mock.ExpectQuery("SELECT .+ FROM ledger_entries WHERE wallet_id").
		WithArgs("alice").
		WillReturnRows(rows)

	entries, err := repo.ListByWallet(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].OriginalAmount)
	assert.True(t, decimal.NewFromInt(100).Equal(*entries[0].OriginalAmount))
	require.NotNil(t, entries[0].FXRate)
	assert.True(t, decimal.RequireFromString("0.92").Equal(*entries[0].FXRate))
	assert.Equal(t, "EUR", *entries[0].OriginalCurrency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_ExistsByReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("g1", "PAYOUT").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	exists, err := repo.ExistsByReference(context.Background(), tx, "g1", domain.LedgerPayout)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
