package postgres

import (
	"context"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "migrations/000001_init_schema.up.sql")
	assert.Contains(t, files, "migrations/000001_init_schema.down.sql")

	src, err := iofs.New(migrationFS, "migrations")
	require.NoError(t, err)
	defer src.Close() //nolint:errcheck

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestRunMigrations_EmptyURL(t *testing.T) {
	err := RunMigrations("", zerolog.Nop())
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("SELECT 1").WillReturnResult(pgxmock.NewResult("SELECT", 1))

	hc := NewHealthCheck(mock)
	assert.Equal(t, "postgresql", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_Begin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := NewTransactor(mock).Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
