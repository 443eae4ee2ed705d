package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wager-settlement/internal/core/domain"
	"wager-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const gameColumns = `id, mode, stake::text, status, players, winner_id, crash_point::text, cashout_at::text,
		node_id, expires_at, version, created_at, updated_at`

// GameRepo implements ports.GameRepository.
type GameRepo struct {
	pool Pool
}

// NewGameRepo creates a new GameRepo.
func NewGameRepo(pool Pool) *GameRepo {
	return &GameRepo{pool: pool}
}

// Create inserts a new ACTIVE game within a database transaction.
func (r *GameRepo) Create(ctx context.Context, tx pgx.Tx, g *domain.Game) error {
	query := `INSERT INTO games (id, mode, stake, status, players, winner_id, crash_point, cashout_at,
		node_id, expires_at, version, created_at, updated_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7::numeric, $8::numeric, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		g.ID, string(g.Mode), g.Stake.String(), string(g.Status), g.Players, g.WinnerID,
		optionalDecimal(g.CrashPoint), optionalDecimal(g.CashoutAt),
		g.NodeID, g.ExpiresAt, g.Version, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// GetByID fetches a game by UUID. Returns (nil, nil) when absent.
func (r *GameRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	g, err := scanGame(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get game by id: %w", err)
	}
	return g, nil
}

// Transition performs the ACTIVE -> terminal compare-and-swap.
func (r *GameRepo) Transition(ctx context.Context, tx pgx.Tx, t ports.GameTransition) (bool, error) {
	query := `UPDATE games
		SET status = $3, winner_id = $4, cashout_at = $5::numeric, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND status = 'ACTIVE'`

	tag, err := tx.Exec(ctx, query,
		t.GameID, t.ExpectedVersion, string(t.To), t.WinnerID, optionalDecimal(t.CashoutAt),
	)
	if err != nil {
		return false, fmt.Errorf("transition game: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListExpired returns ACTIVE games whose deadline passed, oldest first.
func (r *GameRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games
		WHERE status = 'ACTIVE' AND expires_at < $1
		ORDER BY expires_at
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired games: %w", err)
	}
	return collectGames(rows)
}

// ListActiveByNode returns ACTIVE games owned by a settlement node.
func (r *GameRepo) ListActiveByNode(ctx context.Context, nodeID string) ([]domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE status = 'ACTIVE' AND node_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, nodeID)
	if err != nil {
		return nil, fmt.Errorf("list active games by node: %w", err)
	}
	return collectGames(rows)
}

func collectGames(rows pgx.Rows) ([]domain.Game, error) {
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var (
		g                     domain.Game
		mode, status, stake   string
		crashPoint, cashoutAt *string
	)
	if err := row.Scan(
		&g.ID, &mode, &stake, &status, &g.Players, &g.WinnerID, &crashPoint, &cashoutAt,
		&g.NodeID, &g.ExpiresAt, &g.Version, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	g.Mode = domain.GameMode(mode)
	g.Status = domain.GameStatus(status)

	var err error
	if g.Stake, err = decimal.NewFromString(stake); err != nil {
		return nil, fmt.Errorf("parse stake: %w", err)
	}
	if g.CrashPoint, err = parseOptionalDecimal(crashPoint); err != nil {
		return nil, fmt.Errorf("parse crash point: %w", err)
	}
	if g.CashoutAt, err = parseOptionalDecimal(cashoutAt); err != nil {
		return nil, fmt.Errorf("parse cashout: %w", err)
	}
	return &g, nil
}
