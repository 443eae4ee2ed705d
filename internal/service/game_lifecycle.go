package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"wager-settlement/internal/core/domain"
	"wager-settlement/internal/core/ports"
	"wager-settlement/internal/metrics"
	"wager-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxCrashPoint caps the multiplier a house game can reach.
var maxCrashPoint = decimal.NewFromInt(10000)

// GameSettings configures game creation and house games.
type GameSettings struct {
	TTL          time.Duration
	NodeID       string
	HouseEdge    decimal.Decimal
	SystemUserID string
}

// GameLifecycle implements ports.GameService. Every terminal transition is a
// version compare-and-swap committed together with its money movement.
type GameLifecycle struct {
	games      ports.GameRepository
	wallets    ports.WalletService
	transactor ports.DBTransactor
	settings   GameSettings
	random     io.Reader
	now        func() time.Time
	log        zerolog.Logger
}

// NewGameLifecycle creates a new GameLifecycle.
func NewGameLifecycle(
	games ports.GameRepository,
	wallets ports.WalletService,
	transactor ports.DBTransactor,
	settings GameSettings,
	log zerolog.Logger,
) *GameLifecycle {
	return &GameLifecycle{
		games:      games,
		wallets:    wallets,
		transactor: transactor,
		settings:   settings,
		random:     rand.Reader,
		now:        time.Now,
		log:        log,
	}
}

// Create validates the wager, inserts the game and locks every stake in one transaction.
func (s *GameLifecycle) Create(ctx context.Context, mode domain.GameMode, stake decimal.Decimal, players []string) (*domain.Game, error) {
	if !mode.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown game mode %q", mode))
	}
	if len(players) != mode.PlayerCount() {
		return nil, apperror.Validation(fmt.Sprintf("%s requires %d player(s)", mode, mode.PlayerCount()))
	}
	if err := validatePlayers(players); err != nil {
		return nil, err
	}
	for _, p := range players {
		if p == s.settings.SystemUserID {
			return nil, apperror.Validation("the house cannot take a seat")
		}
	}
	if err := validateAmount(stake, "stake"); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	g := &domain.Game{
		ID:        uuid.New(),
		Mode:      mode,
		Stake:     stake,
		Status:    domain.GameStatusActive,
		Players:   append([]string(nil), players...),
		NodeID:    s.settings.NodeID,
		ExpiresAt: now.Add(s.settings.TTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mode.IsHouse() {
		cp, err := s.drawCrashPoint()
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("draw crash point: %w", err))
		}
		g.CrashPoint = &cp
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.games.Create(ctx, dbTx, g); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if err := s.wallets.LockFundsTx(ctx, dbTx, g.Players, stake, g.ID.String()); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("game_id", g.ID.String()).
		Str("mode", string(mode)).
		Strs("players", g.Players).
		Str("stake", stake.String()).
		Msg("game created")
	return g, nil
}

// Complete resolves a player-vs-player game in favour of winnerID.
func (s *GameLifecycle) Complete(ctx context.Context, gameID uuid.UUID, winnerID string) (*ports.Resolution, error) {
	g, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Mode.IsHouse() {
		return nil, apperror.ErrInvalidGameState("house games resolve through a crash outcome")
	}
	if !g.HasPlayer(winnerID) {
		return nil, apperror.Validation("winner is not a player of this game")
	}
	if g.Status.IsTerminal() {
		return &ports.Resolution{Game: g, Applied: false}, nil
	}

	t := ports.GameTransition{GameID: g.ID, ExpectedVersion: g.Version, To: domain.GameStatusCompleted, WinnerID: &winnerID}
	return s.resolve(ctx, g, t, func(tx pgx.Tx) error {
		_, err := s.wallets.PayoutTx(ctx, tx, g.ID.String(), winnerID, g.Opponents(winnerID), g.Pot())
		return err
	})
}

// ResolveCrash settles a house game. The player wins stake × cashoutAt when
// 1 < cashoutAt ≤ crash point; otherwise the house keeps the stake. A nil
// cashoutAt means the player never cashed out.
func (s *GameLifecycle) ResolveCrash(ctx context.Context, gameID uuid.UUID, cashoutAt *decimal.Decimal) (*ports.Resolution, error) {
	if cashoutAt != nil && cashoutAt.IsNegative() {
		return nil, apperror.Validation("cashout multiplier must not be negative")
	}
	g, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !g.Mode.IsHouse() {
		return nil, apperror.ErrInvalidGameState("only house games have a crash outcome")
	}
	if g.Status.IsTerminal() {
		return &ports.Resolution{Game: g, Applied: false}, nil
	}
	if g.CrashPoint == nil {
		return nil, apperror.ErrInvalidGameState("house game has no crash point")
	}

	player := g.Players[0]
	winner := s.settings.SystemUserID
	payout := decimal.Zero
	if cashoutAt != nil && cashoutAt.GreaterThan(decimal.NewFromInt(1)) && cashoutAt.LessThanOrEqual(*g.CrashPoint) {
		winner = player
		payout = domain.RoundMoney(g.Stake.Mul(*cashoutAt))
	}

	t := ports.GameTransition{
		GameID:          g.ID,
		ExpectedVersion: g.Version,
		To:              domain.GameStatusCompleted,
		WinnerID:        &winner,
		CashoutAt:       cashoutAt,
	}
	return s.resolve(ctx, g, t, func(tx pgx.Tx) error {
		_, err := s.wallets.SettleHouseTx(ctx, tx, g.ID.String(), player, payout)
		return err
	})
}

// Cancel moves an ACTIVE game to the cancelled status for reason and refunds every stake.
func (s *GameLifecycle) Cancel(ctx context.Context, gameID uuid.UUID, reason domain.CancelReason) (*ports.Resolution, error) {
	status, ok := reason.Status()
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unknown cancel reason %q", reason))
	}
	g, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status.IsTerminal() {
		return &ports.Resolution{Game: g, Applied: false}, nil
	}

	t := ports.GameTransition{GameID: g.ID, ExpectedVersion: g.Version, To: status}
	return s.resolve(ctx, g, t, func(tx pgx.Tx) error {
		_, err := s.wallets.RefundTx(ctx, tx, g.ID.String(), g.Players)
		return err
	})
}

// Get returns the client view of a game.
func (s *GameLifecycle) Get(ctx context.Context, gameID uuid.UUID) (*domain.GameView, error) {
	g, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	v := g.View()
	return &v, nil
}

// RecoverOrphaned cancels every ACTIVE game owned by this node. It runs at
// startup, when no game of the node can still be in play.
func (s *GameLifecycle) RecoverOrphaned(ctx context.Context) (int, error) {
	games, err := s.games.ListActiveByNode(ctx, s.settings.NodeID)
	if err != nil {
		return 0, apperror.ErrDatabaseError(err)
	}

	recovered := 0
	for _, g := range games {
		res, err := s.Cancel(ctx, g.ID, domain.CancelReasonCrash)
		if err != nil {
			s.log.Error().Err(err).Str("game_id", g.ID.String()).Msg("failed to recover orphaned game")
			continue
		}
		if res.Applied {
			recovered++
		}
	}
	if recovered > 0 {
		s.log.Warn().Int("games", recovered).Str("node_id", s.settings.NodeID).Msg("orphaned games cancelled")
	}
	return recovered, nil
}

// resolve runs one terminal transition. Any error or panic while applying it
// cancels the game with reason ERROR.
func (s *GameLifecycle) resolve(ctx context.Context, g *domain.Game, t ports.GameTransition, settle func(pgx.Tx) error) (res *ports.Resolution, err error) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = apperror.InternalError(fmt.Errorf("panic during resolution: %v", r))
			}
		}()
		res, err = s.applyTransition(ctx, g, t, settle)
	}()
	if err == nil || t.To == domain.GameStatusCancelledByError {
		return res, err
	}

	s.log.Error().Err(err).
		Str("game_id", g.ID.String()).
		Str("target_status", string(t.To)).
		Msg("resolution failed, cancelling game")
	if _, cerr := s.Cancel(ctx, g.ID, domain.CancelReasonError); cerr != nil {
		s.log.Error().Err(cerr).Str("game_id", g.ID.String()).Msg("failed to cancel game after resolution error")
	}
	return nil, err
}

func (s *GameLifecycle) applyTransition(ctx context.Context, g *domain.Game, t ports.GameTransition, settle func(pgx.Tx) error) (*ports.Resolution, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	applied, err := s.games.Transition(ctx, dbTx, t)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !applied {
		// Another path resolved the game first.
		if err := dbTx.Rollback(ctx); err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		current, err := s.load(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		return &ports.Resolution{Game: current, Applied: false}, nil
	}

	if err := settle(dbTx); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	resolved := *g
	resolved.Status = t.To
	resolved.WinnerID = t.WinnerID
	resolved.CashoutAt = t.CashoutAt
	resolved.Version = t.ExpectedVersion + 1
	resolved.UpdatedAt = s.now().UTC()

	metrics.RecordSettlement(string(g.Mode), string(t.To))
	s.log.Info().
		Str("game_id", g.ID.String()).
		Str("status", string(t.To)).
		Msg("game resolved")
	return &ports.Resolution{Game: &resolved, Applied: true}, nil
}

func (s *GameLifecycle) load(ctx context.Context, gameID uuid.UUID) (*domain.Game, error) {
	g, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if g == nil {
		return nil, apperror.ErrNotFound("game")
	}
	return g, nil
}

// drawCrashPoint samples (1-edge)/(1-r) for uniform r in [0,1), floored to
// two decimals and clamped to [1.00, maxCrashPoint].
func (s *GameLifecycle) drawCrashPoint() (decimal.Decimal, error) {
	var buf [8]byte
	if _, err := io.ReadFull(s.random, buf[:]); err != nil {
		return decimal.Zero, err
	}
	// r = n/2^53, so (1-edge)/(1-r) = (1-edge)*2^53/(2^53-n), floored exactly.
	n := binary.BigEndian.Uint64(buf[:]) >> 11
	scale := decimal.NewFromInt(1 << 53)
	one := decimal.NewFromInt(1)
	num := one.Sub(s.settings.HouseEdge).Mul(scale)
	cp, _ := num.QuoRem(scale.Sub(decimal.NewFromInt(int64(n))), 2)
	if cp.LessThan(one) {
		cp = one
	}
	if cp.GreaterThan(maxCrashPoint) {
		cp = maxCrashPoint
	}
	return cp, nil
}
