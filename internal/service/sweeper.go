package service

import (
	"context"
	"sync"
	"time"

	"wager-settlement/internal/core/domain"
	"wager-settlement/internal/core/ports"
	"wager-settlement/internal/metrics"
	"wager-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxSweepBackoffShift caps the retry delay of a failing game at 64 intervals.
const maxSweepBackoffShift = 6

// sweepFailure tracks a game whose cancellation keeps failing.
type sweepFailure struct {
	attempts int
	retryAt  time.Time
}

// Sweeper cancels ACTIVE games whose deadline has passed. It goes through the
// same compare-and-swap as live resolution, so racing a player action is safe.
// Games whose cancellation fails are retried with exponential backoff and do
// not hold back the rest of the backlog.
type Sweeper struct {
	games     ports.GameRepository
	lifecycle ports.GameService
	interval  time.Duration
	batchSize int
	now       func() time.Time
	log       zerolog.Logger

	mu       sync.Mutex
	failures map[uuid.UUID]sweepFailure
}

// NewSweeper creates a new Sweeper.
func NewSweeper(games ports.GameRepository, lifecycle ports.GameService, interval time.Duration, batchSize int, log zerolog.Logger) *Sweeper {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Sweeper{
		games:     games,
		lifecycle: lifecycle,
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
		log:       log,
		failures:  make(map[uuid.UUID]sweepFailure),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("sweeper started")
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.SweepOnce(ctx); err != nil {
		s.log.Error().Err(err).Msg("sweep failed")
	}
}

// SweepOnce cancels up to one batch of expired games and returns how many it
// cancelled. Games still backing off from a failure are skipped, and the listing
// is widened by their number so they cannot crowd out later deadlines.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	limit := s.batchSize + len(s.failures)
	expired, err := s.games.ListExpired(ctx, now, limit)
	if err != nil {
		return 0, apperror.ErrDatabaseError(err)
	}
	if len(expired) < limit {
		s.forgetResolved(expired)
	}

	attempted, cancelled := 0, 0
	for _, g := range expired {
		if attempted == s.batchSize {
			break
		}
		if f, ok := s.failures[g.ID]; ok && now.Before(f.retryAt) {
			continue
		}
		attempted++

		res, err := s.lifecycle.Cancel(ctx, g.ID, domain.CancelReasonTimeout)
		if err != nil {
			f := s.failures[g.ID]
			f.attempts++
			f.retryAt = now.Add(s.interval << min(f.attempts, maxSweepBackoffShift))
			s.failures[g.ID] = f
			s.log.Error().Err(err).
				Str("game_id", g.ID.String()).
				Int("attempts", f.attempts).
				Time("retry_at", f.retryAt).
				Msg("failed to cancel expired game")
			continue
		}
		delete(s.failures, g.ID)
		if res.Applied {
			cancelled++
		}
	}

	if cancelled > 0 {
		metrics.RecordSweeperCancelled(cancelled)
		s.log.Info().Int("cancelled", cancelled).Int("expired", len(expired)).Msg("expired games cancelled")
	}
	return cancelled, nil
}

// forgetResolved drops failure records of games no longer listed as expired.
// Callers hold s.mu and pass a complete listing.
func (s *Sweeper) forgetResolved(expired []domain.Game) {
	listed := make(map[uuid.UUID]struct{}, len(expired))
	for _, g := range expired {
		listed[g.ID] = struct{}{}
	}
	for id := range s.failures {
		if _, ok := listed[id]; !ok {
			delete(s.failures, id)
		}
	}
}
