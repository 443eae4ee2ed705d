package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wager-settlement/internal/core/ports"
	"wager-settlement/internal/metrics"
	"wager-settlement/pkg/apperror"

	"github.com/rs/zerolog"
)

// VelocityGuardImpl implements ports.VelocityGuard over a shared counter store.
// Every attempt is counted, successful or not.
type VelocityGuardImpl struct {
	store  ports.VelocityStore
	limits map[string]int
	window time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewVelocityGuard creates a guard. A zero window counts per UTC calendar day.
// Actions without a positive limit are not guarded.
func NewVelocityGuard(store ports.VelocityStore, limits map[string]int, window time.Duration, log zerolog.Logger) *VelocityGuardImpl {
	normalized := make(map[string]int, len(limits))
	for action, limit := range limits {
		normalized[strings.ToLower(action)] = limit
	}
	return &VelocityGuardImpl{
		store:  store,
		limits: normalized,
		window: window,
		now:    time.Now,
		log:    log,
	}
}

// CheckAndRecord counts the attempt and rejects it when the window already
// held limit attempts. Store failures reject the attempt.
func (g *VelocityGuardImpl) CheckAndRecord(ctx context.Context, userID, action string) error {
	action = strings.ToLower(action)
	limit := g.limits[action]
	if limit <= 0 {
		return nil
	}

	key, expireAt := g.windowKey(action, userID, g.now().UTC())
	count, err := g.store.Increment(ctx, key, expireAt)
	if err != nil {
		g.log.Error().Err(err).Str("user_id", userID).Str("action", action).Msg("velocity store unavailable, rejecting attempt")
		return apperror.InternalError(fmt.Errorf("velocity check: %w", err))
	}
	if count > int64(limit) {
		metrics.RecordVelocityRejection(action)
		g.log.Warn().
			Str("user_id", userID).
			Str("action", action).
			Int64("attempts", count).
			Int("limit", limit).
			Msg("velocity limit exceeded")
		return apperror.ErrFraudLimitExceeded(action)
	}
	return nil
}

// windowKey returns the counter key and its expiry for the window containing now.
func (g *VelocityGuardImpl) windowKey(action, userID string, now time.Time) (string, time.Time) {
	if g.window <= 0 {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return action + ":" + userID + ":" + day.Format("20060102"), day.AddDate(0, 0, 1)
	}
	start := now.Truncate(g.window)
	return action + ":" + userID + ":" + strconv.FormatInt(start.Unix(), 10), start.Add(g.window)
}
