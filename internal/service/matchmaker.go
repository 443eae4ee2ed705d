package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"wager-settlement/internal/core/domain"
	"wager-settlement/internal/core/ports"
	"wager-settlement/internal/metrics"
	"wager-settlement/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MatchSettings configures pairing.
type MatchSettings struct {
	Brackets []domain.Bracket
	// InclusiveEdges makes a stake on a shared boundary eligible in both
	// adjacent brackets. Otherwise brackets are [min,max) and only the last is closed.
	InclusiveEdges bool
	StakePolicy    domain.StakePolicy
}

// queued is one waiting player and the queues it sits in. left is set when the
// player leaves while a pairing that includes them is being created.
type queued struct {
	entry domain.QueueEntry
	keys  []string
	left  bool
}

// Matchmaker implements ports.Matchmaker with in-process FIFO queues keyed by
// mode and stake bracket. Queue state is not durable; no money moves until a
// game is created. A user is either waiting (byUser), being paired (pairing)
// or absent.
type Matchmaker struct {
	mu       sync.Mutex
	queues   map[string][]*queued
	byUser   map[string]*queued
	pairing  map[string]*queued
	games    ports.GameService
	settings MatchSettings
	now      func() time.Time
	log      zerolog.Logger
}

// NewMatchmaker creates a new Matchmaker.
func NewMatchmaker(games ports.GameService, settings MatchSettings, log zerolog.Logger) *Matchmaker {
	if settings.StakePolicy == "" {
		settings.StakePolicy = domain.StakePolicyLower
	}
	return &Matchmaker{
		queues:   make(map[string][]*queued),
		byUser:   make(map[string]*queued),
		pairing:  make(map[string]*queued),
		games:    games,
		settings: settings,
		now:      time.Now,
		log:      log,
	}
}

// Enqueue pairs the player with the longest-waiting compatible opponent, or
// queues the player when there is none. It returns the created game on a match.
func (m *Matchmaker) Enqueue(ctx context.Context, req ports.EnqueueRequest) (*domain.Game, error) {
	if req.UserID == "" {
		return nil, apperror.Validation("user_id is required")
	}
	if !req.Mode.Valid() {
		return nil, apperror.Validation("unknown game mode")
	}
	if req.Mode.IsHouse() {
		return nil, apperror.Validation("house games are not matched")
	}
	if err := validateAmount(req.Stake, "stake"); err != nil {
		return nil, err
	}

	keys := m.queueKeys(req.Mode, req.Stake)
	if len(keys) == 0 {
		return nil, apperror.Validation("stake is outside every bracket")
	}
	me := &queued{
		entry: domain.QueueEntry{
			UserID:       req.UserID,
			ConnectionID: req.ConnectionID,
			Stake:        req.Stake,
			Mode:         req.Mode,
			EnqueuedAt:   m.now().UTC(),
		},
		keys: keys,
	}

	m.mu.Lock()
	if m.busy(req.UserID) {
		m.mu.Unlock()
		return nil, apperror.ErrAlreadyQueued(req.UserID)
	}
	partner, stake := m.findPartner(me)
	if partner == nil {
		m.add(me, false)
		m.mu.Unlock()
		m.log.Debug().Str("user_id", req.UserID).Strs("queues", keys).Msg("player queued")
		return nil, nil
	}
	m.remove(partner)
	m.pairing[partner.entry.UserID] = partner
	m.pairing[me.entry.UserID] = me
	m.mu.Unlock()

	// Game creation takes database locks; the queue lock is not held across it.
	players := []string{partner.entry.UserID, me.entry.UserID}
	g, err := m.create(ctx, req.Mode, stake, partner, me)
	if err != nil {
		return nil, err
	}

	m.log.Info().
		Str("game_id", g.ID.String()).
		Strs("players", players).
		Str("stake", stake.String()).
		Msg("players matched")
	return g, nil
}

// Dequeue removes the user from every queue. It reports whether the user was
// waiting or being paired. A user leaving mid-pairing is not put back in line
// if the game cannot be created.
func (m *Matchmaker) Dequeue(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if q, ok := m.pairing[userID]; ok {
		q.left = true
		return true
	}
	q, ok := m.byUser[userID]
	if !ok {
		return false
	}
	m.remove(q)
	return true
}

// Disconnect removes every entry registered by a dropped connection.
func (m *Matchmaker) Disconnect(connectionID string) int {
	if connectionID == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, q := range m.byUser {
		if q.entry.ConnectionID == connectionID {
			m.remove(q)
			removed++
		}
	}
	for _, q := range m.pairing {
		if q.entry.ConnectionID == connectionID && !q.left {
			q.left = true
			removed++
		}
	}
	return removed
}

// QueueDepth returns the number of waiting players per queue key.
func (m *Matchmaker) QueueDepth() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int, len(m.queues))
	for key, q := range m.queues {
		out[key] = len(q)
	}
	return out
}

// findPartner scans the player's queues oldest first. Callers hold m.mu.
func (m *Matchmaker) findPartner(me *queued) (*queued, decimal.Decimal) {
	var (
		best  *queued
		stake decimal.Decimal
	)
	for _, key := range me.keys {
		for _, other := range m.queues[key] {
			agreed, ok := m.settings.StakePolicy.Agree(other.entry.Stake, me.entry.Stake)
			if !ok {
				continue
			}
			if best == nil || other.entry.EnqueuedAt.Before(best.entry.EnqueuedAt) {
				best, stake = other, agreed
			}
			break
		}
	}
	return best, stake
}

// add appends the entry to its queues, or puts it back at the head. Callers hold m.mu.
func (m *Matchmaker) add(q *queued, front bool) {
	for _, key := range q.keys {
		if front {
			m.queues[key] = slices.Insert(m.queues[key], 0, q)
		} else {
			m.queues[key] = append(m.queues[key], q)
		}
		metrics.SetQueueDepth(key, len(m.queues[key]))
	}
	m.byUser[q.entry.UserID] = q
}

// remove drops the entry from its queues and the user index. Callers hold m.mu.
func (m *Matchmaker) remove(q *queued) {
	for _, key := range q.keys {
		m.queues[key] = slices.DeleteFunc(m.queues[key], func(o *queued) bool { return o == q })
		if len(m.queues[key]) == 0 {
			delete(m.queues, key)
		}
		metrics.SetQueueDepth(key, len(m.queues[key]))
	}
	delete(m.byUser, q.entry.UserID)
}

// busy reports whether the user is waiting or being paired. Callers hold m.mu.
func (m *Matchmaker) busy(userID string) bool {
	if _, ok := m.byUser[userID]; ok {
		return true
	}
	_, ok := m.pairing[userID]
	return ok
}

// create runs game creation for a pairing and always releases the pair, even
// when creation panics.
func (m *Matchmaker) create(ctx context.Context, mode domain.GameMode, stake decimal.Decimal, partner, me *queued) (g *domain.Game, err error) {
	defer func() { m.finishPairing(err, partner, me) }()
	return m.games.Create(ctx, mode, stake, []string{partner.entry.UserID, me.entry.UserID})
}

// finishPairing releases both players from the in-flight set and, when creation
// failed, re-queues the solvent one.
func (m *Matchmaker) finishPairing(err error, partner, me *queued) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pairing, partner.entry.UserID)
	delete(m.pairing, me.entry.UserID)
	if err != nil {
		m.requeueSolvent(err, partner, me)
	}
}

// requeueSolvent puts the player who could fund the game back in line when
// creation failed because the other one could not. Players who left while the
// game was being created stay out. Callers hold m.mu.
func (m *Matchmaker) requeueSolvent(err error, partner, me *queued) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeInsufficientFunds {
		return
	}

	var solvent *queued
	front := false
	switch appErr.Subject {
	case partner.entry.UserID:
		solvent = me
	case me.entry.UserID:
		solvent, front = partner, true
	default:
		return
	}

	if solvent.left {
		m.log.Info().Str("user_id", solvent.entry.UserID).Msg("solvent player left during pairing; not re-queued")
		return
	}
	m.add(solvent, front)
	m.log.Info().Str("user_id", solvent.entry.UserID).Str("insolvent", appErr.Subject).Msg("solvent player re-queued")
}

// queueKeys lists the queues a stake belongs to.
func (m *Matchmaker) queueKeys(mode domain.GameMode, stake decimal.Decimal) []string {
	var keys []string
	last := len(m.settings.Brackets) - 1
	for i, b := range m.settings.Brackets {
		if b.Contains(stake, m.settings.InclusiveEdges || i == last) {
			keys = append(keys, string(mode)+":"+b.Key())
		}
	}
	return keys
}
