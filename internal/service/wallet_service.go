package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
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

// ActionWithdrawal is the velocity-guarded action name for withdrawals.
const ActionWithdrawal = "withdrawal"

// withdrawAttempts bounds how often a withdrawal re-reads the wallet after losing a version race.
const withdrawAttempts = 2

// WalletSettings holds the money rules of the wallet service.
type WalletSettings struct {
	Currency       string
	SystemUserID   string
	CommissionRate decimal.Decimal
	DedupTTL       time.Duration
}

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo  ports.WalletRepository
	ledgerRepo  ports.LedgerRepository
	webhookRepo ports.WebhookRepository
	transactor  ports.DBTransactor
	velocity    ports.VelocityGuard
	provider    ports.PayoutProvider
	dedup       ports.DedupCache
	settings    WalletSettings
	log         zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	ledgerRepo ports.LedgerRepository,
	webhookRepo ports.WebhookRepository,
	transactor ports.DBTransactor,
	velocity ports.VelocityGuard,
	provider ports.PayoutProvider,
	dedup ports.DedupCache,
	settings WalletSettings,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo:  walletRepo,
		ledgerRepo:  ledgerRepo,
		webhookRepo: webhookRepo,
		transactor:  transactor,
		velocity:    velocity,
		provider:    provider,
		dedup:       dedup,
		settings:    settings,
		log:         log,
	}
}

// GetBalance returns the current balances without taking locks.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, userID string) (*ports.Balance, error) {
	w, err := s.loadWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.Balance{
		UserID:    w.UserID,
		Available: w.AvailableBalance,
		Locked:    w.LockedBalance,
		Total:     w.Total(),
		Currency:  w.Currency,
		Version:   w.Version,
	}, nil
}

// EnsureWallet provisions an empty wallet if the user has none.
func (s *WalletServiceImpl) EnsureWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, apperror.Validation("user_id is required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	w, err := s.walletRepo.CreateIfMissing(ctx, dbTx, userID, s.settings.Currency)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return w, nil
}

// LockFundsForMatch moves the stake of every player from available to locked, all or nothing.
func (s *WalletServiceImpl) LockFundsForMatch(ctx context.Context, playerIDs []string, stake decimal.Decimal, matchID string) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.LockFundsTx(ctx, dbTx, playerIDs, stake, matchID); err != nil {
		return err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// LockFundsTx locks stakes inside the caller's transaction. Wallets are locked in
// user id order so concurrent matches sharing a player cannot deadlock.
func (s *WalletServiceImpl) LockFundsTx(ctx context.Context, tx pgx.Tx, playerIDs []string, stake decimal.Decimal, matchID string) error {
	if matchID == "" {
		return apperror.Validation("match_id is required")
	}
	if err := validatePlayers(playerIDs); err != nil {
		return err
	}
	if err := validateAmount(stake, "stake"); err != nil {
		return err
	}

	locked, err := s.ledgerRepo.ExistsByReference(ctx, tx, matchID, domain.LedgerStakeLock)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if locked {
		return apperror.ErrInvalidGameState("stakes for this match are already locked")
	}

	now := time.Now().UTC()
	for _, playerID := range sortedUnique(playerIDs) {
		w, err := s.walletRepo.GetForUpdate(ctx, tx, playerID)
		if err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if w == nil || !w.CanCover(stake) {
			return apperror.ErrInsufficientFunds(playerID)
		}
		entry := domain.NewLedgerEntry(playerID, domain.LedgerStakeLock, stake.Neg(), matchID, w.Currency, now)
		if err := s.post(ctx, tx, w, &entry); err != nil {
			return err
		}
	}

	s.log.Info().
		Str("match_id", matchID).
		Strs("players", playerIDs).
		Str("stake", stake.String()).
		Msg("stakes locked")
	return nil
}

// ProcessPayout settles a match in its own transaction.
func (s *WalletServiceImpl) ProcessPayout(ctx context.Context, matchID, winnerID string, loserIDs []string, totalPot decimal.Decimal) (*ports.PayoutResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	res, err := s.PayoutTx(ctx, dbTx, matchID, winnerID, loserIDs, totalPot)
	if err != nil {
		return nil, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return res, nil
}

// PayoutTx releases every locked stake, credits the winner the pot minus
// commission and credits the commission to the system wallet. A match that
// already has a PAYOUT returns the recorded result.
func (s *WalletServiceImpl) PayoutTx(ctx context.Context, tx pgx.Tx, matchID, winnerID string, loserIDs []string, totalPot decimal.Decimal) (*ports.PayoutResult, error) {
	if matchID == "" || winnerID == "" {
		return nil, apperror.Validation("match_id and winner_id are required")
	}
	if len(loserIDs) == 0 {
		return nil, apperror.Validation("at least one loser is required")
	}
	if slices.Contains(loserIDs, winnerID) {
		return nil, apperror.Validation("winner cannot also be a loser")
	}
	participants := append([]string{winnerID}, loserIDs...)
	if err := validatePlayers(participants); err != nil {
		return nil, err
	}
	if err := validateAmount(totalPot, "total_pot"); err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListByReference(ctx, tx, matchID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if prior := s.priorPayout(matchID, entries); prior != nil {
		return prior, nil
	}
	if hasEntry(entries, domain.LedgerRefund) {
		return nil, apperror.ErrInvalidGameState("match stakes were already refunded")
	}

	stakes := lockedStakes(entries)
	if len(stakes) != len(participants) {
		return nil, apperror.ErrInvalidGameState("locked stakes do not match the participants")
	}
	sum := decimal.Zero
	for _, p := range participants {
		stake, ok := stakes[p]
		if !ok {
			return nil, apperror.ErrInvalidGameState(fmt.Sprintf("no locked stake for player %s", p))
		}
		sum = sum.Add(stake)
	}
	if !sum.Equal(totalPot) {
		return nil, apperror.Validation(fmt.Sprintf("total pot %s does not match locked stakes %s", totalPot, sum))
	}

	commission := domain.RoundMoney(totalPot.Mul(s.settings.CommissionRate))
	winnerAmount := totalPot.Sub(commission)

	everyone := append(slices.Clone(participants), s.settings.SystemUserID)
	wallets, err := s.lockWallets(ctx, tx, everyone)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	byWallet := make(map[string][]*domain.LedgerEntry, len(wallets))
	add := func(userID string, t domain.LedgerEntryType, amount decimal.Decimal) {
		e := domain.NewLedgerEntry(userID, t, amount, matchID, wallets[userID].Currency, now)
		byWallet[userID] = append(byWallet[userID], &e)
	}
	for _, p := range participants {
		add(p, domain.LedgerStakeUnlock, stakes[p].Neg())
	}
	add(winnerID, domain.LedgerPayout, winnerAmount)
	if commission.IsPositive() {
		add(s.settings.SystemUserID, domain.LedgerCommission, commission)
	}
	for _, userID := range sortedUnique(everyone) {
		if len(byWallet[userID]) == 0 {
			continue
		}
		if err := s.post(ctx, tx, wallets[userID], byWallet[userID]...); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("match_id", matchID).
		Str("winner_id", winnerID).
		Str("amount", winnerAmount.String()).
		Str("commission", commission.String()).
		Msg("match settled")

	return &ports.PayoutResult{
		MatchID:      matchID,
		WinnerID:     winnerID,
		WinnerAmount: winnerAmount,
		Commission:   commission,
		Stakes:       stakes,
	}, nil
}

// SettleHouseTx settles a single-player game against the system wallet. The
// player's stake goes to the house and the house pays the player payout.
func (s *WalletServiceImpl) SettleHouseTx(ctx context.Context, tx pgx.Tx, matchID, playerID string, payout decimal.Decimal) (*ports.PayoutResult, error) {
	if matchID == "" || playerID == "" {
		return nil, apperror.Validation("match_id and player_id are required")
	}
	if payout.IsNegative() {
		return nil, apperror.Validation("payout must not be negative")
	}
	payout = domain.RoundMoney(payout)

	entries, err := s.ledgerRepo.ListByReference(ctx, tx, matchID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if prior := s.priorPayout(matchID, entries); prior != nil {
		return prior, nil
	}
	if hasEntry(entries, domain.LedgerRefund) {
		return nil, apperror.ErrInvalidGameState("match stakes were already refunded")
	}
	stakes := lockedStakes(entries)
	stake, ok := stakes[playerID]
	if !ok || len(stakes) != 1 {
		return nil, apperror.ErrInvalidGameState(fmt.Sprintf("no locked stake for player %s", playerID))
	}

	wallets, err := s.lockWallets(ctx, tx, []string{playerID, s.settings.SystemUserID})
	if err != nil {
		return nil, err
	}
	player, system := wallets[playerID], wallets[s.settings.SystemUserID]

	now := time.Now().UTC()
	unlock := domain.NewLedgerEntry(playerID, domain.LedgerStakeUnlock, stake.Neg(), matchID, player.Currency, now)
	playerEntries := []*domain.LedgerEntry{&unlock}
	if payout.IsPositive() {
		win := domain.NewLedgerEntry(playerID, domain.LedgerPayout, payout, matchID, player.Currency, now)
		playerEntries = append(playerEntries, &win)
	}
	if err := s.post(ctx, tx, player, playerEntries...); err != nil {
		return nil, err
	}

	// The house keeps the stake and funds anything paid above it.
	houseNet := stake.Sub(payout)
	houseType := domain.LedgerCommission
	if houseNet.IsNegative() {
		houseType = domain.LedgerPayout
	}
	if !houseNet.IsZero() {
		house := domain.NewLedgerEntry(system.UserID, houseType, houseNet, matchID, system.Currency, now)
		if err := s.post(ctx, tx, system, &house); err != nil {
			return nil, err
		}
	}

	res := &ports.PayoutResult{
		MatchID:      matchID,
		WinnerID:     s.settings.SystemUserID,
		WinnerAmount: payout,
		Commission:   decimal.Max(houseNet, decimal.Zero),
		Stakes:       stakes,
	}
	if payout.IsPositive() {
		res.WinnerID = playerID
	}

	s.log.Info().
		Str("match_id", matchID).
		Str("user_id", playerID).
		Str("stake", stake.String()).
		Str("payout", payout.String()).
		Msg("house game settled")
	return res, nil
}

// RefundStakes returns locked stakes in its own transaction.
func (s *WalletServiceImpl) RefundStakes(ctx context.Context, matchID string, playerIDs []string) (*ports.RefundResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	res, err := s.RefundTx(ctx, dbTx, matchID, playerIDs)
	if err != nil {
		return nil, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return res, nil
}

// RefundTx moves each player's locked stake back to available. Players without
// a locked stake are skipped. A second refund of the same match is a no-op.
func (s *WalletServiceImpl) RefundTx(ctx context.Context, tx pgx.Tx, matchID string, playerIDs []string) (*ports.RefundResult, error) {
	if matchID == "" {
		return nil, apperror.Validation("match_id is required")
	}
	if err := validatePlayers(playerIDs); err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListByReference(ctx, tx, matchID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if hasEntry(entries, domain.LedgerPayout) || hasEntry(entries, domain.LedgerCommission) {
		return nil, apperror.ErrInvalidGameState("match was already settled")
	}
	if hasEntry(entries, domain.LedgerRefund) {
		return &ports.RefundResult{MatchID: matchID, Refunds: refundedAmounts(entries), AlreadyRefunded: true}, nil
	}

	stakes := lockedStakes(entries)
	refunds := make(map[string]decimal.Decimal, len(stakes))
	now := time.Now().UTC()
	for _, playerID := range sortedUnique(playerIDs) {
		stake, ok := stakes[playerID]
		if !ok {
			continue
		}
		w, err := s.walletRepo.GetForUpdate(ctx, tx, playerID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if w == nil {
			return nil, apperror.ErrNotFound("wallet")
		}
		unlock := domain.NewLedgerEntry(playerID, domain.LedgerStakeUnlock, stake.Neg(), matchID, w.Currency, now)
		refund := domain.NewLedgerEntry(playerID, domain.LedgerRefund, stake, matchID, w.Currency, now)
		if err := s.post(ctx, tx, w, &unlock, &refund); err != nil {
			return nil, err
		}
		refunds[playerID] = stake
	}

	s.log.Info().Str("match_id", matchID).Int("refunded", len(refunds)).Msg("stakes refunded")
	return &ports.RefundResult{MatchID: matchID, Refunds: refunds}, nil
}

// Withdraw runs the withdrawal chain: velocity check, conditional debit,
// provider transfer, and compensation when the provider fails.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*ports.WithdrawResult, error) {
	if req.UserID == "" {
		return nil, apperror.Validation("user_id is required")
	}
	if err := validateAmount(req.Amount, "amount"); err != nil {
		return nil, err
	}

	if err := s.velocity.CheckAndRecord(ctx, req.UserID, ActionWithdrawal); err != nil {
		metrics.RecordWithdrawal("rejected")
		return nil, err
	}

	withdrawalID := uuid.NewString()
	var debited *domain.Wallet
	for attempt := 1; debited == nil; attempt++ {
		w, err := s.loadWallet(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if !w.CanCover(req.Amount) {
			metrics.RecordWithdrawal("rejected")
			return nil, apperror.ErrInsufficientFunds(req.UserID)
		}
		if attempt > withdrawAttempts {
			return nil, apperror.ErrConflict(req.UserID)
		}
		if debited, err = s.debit(ctx, w, req.Amount, withdrawalID); err != nil {
			return nil, err
		}
	}

	transfer, err := s.provider.Transfer(ctx, ports.TransferRequest{
		WithdrawalID:  withdrawalID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      debited.Currency,
		PayoutDetails: req.PayoutDetails,
	})
	switch {
	case err != nil:
	case transfer == nil:
		err = errors.New("provider returned no transfer result")
	case transfer.Status == ports.TransferFailed:
		err = errors.New(transfer.Reason)
	}
	if err != nil {
		// The provider may have cancelled ctx; compensation must still land.
		if cerr := s.compensate(context.WithoutCancel(ctx), req.UserID, withdrawalID, req.Amount); cerr != nil {
			s.log.Error().Err(cerr).Str("withdrawal_id", withdrawalID).Str("user_id", req.UserID).Msg("withdrawal compensation failed")
			return nil, cerr
		}
		metrics.RecordWithdrawal("refunded")
		s.log.Warn().Err(err).Str("withdrawal_id", withdrawalID).Str("user_id", req.UserID).Msg("provider transfer failed, debit refunded")
		return nil, apperror.ErrProviderTransferFailed(err)
	}

	res := &ports.WithdrawResult{
		WithdrawalID:      withdrawalID,
		ProviderReference: transfer.ProviderReference,
		Status:            ports.WithdrawCompleted,
		Amount:            req.Amount,
		Available:         debited.AvailableBalance,
	}
	if transfer.Status == ports.TransferPending {
		res.Status = ports.WithdrawPending
	}
	metrics.RecordWithdrawal(string(res.Status))

	s.log.Info().
		Str("withdrawal_id", withdrawalID).
		Str("user_id", req.UserID).
		Str("amount", req.Amount.String()).
		Str("status", string(res.Status)).
		Msg("withdrawal processed")
	return res, nil
}

// debit applies the withdrawal debit at the wallet's observed version. It
// returns nil when another writer changed the wallet first.
func (s *WalletServiceImpl) debit(ctx context.Context, w *domain.Wallet, amount decimal.Decimal, withdrawalID string) (*domain.Wallet, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	entry := domain.NewLedgerEntry(w.UserID, domain.LedgerWithdrawal, amount.Neg(), withdrawalID, w.Currency, time.Now().UTC())
	dAvail, dLocked := entry.Effect()
	ok, err := s.walletRepo.ApplyDelta(ctx, dbTx, w.UserID, w.Version, dAvail, dLocked)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !ok {
		return nil, nil
	}
	if err := s.ledgerRepo.Append(ctx, dbTx, &entry); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	updated := *w
	updated.AvailableBalance = w.AvailableBalance.Add(dAvail)
	updated.Version++
	return &updated, nil
}

// compensate credits a failed withdrawal back once.
func (s *WalletServiceImpl) compensate(ctx context.Context, userID, withdrawalID string, amount decimal.Decimal) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.refundWithdrawalTx(ctx, dbTx, userID, withdrawalID, amount); err != nil {
		return err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (s *WalletServiceImpl) refundWithdrawalTx(ctx context.Context, tx pgx.Tx, userID, withdrawalID string, amount decimal.Decimal) error {
	refunded, err := s.ledgerRepo.ExistsByReference(ctx, tx, withdrawalID, domain.LedgerRefund)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if refunded {
		return nil
	}
	w, err := s.walletRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if w == nil {
		return apperror.ErrNotFound("wallet")
	}
	entry := domain.NewLedgerEntry(userID, domain.LedgerRefund, amount, withdrawalID, w.Currency, time.Now().UTC())
	return s.post(ctx, tx, w, &entry)
}

// ProcessWithdrawalResult applies the provider's final answer for a pending withdrawal.
func (s *WalletServiceImpl) ProcessWithdrawalResult(ctx context.Context, evt ports.WithdrawalResultEvent) (*ports.WithdrawResult, error) {
	if evt.ProviderReference == "" || evt.WithdrawalID == "" || evt.UserID == "" {
		return nil, apperror.Validation("provider_reference, withdrawal_id and user_id are required")
	}

	status := domain.WebhookStatusApplied
	if !evt.Succeeded {
		status = domain.WebhookStatusCompensated
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	entries, err := s.ledgerRepo.ListByReference(ctx, dbTx, evt.WithdrawalID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	debit, ok := findEntry(entries, domain.LedgerWithdrawal, evt.UserID)
	if !ok {
		return nil, apperror.ErrNotFound("withdrawal")
	}
	amount := debit.Amount.Neg()

	inserted, err := s.webhookRepo.Insert(ctx, dbTx, &domain.ProcessedWebhook{
		ID:                uuid.New(),
		ProviderReference: evt.ProviderReference,
		Provider:          evt.Provider,
		Kind:              domain.WebhookKindWithdrawalResult,
		Status:            status,
		CreatedAt:         time.Now().UTC(),
	})
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	res := &ports.WithdrawResult{
		WithdrawalID:      evt.WithdrawalID,
		ProviderReference: evt.ProviderReference,
		Status:            ports.WithdrawCompleted,
		Amount:            amount,
	}
	if hasEntry(entries, domain.LedgerRefund) {
		res.Status = ports.WithdrawRefunded
	}
	if !inserted {
		s.log.Info().Str("provider_reference", evt.ProviderReference).Msg("duplicate withdrawal result ignored")
		return res, nil
	}

	if !evt.Succeeded {
		if err := s.refundWithdrawalTx(ctx, dbTx, evt.UserID, evt.WithdrawalID, amount); err != nil {
			return nil, err
		}
		res.Status = ports.WithdrawRefunded
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	metrics.RecordWithdrawal(string(res.Status))
	s.log.Info().
		Str("withdrawal_id", evt.WithdrawalID).
		Str("user_id", evt.UserID).
		Str("status", string(res.Status)).
		Msg("withdrawal result applied")
	return res, nil
}

// ProcessDeposit credits a provider deposit exactly once per provider reference.
func (s *WalletServiceImpl) ProcessDeposit(ctx context.Context, req ports.DepositRequest) (*ports.DepositResult, error) {
	if req.ProviderReference == "" || req.UserID == "" {
		return nil, apperror.Validation("provider_reference and user_id are required")
	}
	if err := validateAmount(req.Amount, "amount"); err != nil {
		return nil, err
	}
	if req.Currency == "" {
		return nil, apperror.Validation("currency is required")
	}
	if req.FXRate != nil && !req.FXRate.IsPositive() {
		return nil, apperror.Validation("fx_rate must be positive")
	}

	// Layer 1: Redis dedup check, with a read of processed_webhooks when Redis is down
	seen, err := s.dedup.Seen(ctx, req.ProviderReference)
	if err != nil {
		s.log.Warn().Err(err).Str("provider_reference", req.ProviderReference).Msg("redis dedup check failed, falling through to DB")
		if seen, err = s.webhookRepo.Exists(ctx, req.ProviderReference); err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
	}
	if seen {
		metrics.RecordDeposit(true)
		return &ports.DepositResult{Duplicate: true}, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Layer 2: processed_webhooks row, committed with the credit
	now := time.Now().UTC()
	inserted, err := s.webhookRepo.Insert(ctx, dbTx, &domain.ProcessedWebhook{
		ID:                uuid.New(),
		ProviderReference: req.ProviderReference,
		Provider:          req.Provider,
		Kind:              domain.WebhookKindDeposit,
		Status:            domain.WebhookStatusApplied,
		CreatedAt:         now,
	})
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !inserted {
		s.markSeen(ctx, req.ProviderReference)
		metrics.RecordDeposit(true)
		return &ports.DepositResult{Duplicate: true}, nil
	}

	w, err := s.walletRepo.CreateIfMissing(ctx, dbTx, req.UserID, s.settings.Currency)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	entry := domain.NewLedgerEntry(req.UserID, domain.LedgerDeposit, req.Amount, req.ProviderReference, w.Currency, now)
	if req.Currency != w.Currency {
		if req.FXRate == nil {
			return nil, apperror.Validation(fmt.Sprintf("fx_rate is required to convert %s to %s", req.Currency, w.Currency))
		}
		original, currency, rate := req.Amount, req.Currency, *req.FXRate
		entry.Amount = domain.RoundMoney(req.Amount.Mul(rate))
		entry.OriginalAmount = &original
		entry.OriginalCurrency = &currency
		entry.FXRate = &rate
		if !entry.Amount.IsPositive() {
			return nil, apperror.Validation("converted amount rounds to zero")
		}
	}
	if err := s.post(ctx, dbTx, w, &entry); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	s.markSeen(ctx, req.ProviderReference)
	metrics.RecordDeposit(false)

	s.log.Info().
		Str("provider_reference", req.ProviderReference).
		Str("user_id", req.UserID).
		Str("amount", entry.Amount.String()).
		Msg("deposit credited")
	return &ports.DepositResult{Credited: entry.Amount, Currency: w.Currency}, nil
}

// Reconcile replays a wallet's ledger and compares it with the stored balances.
func (s *WalletServiceImpl) Reconcile(ctx context.Context, userID string) (*ports.ReconciliationReport, error) {
	w, err := s.loadWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListByWallet(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	available, locked := domain.ReplayLedger(entries)
	return &ports.ReconciliationReport{
		UserID:          userID,
		WalletAvailable: w.AvailableBalance,
		WalletLocked:    w.LockedBalance,
		LedgerAvailable: available,
		LedgerLocked:    locked,
		Entries:         len(entries),
		Balanced:        available.Equal(w.AvailableBalance) && locked.Equal(w.LockedBalance),
	}, nil
}

// post applies the combined effect of the entries to a wallet held in the
// transaction as one versioned mutation and appends every entry. w is advanced
// so that later posts to the same wallet see the new version.
func (s *WalletServiceImpl) post(ctx context.Context, tx pgx.Tx, w *domain.Wallet, entries ...*domain.LedgerEntry) error {
	dAvail, dLocked := decimal.Zero, decimal.Zero
	for _, e := range entries {
		a, l := e.Effect()
		dAvail, dLocked = dAvail.Add(a), dLocked.Add(l)
	}
	ok, err := s.walletRepo.ApplyDelta(ctx, tx, w.UserID, w.Version, dAvail, dLocked)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if !ok {
		if w.AvailableBalance.Add(dAvail).IsNegative() || w.LockedBalance.Add(dLocked).IsNegative() {
			return apperror.ErrInsufficientFunds(w.UserID)
		}
		return apperror.ErrConflict(w.UserID)
	}
	for _, e := range entries {
		if err := s.ledgerRepo.Append(ctx, tx, e); err != nil {
			return apperror.ErrDatabaseError(err)
		}
	}
	w.AvailableBalance = w.AvailableBalance.Add(dAvail)
	w.LockedBalance = w.LockedBalance.Add(dLocked)
	w.Version++
	return nil
}

// lockWallets takes row locks in user id order. The system wallet is provisioned on demand.
func (s *WalletServiceImpl) lockWallets(ctx context.Context, tx pgx.Tx, userIDs []string) (map[string]*domain.Wallet, error) {
	out := make(map[string]*domain.Wallet, len(userIDs))
	for _, id := range sortedUnique(userIDs) {
		var (
			w   *domain.Wallet
			err error
		)
		if id == s.settings.SystemUserID {
			w, err = s.walletRepo.CreateIfMissing(ctx, tx, id, s.settings.Currency)
		} else {
			w, err = s.walletRepo.GetForUpdate(ctx, tx, id)
		}
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if w == nil {
			return nil, apperror.ErrNotFound("wallet")
		}
		out[id] = w
	}
	return out, nil
}

func (s *WalletServiceImpl) loadWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, apperror.Validation("user_id is required")
	}
	w, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if w == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	return w, nil
}

func (s *WalletServiceImpl) markSeen(ctx context.Context, ref string) {
	if err := s.dedup.Mark(ctx, ref, s.settings.DedupTTL); err != nil {
		s.log.Warn().Err(err).Str("provider_reference", ref).Msg("failed to cache processed webhook in redis")
	}
}

// priorPayout rebuilds the result of an already settled match, or returns nil.
func (s *WalletServiceImpl) priorPayout(matchID string, entries []domain.LedgerEntry) *ports.PayoutResult {
	if !hasEntry(entries, domain.LedgerPayout) && !hasEntry(entries, domain.LedgerCommission) {
		return nil
	}
	res := &ports.PayoutResult{
		MatchID:        matchID,
		WinnerID:       s.settings.SystemUserID,
		WinnerAmount:   decimal.Zero,
		Commission:     decimal.Zero,
		Stakes:         lockedStakes(entries),
		AlreadySettled: true,
	}
	for _, e := range entries {
		switch {
		case e.Type == domain.LedgerPayout && e.Amount.IsPositive():
			res.WinnerID = e.WalletID
			res.WinnerAmount = e.Amount
		case e.Type == domain.LedgerCommission:
			res.Commission = res.Commission.Add(e.Amount)
		}
	}
	return res
}

func lockedStakes(entries []domain.LedgerEntry) map[string]decimal.Decimal {
	stakes := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Type == domain.LedgerStakeLock {
			stakes[e.WalletID] = e.Amount.Neg()
		}
	}
	return stakes
}

func refundedAmounts(entries []domain.LedgerEntry) map[string]decimal.Decimal {
	refunds := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Type == domain.LedgerRefund {
			refunds[e.WalletID] = e.Amount
		}
	}
	return refunds
}

func hasEntry(entries []domain.LedgerEntry, t domain.LedgerEntryType) bool {
	return slices.ContainsFunc(entries, func(e domain.LedgerEntry) bool { return e.Type == t })
}

func findEntry(entries []domain.LedgerEntry, t domain.LedgerEntryType, walletID string) (domain.LedgerEntry, bool) {
	for _, e := range entries {
		if e.Type == t && e.WalletID == walletID {
			return e, true
		}
	}
	return domain.LedgerEntry{}, false
}

func validateAmount(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return apperror.Validation(field + " must be positive")
	}
	if !domain.RoundMoney(amount).Equal(amount) {
		return apperror.Validation(fmt.Sprintf("%s supports at most %d decimal places", field, domain.MoneyScale))
	}
	return nil
}

func validatePlayers(playerIDs []string) error {
	if len(playerIDs) == 0 {
		return apperror.Validation("at least one player is required")
	}
	for _, p := range playerIDs {
		if p == "" {
			return apperror.Validation("player ids must not be empty")
		}
	}
	if len(sortedUnique(playerIDs)) != len(playerIDs) {
		return apperror.Validation("player ids must be distinct")
	}
	return nil
}

func sortedUnique(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
