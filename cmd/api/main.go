package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wager-settlement/config"
	httpHandler "wager-settlement/internal/adapter/http/handler"
	"wager-settlement/internal/adapter/provider"
	"wager-settlement/internal/adapter/storage/memory"
	pgStorage "wager-settlement/internal/adapter/storage/postgres"
	redisStorage "wager-settlement/internal/adapter/storage/redis"
	"wager-settlement/internal/core/domain"
	"wager-settlement/internal/core/ports"
	"wager-settlement/internal/service"
	"wager-settlement/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// repositories groups the persistence ports of one storage driver.
type repositories struct {
	wallets    ports.WalletRepository
	ledger     ports.LedgerRepository
	webhooks   ports.WebhookRepository
	games      ports.GameRepository
	transactor ports.DBTransactor
	health     ports.HealthChecker
	close      func()
}

func main() {
	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, cfg.Game.NodeID)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Str("node_id", cfg.Game.NodeID).
		Msg("Starting Wager Settlement Core")

	for _, key := range cfg.UnsignedSettings() {
		log.Warn().Str("setting", key).Msg("Signing secret is empty; the routes it guards accept unsigned requests")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer repos.close()

	// Velocity counters and the deposit dedup cache are shared across nodes,
	// so Redis is required with either storage driver.
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	velocityStore := redisStorage.NewVelocityStore(rdb)
	dedupCache := redisStorage.NewDedupCache(rdb)

	payouts, err := provider.NewSandbox(cfg.Provider.Name, provider.Outcome(cfg.Provider.Outcome), cfg.Provider.Latency, logger.Component(log, "provider"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure payout provider")
	}

	velocity := service.NewVelocityGuard(velocityStore, cfg.AntiFraud.Limits, cfg.AntiFraud.Window, logger.Component(log, "velocity"))
	walletSvc := service.NewWalletService(
		repos.wallets,
		repos.ledger,
		repos.webhooks,
		repos.transactor,
		velocity,
		payouts,
		dedupCache,
		service.WalletSettings{
			Currency:       cfg.Wallet.Currency,
			SystemUserID:   cfg.Wallet.SystemUserID,
			CommissionRate: cfg.Wallet.CommissionRate,
			DedupTTL:       cfg.Webhook.DedupTTL,
		},
		logger.Component(log, "wallet"),
	)
	gameSvc := service.NewGameLifecycle(repos.games, walletSvc, repos.transactor, service.GameSettings{
		TTL:          cfg.Game.TTL,
		NodeID:       cfg.Game.NodeID,
		HouseEdge:    cfg.Game.HouseEdge,
		SystemUserID: cfg.Wallet.SystemUserID,
	}, logger.Component(log, "game"))
	matchmaker := service.NewMatchmaker(gameSvc, service.MatchSettings{
		Brackets:       brackets(cfg.Matchmaking.Brackets),
		InclusiveEdges: cfg.Matchmaking.InclusiveEdges,
		StakePolicy:    domain.StakePolicy(cfg.Matchmaking.StakePolicy),
	}, logger.Component(log, "matchmaker"))
	sweeper := service.NewSweeper(repos.games, gameSvc, cfg.Sweeper.Interval, cfg.Sweeper.BatchSize, logger.Component(log, "sweeper"))

	if _, err := walletSvc.EnsureWallet(ctx, cfg.Wallet.SystemUserID); err != nil {
		log.Fatal().Err(err).Msg("Failed to provision system wallet")
	}
	// Games this node left ACTIVE before a restart can no longer be played.
	if _, err := gameSvc.RecoverOrphaned(ctx); err != nil {
		log.Error().Err(err).Msg("Orphaned game recovery failed")
	}

	go sweeper.Run(ctx)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		GameSvc:        gameSvc,
		Matchmaker:     matchmaker,
		RateLimitStore: velocityStore,
		HealthCheckers: []ports.HealthChecker{repos.health, redisStorage.NewHealthCheck(rdb)},
		WebhookSecret:  cfg.Webhook.Secret,
		OutcomeSecret:  cfg.Game.OutcomeSecret,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStorage connects the configured storage driver.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("Using in-memory storage; balances are lost on restart")
		store := memory.New()
		return &repositories{
			wallets:    store.Wallets(),
			ledger:     store.Ledger(),
			webhooks:   store.Webhooks(),
			games:      store.Games(),
			transactor: store,
			health:     store,
			close:      func() {},
		}, nil
	}

	if cfg.Database.AutoMigrate {
		if err := pgStorage.RunMigrations(cfg.Database.MigrateURL(), log); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &repositories{
		wallets:    pgStorage.NewWalletRepo(pool),
		ledger:     pgStorage.NewLedgerRepo(pool),
		webhooks:   pgStorage.NewWebhookRepo(pool),
		games:      pgStorage.NewGameRepo(pool),
		transactor: pgStorage.NewTransactor(pool),
		health:     pgStorage.NewHealthCheck(pool),
		close:      pool.Close,
	}, nil
}

// brackets converts validated config brackets to domain values.
func brackets(in []config.BracketConfig) []domain.Bracket {
	out := make([]domain.Bracket, 0, len(in))
	for _, b := range in {
		out = append(out, domain.Bracket{
			Min: decimal.RequireFromString(b.Min),
			Max: decimal.RequireFromString(b.Max),
		})
	}
	return out
}
