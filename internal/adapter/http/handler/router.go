package handler

import (
	"wager-settlement/internal/adapter/http/middleware"
	"wager-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc  ports.WalletService
	GameSvc    ports.GameService
	Matchmaker ports.Matchmaker
	// RateLimitStore backs per-caller request limits. nil disables them.
	RateLimitStore ports.VelocityStore
	HealthCheckers []ports.HealthChecker
	// WebhookSecret signs provider callbacks, OutcomeSecret signs game server results.
	// An empty secret disables verification for that group.
	WebhookSecret string
	OutcomeSecret string
	Logger        zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))
	r.Use(middleware.AuditLog(deps.Logger))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")
	user := middleware.RequireUser()

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets", user)
	{
		wallets.GET("/balance", rl("wallets"), walletHandler.GetBalance)
		wallets.POST("/withdraw", rl("withdraw"), walletHandler.Withdraw)
	}

	webhookHandler := NewWebhookHandler(deps.WalletSvc)
	webhooks := v1.Group("/webhooks", rl("webhooks"), middleware.VerifySignature(deps.WebhookSecret, deps.Logger))
	{
		webhooks.POST("/deposit", webhookHandler.Deposit)
		webhooks.POST("/withdrawal", webhookHandler.WithdrawalResult)
	}

	mmHandler := NewMatchmakingHandler(deps.Matchmaker)
	queue := v1.Group("/matchmaking", user, rl("matchmaking"))
	{
		queue.POST("/queue", mmHandler.Join)
		queue.DELETE("/queue", mmHandler.Leave)
	}

	gameHandler := NewGameHandler(deps.GameSvc)
	games := v1.Group("/games")
	{
		games.POST("", user, rl("games"), gameHandler.Create)
		games.GET("/:id", user, rl("games"), gameHandler.Get)

		outcome := middleware.VerifySignature(deps.OutcomeSecret, deps.Logger)
		games.POST("/:id/result", outcome, gameHandler.Result)
		games.POST("/:id/crash", outcome, gameHandler.Crash)
	}

	return r
}
