package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuditLog writes one audit record per successful money-moving or game-changing request.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		action, resource := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		userID, _ := UserID(c)
		log.Info().
			Str("audit_action", action).
			Str("resource", resource).
			Str("resource_id", c.Param("id")).
			Str("user_id", userID).
			Str("request_id", c.GetString(CtxRequestID)).
			Str("client_ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Msg("audit")
	}
}

func mapRouteToAction(route, method string) (string, string) {
	switch {
	case route == "/api/v1/wallets/withdraw" && method == http.MethodPost:
		return "WITHDRAW", "wallet"
	case route == "/api/v1/webhooks/deposit" && method == http.MethodPost:
		return "DEPOSIT", "wallet"
	case route == "/api/v1/webhooks/withdrawal" && method == http.MethodPost:
		return "WITHDRAWAL_RESULT", "wallet"
	case route == "/api/v1/games" && method == http.MethodPost:
		return "GAME_CREATE", "game"
	case route == "/api/v1/games/:id/result" && method == http.MethodPost:
		return "GAME_RESULT", "game"
	case route == "/api/v1/games/:id/crash" && method == http.MethodPost:
		return "GAME_CRASH", "game"
	case route == "/api/v1/matchmaking/queue" && method == http.MethodPost:
		return "QUEUE_JOIN", "matchmaking"
	}
	return "", ""
}
