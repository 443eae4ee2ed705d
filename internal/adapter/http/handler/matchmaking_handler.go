package handler

import (
	"wager-settlement/internal/adapter/http/dto"
	"wager-settlement/internal/adapter/http/middleware"
	"wager-settlement/internal/core/ports"
	"wager-settlement/pkg/apperror"
	"wager-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// MatchmakingHandler puts callers in and out of pairing queues.
type MatchmakingHandler struct {
	matchmaker ports.Matchmaker
}

// NewMatchmakingHandler creates a new MatchmakingHandler.
func NewMatchmakingHandler(matchmaker ports.Matchmaker) *MatchmakingHandler {
	return &MatchmakingHandler{matchmaker: matchmaker}
}

// Join handles POST /api/v1/matchmaking/queue. It answers 201 with the game
// when a partner was waiting and 202 when the caller was queued.
func (h *MatchmakingHandler) Join(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	var req dto.EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	g, err := h.matchmaker.Enqueue(c.Request.Context(), ports.EnqueueRequest{
		UserID:       userID,
		ConnectionID: req.ConnectionID,
		Stake:        req.Stake,
		Mode:         req.Mode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if g == nil {
		response.Accepted(c, dto.EnqueueResponse{Matched: false})
		return
	}
	view := g.View()
	response.Created(c, dto.EnqueueResponse{Matched: true, Game: &view})
}

// Leave handles DELETE /api/v1/matchmaking/queue.
func (h *MatchmakingHandler) Leave(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}
	if !h.matchmaker.Dequeue(userID) {
		response.Error(c, apperror.ErrNotFound("queue entry"))
		return
	}
	response.OK(c, gin.H{"removed": true})
}
