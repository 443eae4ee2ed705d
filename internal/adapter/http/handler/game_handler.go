package handler

import (
	"wager-settlement/internal/adapter/http/dto"
	"wager-settlement/internal/adapter/http/middleware"
	"wager-settlement/internal/core/ports"
	"wager-settlement/pkg/apperror"
	"wager-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GameHandler exposes game creation, lookup and resolution.
type GameHandler struct {
	gameSvc ports.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameSvc ports.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// Create handles POST /api/v1/games. Only single-player modes are created
// directly; player-vs-player games come from matchmaking.
func (h *GameHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	var req dto.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if !req.Mode.IsHouse() {
		response.Error(c, apperror.Validation("player-vs-player games are created through matchmaking"))
		return
	}

	g, err := h.gameSvc.Create(c.Request.Context(), req.Mode, req.Stake, []string{userID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, g.View())
}

// Get handles GET /api/v1/games/:id.
func (h *GameHandler) Get(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}

	view, err := h.gameSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// Result handles POST /api/v1/games/:id/result from the game server.
func (h *GameHandler) Result(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req dto.GameResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	res, err := h.gameSvc.Complete(c.Request.Context(), id, req.WinnerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResolutionResponse(res))
}

// Crash handles POST /api/v1/games/:id/crash from the game server.
func (h *GameHandler) Crash(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req dto.CrashResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	res, err := h.gameSvc.ResolveCrash(c.Request.Context(), id, req.CashoutAt)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResolutionResponse(res))
}

func gameID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("game id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func toResolutionResponse(res *ports.Resolution) dto.ResolutionResponse {
	return dto.ResolutionResponse{Applied: res.Applied, Game: res.Game.View()}
}
