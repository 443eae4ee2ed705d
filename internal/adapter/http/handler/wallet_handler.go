package handler

import (
	"wager-settlement/internal/adapter/http/dto"
	"wager-settlement/internal/adapter/http/middleware"
	"wager-settlement/internal/core/ports"
	"wager-settlement/pkg/apperror"
	"wager-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet endpoints of the calling user.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// GetBalance handles GET /api/v1/wallets/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	balance, err := h.walletSvc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		UserID:    balance.UserID,
		Available: balance.Available,
		Locked:    balance.Locked,
		Total:     balance.Total,
		Currency:  balance.Currency,
	})
}

// Withdraw handles POST /api/v1/wallets/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthenticated())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.walletSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		UserID:        userID,
		Amount:        req.Amount,
		PayoutDetails: req.PayoutDetails,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	body := dto.WithdrawResponse{
		WithdrawalID:      result.WithdrawalID,
		ProviderReference: result.ProviderReference,
		Status:            string(result.Status),
		Amount:            result.Amount,
		Available:         result.Available,
	}
	if result.Status == ports.WithdrawPending {
		response.Accepted(c, body)
		return
	}
	response.OK(c, body)
}
