package handler

import (
	"wager-settlement/internal/adapter/http/dto"
	"wager-settlement/internal/core/ports"
	"wager-settlement/pkg/apperror"
	"wager-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives payment provider callbacks. Replays are answered
// with 200 so the provider stops retrying.
type WebhookHandler struct {
	walletSvc ports.WalletService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(walletSvc ports.WalletService) *WebhookHandler {
	return &WebhookHandler{walletSvc: walletSvc}
}

// Deposit handles POST /api/v1/webhooks/deposit.
func (h *WebhookHandler) Deposit(c *gin.Context) {
	var req dto.DepositWebhook
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.walletSvc.ProcessDeposit(c.Request.Context(), ports.DepositRequest{
		ProviderReference: req.ProviderReference,
		Provider:          req.Provider,
		UserID:            req.UserID,
		Amount:            req.Amount,
		Currency:          req.Currency,
		FXRate:            req.FXRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DepositResponse{
		Duplicate: result.Duplicate,
		Credited:  result.Credited,
		Currency:  result.Currency,
	})
}

// WithdrawalResult handles POST /api/v1/webhooks/withdrawal.
func (h *WebhookHandler) WithdrawalResult(c *gin.Context) {
	var req dto.WithdrawalWebhook
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.walletSvc.ProcessWithdrawalResult(c.Request.Context(), ports.WithdrawalResultEvent{
		ProviderReference: req.ProviderReference,
		Provider:          req.Provider,
		WithdrawalID:      req.WithdrawalID,
		UserID:            req.UserID,
		Succeeded:         req.Status == string(ports.TransferSucceeded),
		Reason:            req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WithdrawResponse{
		WithdrawalID:      result.WithdrawalID,
		ProviderReference: result.ProviderReference,
		Status:            string(result.Status),
		Amount:            result.Amount,
		Available:         result.Available,
	})
}
