package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_core/internal/core/domain"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/SscSPs/bank_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// atmHandler serves card-present operations. Requests are authorized by card
// number and PIN, not by bearer token.
type atmHandler struct {
	atmService portssvc.ATMSvc
	production bool
}

func registerATMRoutes(rg *gin.RouterGroup, atmService portssvc.ATMSvc, production bool) {
	h := &atmHandler{atmService: atmService, production: production}

	atm := rg.Group("/atm")
	{
		atm.POST("/withdraw", h.withdraw)
		atm.POST("/deposit", h.deposit)
		atm.POST("/balance", h.showBalance)
		atm.POST("/change-pin", h.changePin)
	}
}

func cardLogger(c *gin.Context, cardNumber string) *slog.Logger {
	masked := domain.MaskCardNumber(domain.NormalizeCardNumber(cardNumber))
	return middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("card", masked))
}

func (h *atmHandler) withdraw(c *gin.Context) {
	var req dto.CardAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "Withdraw request")
		return
	}
	logger := cardLogger(c, req.CardNumber)

	entry, err := h.atmService.Withdraw(c.Request.Context(), req)
	if err != nil {
		respondCardError(c, logger, err, h.production, "Failed to withdraw")
		return
	}

	logger.Info("Withdrawal completed", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

func (h *atmHandler) deposit(c *gin.Context) {
	var req dto.CardAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "Deposit request")
		return
	}
	logger := cardLogger(c, req.CardNumber)

	entry, err := h.atmService.Deposit(c.Request.Context(), req)
	if err != nil {
		respondCardError(c, logger, err, h.production, "Failed to deposit")
		return
	}

	logger.Info("Deposit completed", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// showBalance is a POST so the PIN travels in the body rather than the URL.
func (h *atmHandler) showBalance(c *gin.Context) {
	var req dto.CardCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "Balance request")
		return
	}
	logger := cardLogger(c, req.CardNumber)

	view, err := h.atmService.ShowBalance(c.Request.Context(), req)
	if err != nil {
		respondCardError(c, logger, err, h.production, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(view))
}

func (h *atmHandler) changePin(c *gin.Context) {
	var req dto.ChangePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "ChangePin request")
		return
	}
	logger := cardLogger(c, req.CardNumber)

	if err := h.atmService.ChangePin(c.Request.Context(), req); err != nil {
		respondCardError(c, logger, err, h.production, "Failed to change PIN")
		return
	}

	logger.Info("PIN changed")
	c.Status(http.StatusNoContent)
}
