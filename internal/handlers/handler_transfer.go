package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/SscSPs/bank_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the idempotency key when the body does not.
const IdempotencyKeyHeader = "Idempotency-Key"

type transferHandler struct {
	transferService portssvc.TransferSvc
}

func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvc) {
	h := &transferHandler{transferService: transferService}
	rg.POST("/transfers", h.transfer)
}

// transfer moves money from one of the caller's accounts to any account.
func (h *transferHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "Transfer request")
		return
	}
	if req.IdempotencyKey == nil {
		if key := c.GetHeader(IdempotencyKeyHeader); key != "" {
			if len(key) > 64 {
				c.JSON(http.StatusBadRequest, gin.H{"error": IdempotencyKeyHeader + " must be at most 64 characters"})
				return
			}
			req.IdempotencyKey = &key
		}
	}

	callerID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		logger.Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received transfer request",
		slog.String("from", req.FromAccountID),
		slog.String("to", req.ToAccountID),
		slog.String("amount", req.Amount.String()))

	entry, err := h.transferService.Transfer(c.Request.Context(), callerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to execute transfer")
		return
	}

	logger.Info("Transfer completed", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}
