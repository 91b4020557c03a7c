package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/SscSPs/bank_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

type cardHandler struct {
	cardService portssvc.CardSvcFacade
}

func registerCardRoutes(rg *gin.RouterGroup, cardService portssvc.CardSvcFacade) {
	h := &cardHandler{cardService: cardService}
	rg.POST("/cards", h.issueCard)
}

// issueCard issues a card on one of the caller's accounts. The response is the
// only place the full number and CVV are ever returned.
func (h *cardHandler) issueCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IssueCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "IssueCard request")
		return
	}

	callerID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		logger.Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	issued, err := h.cardService.IssueCard(c.Request.Context(), callerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to issue card")
		return
	}

	logger.Info("Card issued", slog.String("card_id", issued.Card.CardID), slog.String("card", issued.Card.MaskedNumber()))
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusCreated, dto.ToIssuedCardResponse(issued))
}
