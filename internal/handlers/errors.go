package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// cardAuthFailedMsg is the only card authorization outcome a production client sees.
const cardAuthFailedMsg = "card authorization failed"

// respondError writes the status of err's category. Failures never expose the
// underlying message; fallback is shown instead.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	kind := apperrors.KindOf(err)
	status := kind.HTTPStatus()
	if kind == apperrors.KindFailure {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn("Request rejected", slog.String("kind", string(kind)), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// respondCardError is respondError for card-initiated operations. In production
// every authorization failure collapses to one 401 so the response does not tell
// a missing card from a wrong PIN.
func respondCardError(c *gin.Context, logger *slog.Logger, err error, production bool, fallback string) {
	if production && errors.Is(err, apperrors.ErrCardAuthorization) {
		logger.Warn("Card authorization failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": cardAuthFailedMsg, "kind": apperrors.KindUnauthorized})
		return
	}
	respondError(c, logger, err, fallback)
}

func respondBindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error(), "kind": apperrors.KindValidation})
}
