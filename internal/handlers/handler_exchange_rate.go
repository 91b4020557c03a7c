package handlers

import (
	"net/http"

	"github.com/SscSPs/bank_core/internal/apperrors"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/SscSPs/bank_core/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvc
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvc) {
	h := &exchangeRateHandler{exchangeRateService: exchangeRateService}

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("", h.getRates)
		exchangeRates.GET("/convert", h.convert)
	}
}

func (h *exchangeRateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	snapshot, err := h.exchangeRateService.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Exchange rates unavailable")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRatesResponse(snapshot))
}

// convert quotes a conversion without moving money.
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ConvertParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "convert query params")
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive decimal", "kind": apperrors.KindValidation})
		return
	}

	converted, err := h.exchangeRateService.Convert(c.Request.Context(), amount, params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "Exchange rates unavailable")
		return
	}
	c.JSON(http.StatusOK, dto.ConvertResponse{From: params.From, To: params.To, Amount: amount, Converted: converted})
}
