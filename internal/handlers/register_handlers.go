package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/middleware"
	"github.com/SscSPs/bank_core/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// atmLimiter may be nil, which leaves the ATM routes unthrottled.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	atmLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1")

	// Bearer-token routes act on behalf of the token subject.
	authed := v1.Group("", middleware.AuthMiddleware(middleware.AuthConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}))
	registerTransferRoutes(authed, services.Operations)
	registerAccountRoutes(authed, services.Account)
	registerCardRoutes(authed, services.Card)
	registerExchangeRateRoutes(authed, services.ExchangeRate)

	// Card-present routes authorize with card number and PIN.
	cardPresent := v1.Group("")
	if atmLimiter != nil {
		cardPresent.Use(middleware.RateLimit(atmLimiter))
	}
	registerATMRoutes(cardPresent, services.Operations, cfg.IsProduction)
}
