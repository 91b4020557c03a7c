package services

import (
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rateSource portssvc.RateSource, sealer CVVSealer) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	rateOptions := []RateCacheOption{
		WithRateTTL(cfg.RateCacheTTL),
		WithRateFetchTimeout(cfg.RateFetchTimeout),
	}
	if repos.RateRecorder != nil {
		rateOptions = append(rateOptions, WithRateRecorder(repos.RateRecorder))
	}
	container.ExchangeRate = NewExchangeRateCache(rateSource, rateOptions...)

	engine := NewMoneyMovementEngine(container.ExchangeRate)
	authorizer := NewCardAuthorizer()

	container.Operations = NewOperationsService(repos.TxManager, engine, authorizer)
	container.Account = NewAccountService(repos.TxManager)
	container.Card = NewCardService(repos.TxManager, sealer)

	return container
}
