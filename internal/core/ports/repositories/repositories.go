package repositories

// RepositoryProvider holds the storage dependencies needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager    TransactionManager
	RateRecorder ExchangeRateRecorder // Optional
	Close        func()
}
