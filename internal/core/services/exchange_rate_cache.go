package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultRateTTL is how long a snapshot is served before a refresh.
	DefaultRateTTL = time.Hour
	// DefaultRateFetchTimeout bounds one refresh round against the rate source.
	DefaultRateFetchTimeout = 10 * time.Second

	refreshKey = "snapshot"
)

// exchangeRateCache serves conversions from one shared snapshot. A stale or missing
// snapshot is refreshed by exactly one fetch round; concurrent callers wait for it.
type exchangeRateCache struct {
	BaseService
	source       portssvc.RateSource
	recorder     portsrepo.ExchangeRateRecorder
	ttl          time.Duration
	fetchTimeout time.Duration

	mu       sync.RWMutex
	snapshot *domain.ExchangeRateSnapshot
	refresh  singleflight.Group
}

// RateCacheOption configures the exchange rate cache
type RateCacheOption func(*exchangeRateCache)

// WithRateTTL sets how long a snapshot stays fresh
func WithRateTTL(ttl time.Duration) RateCacheOption {
	return func(c *exchangeRateCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRateFetchTimeout bounds each refresh round
func WithRateFetchTimeout(timeout time.Duration) RateCacheOption {
	return func(c *exchangeRateCache) {
		if timeout > 0 {
			c.fetchTimeout = timeout
		}
	}
}

// WithRateRecorder hands every fresh snapshot to recorder for audit
func WithRateRecorder(recorder portsrepo.ExchangeRateRecorder) RateCacheOption {
	return func(c *exchangeRateCache) {
		c.recorder = recorder
	}
}

// WithRateClock sets the clock used for snapshot freshness
func WithRateClock(clock func() time.Time) RateCacheOption {
	return func(c *exchangeRateCache) {
		WithClock(clock)(&c.BaseService)
	}
}

// NewExchangeRateCache creates a cache in front of source. The cache starts empty.
func NewExchangeRateCache(source portssvc.RateSource, options ...RateCacheOption) portssvc.ExchangeRateSvc {
	c := &exchangeRateCache{
		BaseService:  newBaseService(),
		source:       source,
		ttl:          DefaultRateTTL,
		fetchTimeout: DefaultRateFetchTimeout,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portssvc.ExchangeRateSvc = (*exchangeRateCache)(nil)

func (c *exchangeRateCache) fresh() *domain.ExchangeRateSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot.IsFresh(c.Now(), c.ttl) {
		return c.snapshot
	}
	return nil
}

func (c *exchangeRateCache) Snapshot(ctx context.Context) (*domain.ExchangeRateSnapshot, error) {
	if s := c.fresh(); s != nil {
		return s, nil
	}

	ch := c.refresh.DoChan(refreshKey, func() (interface{}, error) {
		// Another flight may have finished between the miss and this call.
		if s := c.fresh(); s != nil {
			return s, nil
		}
		// The round outlives any single waiter so one cancelled caller cannot fail the others.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		s, err := c.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.snapshot = s
		c.mu.Unlock()

		c.record(fetchCtx, s)
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for exchange rates: %w", apperrors.ErrFailure, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			c.LogError(ctx, res.Err, "Exchange rate refresh failed")
			return nil, fmt.Errorf("%w: exchange rates unavailable: %w", apperrors.ErrFailure, res.Err)
		}
		return res.Val.(*domain.ExchangeRateSnapshot), nil
	}
}

// fetch queries every non-base currency in parallel and builds a complete snapshot.
func (c *exchangeRateCache) fetch(ctx context.Context) (*domain.ExchangeRateSnapshot, error) {
	currencies := domain.NonBaseCurrencies()
	rates := make(map[domain.CurrencyCode]decimal.Decimal, len(currencies))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, currency := range currencies {
		g.Go(func() error {
			rate, err := c.source.FetchRate(gctx, currency)
			if err != nil {
				return fmt.Errorf("fetch rate for %s: %w", currency, err)
			}
			if !rate.IsPositive() {
				return fmt.Errorf("rate source returned non-positive rate %s for %s", rate, currency)
			}
			mu.Lock()
			rates[currency] = rate
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ExchangeRateSnapshot{
		Base:       domain.BaseCurrency,
		Rates:      rates,
		CapturedAt: c.Now(),
	}, nil
}

func (c *exchangeRateCache) record(ctx context.Context, s *domain.ExchangeRateSnapshot) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.SaveSnapshot(ctx, *s); err != nil {
		c.LogError(ctx, err, "Failed to record exchange rate snapshot", slog.Time("captured_at", s.CapturedAt))
	}
}

func (c *exchangeRateCache) GetRate(ctx context.Context, currency domain.CurrencyCode) (decimal.Decimal, error) {
	if !currency.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, currency)
	}
	if currency == domain.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}

	s, err := c.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := s.Rate(currency)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s in snapshot", apperrors.ErrFailure, currency)
	}
	return rate, nil
}

// Convert applies the snapshot rates, which are base units per unit of currency:
// non-base to base multiplies, base to non-base divides, and cross conversion goes
// through the base as amount * rate[from] / rate[to], rounded once.
func (c *exchangeRateCache) Convert(ctx context.Context, amount decimal.Decimal, from domain.CurrencyCode, to domain.CurrencyCode) (decimal.Decimal, error) {
	if !from.IsValid() || !to.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: unsupported currency pair %s/%s", apperrors.ErrValidation, from, to)
	}
	if from == to {
		return amount, nil
	}

	s, err := c.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	fromRate, okFrom := s.Rate(from)
	toRate, okTo := s.Rate(to)
	if !okFrom || !okTo {
		return decimal.Zero, fmt.Errorf("%w: incomplete snapshot for %s/%s", apperrors.ErrFailure, from, to)
	}

	var converted decimal.Decimal
	switch {
	case to == domain.BaseCurrency:
		converted = amount.Mul(fromRate)
	case from == domain.BaseCurrency:
		converted = amount.Div(toRate)
	default:
		converted = amount.Mul(fromRate).Div(toRate)
	}
	return domain.RoundToMinorUnit(converted, to), nil
}
