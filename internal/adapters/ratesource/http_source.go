// Package ratesource fetches official exchange rates from the National Bank of
// Georgia currency feed.
package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultClientTimeout bounds a single request when no client is supplied.
const DefaultClientTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// nbgDay is one element of the feed: every currency quoted on a given date.
type nbgDay struct {
	Date       string        `json:"date"`
	Currencies []nbgCurrency `json:"currencies"`
}

type nbgCurrency struct {
	Code     string          `json:"code"`
	Quantity int64           `json:"quantity"` // rate is quoted per this many units
	Rate     decimal.Decimal `json:"rate"`
}

// HTTPSource implements portssvc.RateSource against the NBG JSON endpoint.
// The feed quotes GEL per Quantity units of the foreign currency.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

var _ portssvc.RateSource = (*HTTPSource)(nil)

// NewHTTPSource creates a source reading baseURL. A nil client gets a default one
// with DefaultClientTimeout.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: DefaultClientTimeout}
	}
	return &HTTPSource{baseURL: baseURL, client: client}
}

// FetchRate returns how many GEL one unit of currency is worth.
func (s *HTTPSource) FetchRate(ctx context.Context, currency domain.CurrencyCode) (decimal.Decimal, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate source url: %w", err)
	}
	q := u.Query()
	q.Set("currencies", string(currency))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate request for %s failed: %w", currency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("rate source returned status %d for %s", resp.StatusCode, currency)
	}

	var days []nbgDay
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&days); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate response for %s: %w", currency, err)
	}

	for _, day := range days {
		for _, c := range day.Currencies {
			if !strings.EqualFold(c.Code, string(currency)) {
				continue
			}
			if c.Quantity <= 0 || !c.Rate.IsPositive() {
				return decimal.Zero, fmt.Errorf("rate source returned unusable quote for %s", currency)
			}
			return c.Rate.Div(decimal.NewFromInt(c.Quantity)), nil
		}
	}
	return decimal.Zero, fmt.Errorf("rate source has no quote for %s", currency)
}
