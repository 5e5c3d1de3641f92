package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultEndpoint serves the latest USD rates as a JSON document with a
	// "rates" map keyed by currency code.
	DefaultEndpoint = "https://api.exchangerate-api.com/v4/latest/USD"

	defaultCacheTTL = time.Hour
	requestTimeout  = 10 * time.Second
)

// Client fetches the USD/ARS exchange rate from an external quote provider.
// Successful responses are cached in memory so the provider is hit at most
// once per TTL window.
type Client struct {
	endpoint string
	http     *http.Client
	ttl      time.Duration

	mu        sync.Mutex
	cached    decimal.Decimal
	fetchedAt time.Time
}

// NewClient creates a client for the default quote provider
func NewClient() *Client {
	return &Client{
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: requestTimeout},
		ttl:      defaultCacheTTL,
	}
}

// NewClientWithEndpoint creates a client pointed at a custom endpoint.
// Used by tests to stub the provider.
func NewClientWithEndpoint(endpoint string, ttl time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: requestTimeout},
		ttl:      ttl,
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// RateARS returns the current USD/ARS rate rounded to 2 decimal places.
// A cached value is returned while it remains fresh.
func (c *Client) RateARS(ctx context.Context) (decimal.Decimal, error) {
	c.mu.Lock()
	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		cached := c.cached
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	rate, err := c.fetch(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	c.mu.Lock()
	c.cached = rate
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return rate, nil
}

func (c *Client) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build exchange rate request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("exchange rate provider returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode exchange rate response: %w", err)
	}

	ars, ok := body.Rates["ARS"]
	if !ok || ars <= 0 {
		return decimal.Zero, fmt.Errorf("exchange rate response missing ARS rate")
	}

	return decimal.NewFromFloat(ars).Round(2), nil
}
