package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/insighthq/insight-api/internal/api/metrics"
	"github.com/insighthq/insight-api/internal/core/domain"
	"github.com/insighthq/insight-api/internal/pkg/retry"
)

const defaultCryptoBaseURL = "https://api.coingecko.com"

// CryptoClient calls the CoinGecko simple-price endpoint.
type CryptoClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	policy  retry.Policy
	log     zerolog.Logger
}

type CryptoOption func(*CryptoClient)

func WithCryptoBaseURL(u string) CryptoOption {
	return func(c *CryptoClient) { c.baseURL = u }
}

func WithCryptoHTTPClient(h *http.Client) CryptoOption {
	return func(c *CryptoClient) { c.http = h }
}

func WithCryptoRetryPolicy(p retry.Policy) CryptoOption {
	return func(c *CryptoClient) { c.policy = p }
}

func NewCryptoClient(apiKey string, log zerolog.Logger, opts ...CryptoOption) *CryptoClient {
	c := &CryptoClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultCryptoBaseURL,
		apiKey:  apiKey,
		policy:  retry.DefaultPolicy(),
		log:     log.With().Str("upstream", "crypto").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the USD spot price for the given currency identifier
// (CoinGecko coin id, e.g. "bitcoin").
func (c *CryptoClient) Fetch(ctx context.Context, currency string) (domain.CryptoPrice, error) {
	price, err := retry.Do(ctx, c.policy, c.log, func(ctx context.Context) (domain.CryptoPrice, error) {
		return c.fetchOnce(ctx, currency)
	})
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("crypto", "error").Inc()
		return domain.CryptoPrice{}, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("crypto", "ok").Inc()
	return price, nil
}

func (c *CryptoClient) fetchOnce(ctx context.Context, currency string) (domain.CryptoPrice, error) {
	q := url.Values{}
	q.Set("ids", currency)
	q.Set("vs_currencies", "usd")
	q.Set("x_cg_demo_api_key", c.apiKey)
	endpoint := c.baseURL + "/api/v3/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.CryptoPrice{}, fmt.Errorf("build crypto request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.CryptoPrice{}, fmt.Errorf("crypto request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return domain.CryptoPrice{}, &domain.UpstreamError{
			Kind:    domain.UpstreamRateLimited,
			Message: "Rate limit exceeded. Please try again later.",
		}
	case http.StatusUnauthorized:
		return domain.CryptoPrice{}, &domain.UpstreamError{
			Kind:    domain.UpstreamUnauthorized,
			Message: "Invalid API key",
		}
	}

	// Payload shape: {"<currency>": {"usd": <price>}}
	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.CryptoPrice{}, malformedCrypto(currency)
	}

	usd, ok := body[currency]["usd"]
	if !ok || usd == 0 {
		return domain.CryptoPrice{}, malformedCrypto(currency)
	}

	return domain.CryptoPrice{Name: currency, PriceUSD: usd}, nil
}

func malformedCrypto(currency string) error {
	return &domain.UpstreamError{
		Kind:    domain.UpstreamMalformed,
		Message: "Invalid response format for currency: " + currency,
	}
}
