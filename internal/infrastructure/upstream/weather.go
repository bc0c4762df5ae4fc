// Package upstream holds the HTTP clients for the two third-party
// integrations (weather and crypto pricing). Both normalize transport and
// payload failures into domain.UpstreamError values and run every call
// through the retry policy.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/insighthq/insight-api/internal/api/metrics"
	"github.com/insighthq/insight-api/internal/core/domain"
	"github.com/insighthq/insight-api/internal/pkg/retry"
)

const defaultWeatherBaseURL = "https://api.openweathermap.org"

// WeatherClient calls the OpenWeather current-conditions endpoint.
type WeatherClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	policy  retry.Policy
	log     zerolog.Logger
}

// WeatherOption customizes a WeatherClient; used by tests to point the
// client at a local server.
type WeatherOption func(*WeatherClient)

func WithWeatherBaseURL(u string) WeatherOption {
	return func(c *WeatherClient) { c.baseURL = u }
}

func WithWeatherHTTPClient(h *http.Client) WeatherOption {
	return func(c *WeatherClient) { c.http = h }
}

func WithWeatherRetryPolicy(p retry.Policy) WeatherOption {
	return func(c *WeatherClient) { c.policy = p }
}

func NewWeatherClient(apiKey string, log zerolog.Logger, opts ...WeatherOption) *WeatherClient {
	c := &WeatherClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultWeatherBaseURL,
		apiKey:  apiKey,
		policy:  retry.DefaultPolicy(),
		log:     log.With().Str("upstream", "weather").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// openWeatherResponse is the subset of the upstream payload we consume.
type openWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Fetch returns the normalized report for city. Each attempt, retries
// included, performs a full request; errors are retried indiscriminately
// until the policy budget runs out.
func (c *WeatherClient) Fetch(ctx context.Context, city string) (domain.WeatherReport, error) {
	report, err := retry.Do(ctx, c.policy, c.log, func(ctx context.Context) (domain.WeatherReport, error) {
		return c.fetchOnce(ctx, city)
	})
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("weather", "error").Inc()
		return domain.WeatherReport{}, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("weather", "ok").Inc()
	return report, nil
}

func (c *WeatherClient) fetchOnce(ctx context.Context, city string) (domain.WeatherReport, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	endpoint := c.baseURL + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return domain.WeatherReport{}, &domain.UpstreamError{
			Kind:    domain.UpstreamRateLimited,
			Message: "Rate limit exceeded. Please try again later.",
		}
	case http.StatusUnauthorized:
		return domain.WeatherReport{}, &domain.UpstreamError{
			Kind:    domain.UpstreamUnauthorized,
			Message: "Invalid API key",
		}
	case http.StatusNotFound:
		return domain.WeatherReport{}, &domain.UpstreamError{
			Kind:    domain.UpstreamNotFound,
			Message: "City not found: " + city,
		}
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.WeatherReport{}, malformedWeather(city)
	}
	if body.Main.Temp == nil || len(body.Weather) == 0 || body.Weather[0].Description == "" {
		return domain.WeatherReport{}, malformedWeather(city)
	}

	return domain.WeatherReport{
		City:        body.Name,
		Temperature: strconv.FormatFloat(*body.Main.Temp, 'f', -1, 64) + "°C",
		Weather:     body.Weather[0].Description,
	}, nil
}

func malformedWeather(city string) error {
	return &domain.UpstreamError{
		Kind:    domain.UpstreamMalformed,
		Message: "Invalid response format for city: " + city,
	}
}
