package ports

import (
	"context"

	"github.com/insighthq/insight-api/internal/core/domain"
)

// WeatherClient fetches current conditions for a city from the weather
// upstream. Implementations normalize upstream failures into
// domain.UpstreamError values.
type WeatherClient interface {
	Fetch(ctx context.Context, city string) (domain.WeatherReport, error)
}

// CryptoClient fetches the USD spot price for a currency identifier from the
// pricing upstream.
type CryptoClient interface {
	Fetch(ctx context.Context, currency string) (domain.CryptoPrice, error)
}

// DataService serves the combined weather + crypto payload behind the
// response cache.
type DataService interface {
	Combined(ctx context.Context, city, currency string, refresh bool) (domain.CombinedReport, error)
}
