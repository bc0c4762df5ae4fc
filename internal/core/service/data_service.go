package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/insighthq/insight-api/internal/api/metrics"
	"github.com/insighthq/insight-api/internal/core/domain"
	"github.com/insighthq/insight-api/internal/core/ports"
	"github.com/insighthq/insight-api/internal/pkg/cache"
)

// DataService aggregates the two upstreams behind the response cache.
type DataService struct {
	weather ports.WeatherClient
	crypto  ports.CryptoClient
	cache   *cache.TTL[domain.CombinedReport]
}

func NewDataService(weather ports.WeatherClient, crypto ports.CryptoClient, c *cache.TTL[domain.CombinedReport]) *DataService {
	return &DataService{weather: weather, crypto: crypto, cache: c}
}

// Combined returns the merged weather + crypto payload for (city, currency).
// refresh bypasses the cache read unconditionally but the fresh result is
// written back, restarting the entry's TTL. Both upstream calls run
// concurrently and both must succeed; the first failure fails the request.
//
// Concurrent misses for the same key are not de-duplicated: each one calls
// both upstreams and the last writer wins.
func (s *DataService) Combined(ctx context.Context, city, currency string, refresh bool) (domain.CombinedReport, error) {
	key := cache.Key(city, currency)

	if refresh {
		metrics.CacheEventsTotal.WithLabelValues("refresh").Inc()
	} else if cached, ok := s.cache.Get(key); ok {
		metrics.CacheEventsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	} else {
		metrics.CacheEventsTotal.WithLabelValues("miss").Inc()
	}

	var (
		weather domain.WeatherReport
		price   domain.CryptoPrice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weather, err = s.weather.Fetch(gctx, city)
		return err
	})
	g.Go(func() error {
		var err error
		price, err = s.crypto.Fetch(gctx, currency)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.CombinedReport{}, err
	}

	report := domain.CombinedReport{
		City:        weather.City,
		Temperature: weather.Temperature,
		Weather:     weather.Weather,
		Crypto:      price,
	}
	s.cache.Set(key, report)

	return report, nil
}
