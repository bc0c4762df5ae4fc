// Package metrics defines and registers all custom Prometheus metrics for
// the insight API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at package init; the router
// exposes them on /metrics together with the echoprometheus request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "insight"

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts completed upstream fetches after retries.
// Labels:
//   - service: "weather" or "crypto"
//   - outcome: "ok" or "error" (final outcome, retries are not surfaced here)
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream fetches by service and final outcome.",
	},
	[]string{"service", "outcome"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheEventsTotal counts read decisions on the combined-data cache.
// Label:
//   - result: "hit", "miss", or "refresh" (read path bypassed by the caller)
var CacheEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_events_total",
		Help:      "Total number of combined-data cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Limiter metrics ───────────────────────────────────────────────────────────

// RateLimitRejectionsTotal counts requests rejected by the hard cap.
// Label:
//   - scope: "default", "auth", or "api"
var RateLimitRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejections_total",
		Help:      "Total number of requests rejected with 429, by limiter scope.",
	},
	[]string{"scope"},
)

// SpeedLimitDelaysTotal counts requests slowed by the soft throttle.
// Label:
//   - scope: "default", "auth", or "api"
var SpeedLimitDelaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "speed_limit_delays_total",
		Help:      "Total number of requests artificially delayed, by limiter scope.",
	},
	[]string{"scope"},
)
