package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/insighthq/insight-api/internal/api/metrics"
	"github.com/insighthq/insight-api/internal/api/response"
)

// Window is the fixed budget window shared by both limiter layers.
const Window = 15 * time.Minute

// Budget is one route scope's request allowance inside the window. Max is
// the hard cap (429 beyond it); DelayAfter/DelayStep drive the soft throttle
// that slows requests down before the cap is reached.
type Budget struct {
	Scope      string
	Max        int64
	DelayAfter int64
	DelayStep  time.Duration
	Message    string
}

// The three route scopes. Auth endpoints get the tightest budget since they
// are the brute-force target.
var (
	DefaultBudget = Budget{
		Scope:      "default",
		Max:        100,
		DelayAfter: 50,
		DelayStep:  100 * time.Millisecond,
		Message:    "Too many requests, please try again later",
	}
	AuthBudget = Budget{
		Scope:      "auth",
		Max:        5,
		DelayAfter: 3,
		DelayStep:  500 * time.Millisecond,
		Message:    "Too many authentication attempts, please try again later",
	}
	APIBudget = Budget{
		Scope:      "api",
		Max:        50,
		DelayAfter: 25,
		DelayStep:  200 * time.Millisecond,
		Message:    "Too many API requests, please try again later",
	}
)

// Counter counts hits per key within the window. Backed by the redis window
// counter in production, by fakes in tests.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// RateLimit enforces the hard cap for one scope, keyed by client IP. When
// enabled is false (anything but production) it degrades to a pass-through
// so local and test runs are unthrottled. Counter failures fail open: losing
// redis must not take the API down.
func RateLimit(counter Counter, b Budget, enabled bool, log zerolog.Logger) echo.MiddlewareFunc {
	if !enabled {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			n, err := counter.Incr(c.Request().Context(), b.Scope+":"+c.RealIP())
			if err != nil {
				log.Error().Err(err).Str("scope", b.Scope).Msg("rate limit counter unavailable")
				return next(c)
			}

			if n > b.Max {
				log.Warn().
					Str("scope", b.Scope).
					Str("ip", c.RealIP()).
					Str("path", c.Path()).
					Msg("rate limit exceeded")
				metrics.RateLimitRejectionsTotal.WithLabelValues(b.Scope).Inc()
				return response.TooManyRequests(c, b.Message)
			}

			return next(c)
		}
	}
}

// SpeedLimit is the soft throttle layered under the hard cap: once the
// scope's DelayAfter threshold is crossed, each further request waits
// DelayStep longer than the one before instead of being rejected. The wait
// aborts if the client goes away.
func SpeedLimit(counter Counter, b Budget, enabled bool, log zerolog.Logger) echo.MiddlewareFunc {
	if !enabled {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			n, err := counter.Incr(c.Request().Context(), b.Scope+":"+c.RealIP())
			if err != nil {
				log.Error().Err(err).Str("scope", b.Scope).Msg("speed limit counter unavailable")
				return next(c)
			}

			if excess := n - b.DelayAfter; excess > 0 {
				metrics.SpeedLimitDelaysTotal.WithLabelValues(b.Scope).Inc()
				if err := delay(c.Request().Context(), time.Duration(excess)*b.DelayStep); err != nil {
					return err
				}
			}

			return next(c)
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

func delay(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
