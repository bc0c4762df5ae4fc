package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits per key within a fixed time window, backed by
// Redis. The first hit on a key creates it with the window as its TTL, so
// every key resets itself when the window elapses.
// Key format: <prefix>:<key>
type WindowCounter struct {
	client *redis.Client
	prefix string
	window time.Duration
}

// NewWindowCounter creates a counter whose keys live for window under the
// given prefix. Distinct prefixes keep independent counts for the same key.
func NewWindowCounter(client *redis.Client, prefix string, window time.Duration) *WindowCounter {
	return &WindowCounter{client: client, prefix: prefix, window: window}
}

// incrScript bumps the counter and sets the window TTL atomically when the
// key is created. INCR followed by a separate EXPIRE could leak a key with
// no TTL if the process dies between the two commands.
var incrScript = redis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if n == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return n
`)

// Incr records one hit for key and returns the hit count within the current
// window, this hit included.
func (w *WindowCounter) Incr(ctx context.Context, key string) (int64, error) {
	n, err := incrScript.Run(ctx, w.client,
		[]string{w.prefix + ":" + key},
		w.window.Milliseconds(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("window incr: %w", err)
	}
	return n, nil
}
