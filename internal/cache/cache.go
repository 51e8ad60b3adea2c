// Package cache provides short-lived caching of predictions so repeated
// requests for the same symbol and candle window skip recomputation. The
// cache is owned by the caller of the engine; the engine itself stays pure.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CandleSage/internal/model"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Cache stores predictions keyed by symbol, timeframe, and the latest candle
// timestamp, with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (*model.Prediction, error)
	Set(ctx context.Context, key string, pred *model.Prediction, ttl time.Duration) error
	Close() error
}

// Key builds the canonical cache key for one prediction request.
func Key(symbol, timeframe string, latestCandle time.Time) string {
	return fmt.Sprintf("prediction:%s:%s:%d", symbol, timeframe, latestCandle.Unix())
}
