package cache

import (
	"context"
	"sync"
	"time"

	"CandleSage/internal/model"
)

type memoryItem struct {
	pred     *model.Prediction
	expireAt time.Time
}

// MemoryCache is the default in-process cache backend.
type MemoryCache struct {
	mu      sync.RWMutex
	data    map[string]memoryItem
	janitor *time.Ticker
	done    chan struct{}
}

// NewMemoryCache creates an in-memory cache with a background janitor that
// drops expired entries.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	mc := &MemoryCache{
		data:    make(map[string]memoryItem),
		janitor: time.NewTicker(cleanupInterval),
		done:    make(chan struct{}),
	}
	go mc.cleanupLoop()
	return mc
}

func (mc *MemoryCache) Get(_ context.Context, key string) (*model.Prediction, error) {
	mc.mu.RLock()
	item, ok := mc.data[key]
	mc.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if time.Now().After(item.expireAt) {
		mc.mu.Lock()
		delete(mc.data, key)
		mc.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return item.pred, nil
}

func (mc *MemoryCache) Set(_ context.Context, key string, pred *model.Prediction, ttl time.Duration) error {
	mc.mu.Lock()
	mc.data[key] = memoryItem{pred: pred, expireAt: time.Now().Add(ttl)}
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache) cleanupLoop() {
	for {
		select {
		case <-mc.done:
			return
		case <-mc.janitor.C:
			now := time.Now()
			mc.mu.Lock()
			for key, item := range mc.data {
				if now.After(item.expireAt) {
					delete(mc.data, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}

// Close stops the janitor.
func (mc *MemoryCache) Close() error {
	mc.janitor.Stop()
	close(mc.done)
	return nil
}
