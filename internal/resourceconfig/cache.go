package resourceconfig

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "symposia/pkg/domain"
	"symposia/pkg/requestcontext"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symposia_resource_config_cache_lookups_total",
		Help: "Resource configuration cache lookups by backend and outcome",
	}, []string{"backend", "outcome"}) // outcome: "hit", "miss"
)

type cacheEntry struct {
	options   []Option
	fetchedAt time.Time
}

// Cache is an in-process read-mostly cache over a Directory. Entries are
// refreshed lazily once their TTL expires; configuration writes are not
// propagated, so staleness is bounded by the TTL and accepted.
type Cache struct {
	mu      sync.RWMutex
	next    Directory
	ttl     time.Duration
	entries map[memoryKey]cacheEntry
}

func NewCache(next Directory, ttl time.Duration) *Cache {
	return &Cache{
		next:    next,
		ttl:     ttl,
		entries: make(map[memoryKey]cacheEntry),
	}
}

func (c *Cache) Options(ctx context.Context, eventID id.EventID, resourceType id.ResourceType) ([]Option, error) {
	key := memoryKey{eventID, resourceType}
	now := requestcontext.Now(ctx)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Sub(entry.fetchedAt) < c.ttl {
		cacheLookups.WithLabelValues("memory", "hit").Inc()
		return append([]Option(nil), entry.options...), nil
	}
	cacheLookups.WithLabelValues("memory", "miss").Inc()

	options, err := c.next.Options(ctx, eventID, resourceType)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{options: append([]Option(nil), options...), fetchedAt: now}
	c.mu.Unlock()

	return options, nil
}
