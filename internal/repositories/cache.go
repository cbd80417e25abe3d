package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"solar-resource-api/internal/models"
	"solar-resource-api/pkg/observe"
)

// CachedSolarRepository wraps a SolarRepository with a bounded in-memory
// TTL/LRU cache so repeated queries for the same location don't burn
// upstream quota.
type CachedSolarRepository struct {
	inner   SolarRepository
	cache   *lruCache
	metrics *observe.Metrics
}

func NewCachedSolarRepository(inner SolarRepository, maxEntries int, ttl time.Duration, clock clockwork.Clock, m *observe.Metrics) *CachedSolarRepository {
	return &CachedSolarRepository{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl, clock),
		metrics: m,
	}
}

func (c *CachedSolarRepository) Name() string {
	return c.inner.Name()
}

func (c *CachedSolarRepository) FetchResource(ctx context.Context, loc models.Location, accuracy models.Accuracy) (models.SolarResource, error) {
	key := fmt.Sprintf("%s|%.4f,%.4f|%s", c.inner.Name(), loc.Lat, loc.Lon, accuracy)
	if cached, ok := c.cache.get(key); ok {
		c.countLookup("hit")
		return cached.(models.SolarResource), nil
	}
	c.countLookup("miss")

	resource, err := c.inner.FetchResource(ctx, loc, accuracy)
	if err != nil {
		return resource, err
	}

	c.cache.put(key, resource)
	return resource, nil
}

func (c *CachedSolarRepository) ValidateKey(ctx context.Context) error {
	return c.inner.ValidateKey(ctx)
}

func (c *CachedSolarRepository) countLookup(result string) {
	if c.metrics != nil {
		c.metrics.CacheLookups.WithLabelValues(c.inner.Name(), result).Inc()
	}
}

// CachedGeocodeRepository wraps a GeocodeRepository with the same cache.
// Geocoding results never change, so entries don't expire.
type CachedGeocodeRepository struct {
	inner GeocodeRepository
	cache *lruCache
}

func NewCachedGeocodeRepository(inner GeocodeRepository, maxEntries int) *CachedGeocodeRepository {
	return &CachedGeocodeRepository{
		inner: inner,
		cache: newLRUCache(maxEntries, 0, clockwork.NewRealClock()),
	}
}

func (c *CachedGeocodeRepository) Name() string {
	return c.inner.Name()
}

func (c *CachedGeocodeRepository) Geocode(ctx context.Context, query string) (models.GeocodeResult, error) {
	if cached, ok := c.cache.get(query); ok {
		return cached.(models.GeocodeResult), nil
	}

	result, err := c.inner.Geocode(ctx, query)
	if err != nil {
		// Not-found responses are not cached so transient upstream gaps
		// can be retried.
		return result, err
	}

	c.cache.put(query, result)
	return result, nil
}

// lruCache is a thread-safe LRU cache with optional per-entry TTL.
type lruCache struct {
	maxEntries int
	ttl        time.Duration // zero disables expiry
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
