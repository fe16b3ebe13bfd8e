// Package cache memoizes source reads and FX quotes for a bounded time window.
//
// Entries are keyed by (source identity, data kind) and expire after a TTL that
// depends on the kind. The only other invalidation is Clear, which drops every
// entry at once; there is no per-source invalidation.
package cache

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Kind is the type of data held by an entry.
type Kind string

const (
	KindHoldings Kind = "holdings"
	KindFX       Kind = "fx"
)

// Default TTLs. FX quotes are held longer than holdings to keep provider call volume down.
const (
	DefaultHoldingsTTL = 10 * time.Minute
	DefaultFXTTL       = time.Hour
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Observer is notified of cache lookups.
type Observer interface {
	CacheHit(kind Kind)
	CacheMiss(kind Kind)
}

// Key identifies an entry.
type Key struct {
	Source string
	Kind   Kind
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.Source
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL memo safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	clock    Clock
	ttls     map[Kind]time.Duration
	entries  map[Key]entry
	group    singleflight.Group
	observer Observer
	// gen is bumped by Clear; loads started before a Clear are not stored.
	gen uint64
}

// New creates a cache. Kinds missing from ttls use the package defaults.
func New(clock Clock, ttls map[Kind]time.Duration) *Cache {
	if clock == nil {
		clock = SystemClock{}
	}
	merged := map[Kind]time.Duration{
		KindHoldings: DefaultHoldingsTTL,
		KindFX:       DefaultFXTTL,
	}
	for k, v := range ttls {
		if v > 0 {
			merged[k] = v
		}
	}
	return &Cache{
		clock:   clock,
		ttls:    merged,
		entries: make(map[Key]entry),
	}
}

// SetObserver attaches a lookup observer.
func (c *Cache) SetObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
}

// TTL returns the time-to-live for kind.
func (c *Cache) TTL(kind Kind) time.Duration {
	if ttl, ok := c.ttls[kind]; ok {
		return ttl
	}
	return DefaultHoldingsTTL
}

// Now returns the cache clock's current time.
func (c *Cache) Now() time.Time {
	return c.clock.Now()
}

// Get returns a live entry.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	now := c.clock.Now()
	if ok && !now.Before(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		if ok {
			observer.CacheHit(key.Kind)
		} else {
			observer.CacheMiss(key.Kind)
		}
	}
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the kind's TTL.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(c.TTL(key.Kind)),
	}
}

// Clear drops every entry and returns how many were removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[Key]entry)
	c.gen++
	return n
}

func (c *Cache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// setIfGeneration stores value only if no Clear happened since gen was read.
func (c *Cache) setIfGeneration(key Key, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(c.TTL(key.Kind)),
	}
	return true
}

// Len returns the number of stored entries, including ones that expired but
// have not been looked up since.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Loader produces a value for a missing key. keep reports whether the value
// may be stored; degraded results such as fallbacks return keep=false so the
// next lookup retries.
type Loader[T any] func() (value T, keep bool)

// GetOrLoad returns the cached value for key, calling load on a miss.
// Concurrent misses for the same key share one load. A load that is still
// running when Clear is called returns its value but does not store it, and
// callers arriving after the Clear start a fresh load.
func GetOrLoad[T any](c *Cache, key Key, load Loader[T]) T {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}

	gen := c.generation()
	v, _, _ := c.group.Do(key.String()+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		value, keep := load()
		if keep {
			c.setIfGeneration(key, value, gen)
		}
		return value, nil
	})
	return v.(T)
}
