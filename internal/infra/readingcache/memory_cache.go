package readingcache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/lsi"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
	"github.com/AlexHuggler/LCI-tracker/pkg/util"
)

type cachedReading struct {
	reading   lsi.Reading
	expiresAt time.Time
}

func (e cachedReading) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && e.expiresAt.Before(now)
}

// MemoryCache is an in-memory pool.ReadingCache for tests/dev.
type MemoryCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	readings map[uuid.UUID]cachedReading
	now      util.Clock
}

// NewMemoryCache constructs a cache. Zero ttl keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:      ttl,
		readings: make(map[uuid.UUID]cachedReading),
		now:      util.NowUTC,
	}
}

// LastReading implements pool.ReadingCache.
func (c *MemoryCache) LastReading(_ context.Context, poolID uuid.UUID) (lsi.Reading, bool, error) {
	c.mu.RLock()
	entry, ok := c.readings[poolID]
	c.mu.RUnlock()
	if !ok {
		return lsi.Reading{}, false, nil
	}
	if now := c.now(); entry.expired(now) {
		c.evictExpired(poolID, now)
		return lsi.Reading{}, false, nil
	}
	return entry.reading, true, nil
}

// evictExpired deletes the entry only if it is still expired under the write lock,
// so a reading saved after the read lock was released survives.
func (c *MemoryCache) evictExpired(poolID uuid.UUID, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.readings[poolID]; ok && entry.expired(now) {
		delete(c.readings, poolID)
	}
}

// SaveReading implements pool.ReadingCache.
func (c *MemoryCache) SaveReading(_ context.Context, poolID uuid.UUID, reading lsi.Reading) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := cachedReading{reading: reading}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.readings[poolID] = entry
	return nil
}

var _ pool.ReadingCache = (*MemoryCache)(nil)
