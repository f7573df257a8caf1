// Package directory serves the "find friends" user listing. The listing is
// read on every visit to the profile page, so results are memoized briefly.
package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dailyreadnest/backend/internal/models"
)

// ErrSourceUnavailable indicates the directory has no backing user source.
var ErrSourceUnavailable = errors.New("user directory source unavailable")

// Source provides the underlying user listing.
type Source interface {
	ListOthers(ctx context.Context, excludeID string) ([]models.PublicProfile, error)
}

type cacheEntry struct {
	profiles []models.PublicProfile
	expires  time.Time
}

// Cache wraps a Source with a TTL-based in-memory cache keyed by the viewer,
// since each viewer sees the directory minus themself.
type Cache struct {
	base Source
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCache returns a directory that caches listings for the provided TTL.
func NewCache(base Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{
		base:  base,
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

// ListOthers returns the cached listing when fresh, otherwise it delegates
// to the underlying source and stores the result.
func (c *Cache) ListOthers(ctx context.Context, excludeID string) ([]models.PublicProfile, error) {
	if c == nil || c.base == nil {
		return nil, ErrSourceUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[excludeID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.profiles, nil
	}

	profiles, err := c.base.ListOthers(ctx, excludeID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[excludeID] = cacheEntry{profiles: profiles, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return profiles, nil
}

// Invalidate drops every cached listing. Called after profile edits so stale
// cards do not linger for the full TTL.
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items = make(map[string]cacheEntry)
	c.mu.Unlock()
}
