// Package cache keeps fetched evidence in memory so re-verifying the same
// usernames does not hit the upstream APIs again.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

type EvidenceCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewEvidenceCache(ttl, cleanupInterval time.Duration) *EvidenceCache {
	return &EvidenceCache{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (c *EvidenceCache) Get(source domain.SourceKind, username string) (domain.RawEvidence, bool) {
	val, found := c.cache.Get(key(source, username))
	if !found {
		return domain.RawEvidence{}, false
	}
	raw, ok := val.(domain.RawEvidence)
	return raw, ok
}

func (c *EvidenceCache) Set(source domain.SourceKind, username string, raw domain.RawEvidence) {
	c.cache.Set(key(source, username), raw, c.ttl)
}

func (c *EvidenceCache) Delete(source domain.SourceKind, username string) {
	c.cache.Delete(key(source, username))
}

func (c *EvidenceCache) Len() int {
	return c.cache.ItemCount()
}

func (c *EvidenceCache) Clear() {
	c.cache.Flush()
}

// Usernames are case-insensitive on all three sources.
func key(source domain.SourceKind, username string) string {
	return string(source) + ":" + strings.ToLower(strings.TrimSpace(username))
}
