// Package cache provides the resolution cache decorator. Caching is an
// external concern: the resolver never sees it, and a TTL of zero bypasses
// the cache entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"ixp-backend/application/ports"
	"ixp-backend/domain/core/entities"
)

type cachedEntry struct {
	record    *entities.ResolutionRecord
	expiresAt time.Time
}

// ResolutionCache is a bounded LRU with per-entry TTL taken from each
// record's cache hint.
type ResolutionCache struct {
	entries *lru.Cache[string, cachedEntry]
}

// NewResolutionCache creates a cache bounded to maxEntries records.
func NewResolutionCache(maxEntries int) (*ResolutionCache, error) {
	entries, err := lru.New[string, cachedEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &ResolutionCache{entries: entries}, nil
}

var _ ports.ResolutionCache = (*ResolutionCache)(nil)

// Get returns a cached record if present and unexpired.
func (c *ResolutionCache) Get(key string) (*entities.ResolutionRecord, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.record, true
}

// Set stores a record for ttlSeconds. Zero or negative TTLs are ignored.
func (c *ResolutionCache) Set(key string, record *entities.ResolutionRecord, ttlSeconds int) {
	if ttlSeconds <= 0 {
		return
	}
	c.entries.Add(key, cachedEntry{
		record:    record,
		expiresAt: time.Now().Add(time.Duration(ttlSeconds) * time.Second),
	})
}

// Key derives a stable cache key from the request identity: intent name,
// parameters, and context all shape the resolved record.
func Key(name string, parameters, requestContext map[string]interface{}) string {
	payload, _ := json.Marshal(struct {
		Name       string                 `json:"name"`
		Parameters map[string]interface{} `json:"parameters"`
		Context    map[string]interface{} `json:"context"`
	}{name, parameters, requestContext})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
