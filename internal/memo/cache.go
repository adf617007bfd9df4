package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"citrusflow/logger"
)

// Cache memoizes computed analysis views keyed by the dataset fingerprint,
// the view name, and the view parameters. Entries never expire; a dataset
// with a different fingerprint simply produces different keys, so reloading
// the input invalidates everything that depended on the old table.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}

	group singleflight.Group
	log   *logger.Entry

	hits   uint64
	misses uint64
}

// NewCache returns an empty view cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]interface{}),
		log:     logger.GetLogger().WithComponent("memo"),
	}
}

// Key builds the cache key for a view over a dataset. Params must be
// JSON-serializable; identical params always yield the identical key.
func Key(fingerprint, view string, params interface{}) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0x1f})
	h.Write([]byte(view))
	h.Write([]byte{0x1f})
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			// Unserializable params fall back to the formatted value, which
			// still keys deterministically for comparable types.
			raw = []byte(fmt.Sprintf("%+v", params))
		}
		h.Write(raw)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the memoized value for key, or computes it with fn. Concurrent
// callers for the same key share a single computation; fn runs at most once
// per key unless it returns an error, in which case nothing is stored and a
// later call retries.
func (c *Cache) Get(key string, fn func() (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Recheck under the group: a previous flight may have stored the
		// value between our read miss and the Do call.
		c.mu.RLock()
		v, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := fn()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = v
		c.misses++
		c.mu.Unlock()
		c.log.WithFields(logger.Fields{"key": key[:12]}).Debug("view computed")
		return v, nil
	})
	return v, err
}

// Len reports the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Reset drops every memoized entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]interface{})
	c.hits = 0
	c.misses = 0
}
