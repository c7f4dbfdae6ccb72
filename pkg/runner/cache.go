package runner

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/transform-imports/pkg/transform"
)

type cacheEntry struct {
	contentHash string
	result      *transform.Result
}

// ResultCache remembers transform results per file path. An entry is only
// returned while the file content still hashes to the value it was stored
// with.
//
// Thread Safety: safe for concurrent use; the underlying LRU is locked.
type ResultCache struct {
	cache *lru.Cache[string, cacheEntry]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewResultCache creates a cache holding at most size files.
func NewResultCache(size int) (*ResultCache, error) {
	c := &ResultCache{}
	cache, err := lru.NewWithEvict(size, func(string, cacheEntry) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.cache = cache
	return c, nil
}

// Get returns the cached result for path if content is unchanged.
func (c *ResultCache) Get(path string, content []byte) (*transform.Result, bool) {
	entry, ok := c.cache.Get(path)
	if !ok || entry.contentHash != hashContent(content) {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.result, true
}

// Add stores result for path at the given content.
func (c *ResultCache) Add(path string, content []byte, result *transform.Result) {
	c.cache.Add(path, cacheEntry{
		contentHash: hashContent(content),
		result:      result,
	})
}

// Remove drops path from the cache.
func (c *ResultCache) Remove(path string) {
	c.cache.Remove(path)
}

// Len returns the number of cached files.
func (c *ResultCache) Len() int {
	return c.cache.Len()
}

// Stats returns hit, miss and eviction counts.
func (c *ResultCache) Stats() (hits, misses, evictions int64) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load()
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
