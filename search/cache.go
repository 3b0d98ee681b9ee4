package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// resultCache memoizes whole result sets. Keys include the store
// generation, so entries for a mutated index simply stop being hit and age
// out of the LRU.
type resultCache struct {
	entries *lru.Cache[string, []Result]
}

func newResultCache(size int) *resultCache {
	if size <= 0 {
		return &resultCache{}
	}
	entries, err := lru.New[string, []Result](size)
	if err != nil {
		return &resultCache{}
	}
	return &resultCache{entries: entries}
}

func cacheKey(generation uint64, kind Kind, query string, opts Options) string {
	payload := fmt.Sprintf("%d|%s|%s|%t|%s|%d",
		generation, kind, query, opts.CaseSensitive,
		strings.Join(opts.Extensions, ","), opts.MaxResults)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func (c *resultCache) get(generation uint64, kind Kind, query string, opts Options) ([]Result, bool) {
	if c.entries == nil {
		return nil, false
	}
	cached, ok := c.entries.Get(cacheKey(generation, kind, query, opts))
	if !ok {
		return nil, false
	}
	return append([]Result(nil), cached...), true
}

func (c *resultCache) put(generation uint64, kind Kind, query string, opts Options, results []Result) {
	if c.entries == nil {
		return
	}
	c.entries.Add(cacheKey(generation, kind, query, opts), append([]Result(nil), results...))
}
