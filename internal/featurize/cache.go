// internal/featurize/cache.go
package featurize

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

// Cache remembers count vectors of recently seen sequences. It is safe for
// concurrent use by all workers of one Compute call.
type Cache struct {
	lru *lru.Cache
}

type cacheEntry struct {
	seq    string
	counts []int
}

// NewCache returns a cache holding at most size vectors.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, errors.Errorf("featurize: cache size must be > 0, got %d", size)
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "featurize: new cache")
	}
	return &Cache{lru: c}, nil
}

// Len reports the number of cached vectors.
func (c *Cache) Len() int { return c.lru.Len() }

// get returns a private copy of the cached vector. Hash collisions are
// detected by comparing the stored sequence.
func (c *Cache) get(seq []byte) ([]int, bool) {
	v, ok := c.lru.Get(xxh3.Hash(seq))
	if !ok {
		return nil, false
	}
	e := v.(cacheEntry)
	if e.seq != string(seq) {
		return nil, false
	}
	return append([]int(nil), e.counts...), true
}

func (c *Cache) add(seq []byte, counts []int) {
	c.lru.Add(xxh3.Hash(seq), cacheEntry{seq: string(seq), counts: append([]int(nil), counts...)})
}
