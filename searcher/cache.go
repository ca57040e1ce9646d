package searcher

import (
	"sync"

	"trimatch/game"
)

const cacheStripes = 64

type cacheKey uint64

// Key layout: board (18 bits) | mover (2) | depth (8) | max depth (8)
func newCacheKey(board game.BoardKey, mover game.Player, depth int, cfg Config) cacheKey {
	return cacheKey(uint64(board) |
		uint64(mover)<<18 |
		uint64(depth&0xff)<<20 |
		uint64(cfg.MaxDepth&0xff)<<28)
}

type stripe struct {
	sync.RWMutex
	entries map[cacheKey]int16
}

// Cache memoizes scores by position, mover, depth and depth limit. It is safe for concurrent use.
type Cache struct {
	stripes [cacheStripes]stripe
}

func NewCache() *Cache {
	c := &Cache{}
	for i := range c.stripes {
		c.stripes[i].entries = make(map[cacheKey]int16)
	}
	return c
}

func (c *Cache) stripe(key cacheKey) *stripe {
	// Fibonacci hashing spreads neighbouring board keys over the stripes
	return &c.stripes[(uint64(key)*0x9E3779B97F4A7C15)>>58]
}

func (c *Cache) Get(key cacheKey) (int, bool) {
	s := c.stripe(key)
	s.RLock()
	defer s.RUnlock()

	v, ok := s.entries[key]
	return int(v), ok
}

func (c *Cache) Put(key cacheKey, value int) {
	s := c.stripe(key)
	s.Lock()
	defer s.Unlock()

	s.entries[key] = int16(value)
}

func (c *Cache) Len() int {
	n := 0
	for i := range c.stripes {
		s := &c.stripes[i]
		s.RLock()
		n += len(s.entries)
		s.RUnlock()
	}
	return n
}

func (c *Cache) Clear() {
	for i := range c.stripes {
		s := &c.stripes[i]
		s.Lock()
		s.entries = make(map[cacheKey]int16)
		s.Unlock()
	}
}
