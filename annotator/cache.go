package annotator

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/hupe1980/annogo/internal/cache"
	"github.com/hupe1980/annogo/types"
)

// Cache memoizes (type, language) → Annotator on top of a Resolver.
//
// Get is atomic per key: concurrent misses for the same key share one
// resolution. The cache is bounded and evicts the least recently used entry.
type Cache struct {
	resolver Resolver
	lru      *cache.LRU[string, Annotator]
	group    singleflight.Group
	logger   *slog.Logger
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Len       int
	Capacity  int
}

type cacheOptions struct {
	capacity int
	logger   *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*cacheOptions)

// WithCapacity bounds the number of cached annotators. Defaults to 1024.
func WithCapacity(n int) CacheOption {
	return func(o *cacheOptions) {
		o.capacity = n
	}
}

// WithCacheLogger sets the logger used for resolution events.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(o *cacheOptions) {
		o.logger = l
	}
}

// NewCache returns an empty cache resolving misses through r.
func NewCache(r Resolver, opts ...CacheOption) *Cache {
	o := cacheOptions{capacity: cache.DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cache{
		resolver: r,
		logger:   o.logger,
	}
	c.lru = cache.NewLRU[string, Annotator](o.capacity, func(key string, _ Annotator) {
		if c.logger != nil {
			c.logger.Debug("annotator evicted", "key", key)
		}
	})
	return c
}

// CacheKey returns the cache key for t in lang. Language-agnostic lookups
// (language.Und) carry no language component.
func CacheKey(t types.Annotatable, lang language.Tag) string {
	if lang == language.Und {
		return t.ID().String()
	}
	return t.ID().String() + "::" + lang.String()
}

// Get returns the annotator for t in lang, resolving it on a miss.
func (c *Cache) Get(t types.Annotatable, lang language.Tag) (Annotator, error) {
	key := CacheKey(t, lang)
	if a, ok := c.lru.Get(key); ok {
		return a, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent flight may have finished between Get and Do.
		if a, ok := c.lru.Peek(key); ok {
			return a, nil
		}
		if c.resolver == nil {
			return nil, fmt.Errorf("%w: %s (%s)", ErrNoAnnotator, t.ID(), lang)
		}
		a, err := c.resolver.Resolve(t, lang)
		if err != nil {
			return nil, err
		}
		if err := validate(a, t); err != nil {
			return nil, err
		}
		c.lru.Set(key, a)
		if c.logger != nil {
			c.logger.Debug("annotator resolved", "key", key, "annotator", Provenance(a))
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Annotator), nil
}

// Set stores a for t in lang, bypassing the resolver.
func (c *Cache) Set(t types.Annotatable, lang language.Tag, a Annotator) error {
	if err := validate(a, t); err != nil {
		return err
	}
	c.lru.Set(CacheKey(t, lang), a)
	return nil
}

// Invalidate drops the entry for t in lang.
func (c *Cache) Invalidate(t types.Annotatable, lang language.Tag) bool {
	return c.lru.Delete(CacheKey(t, lang))
}

// InvalidateType drops the entries for t in every language.
func (c *Cache) InvalidateType(t types.Annotatable) int {
	id := t.ID().String()
	return c.lru.Invalidate(func(key string) bool {
		return key == id || strings.HasPrefix(key, id+"::")
	})
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Len returns the number of cached annotators.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Stats returns hit, miss and eviction counters.
func (c *Cache) Stats() CacheStats {
	s := c.lru.Stats()
	return CacheStats{
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
		Len:       s.Len,
		Capacity:  s.Capacity,
	}
}

func validate(a Annotator, t types.Annotatable) error {
	if a == nil {
		return fmt.Errorf("%w: %s", ErrNoAnnotator, t.ID())
	}
	if !a.Satisfies().Contains(t) {
		return fmt.Errorf("%w: %s satisfies %s, not %s", ErrUnsatisfied, Name(a), a.Satisfies(), t.ID())
	}
	return nil
}
