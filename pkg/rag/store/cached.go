package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const corpusKey = "corpus"

// Cached keeps a snapshot of All for ttl. Writes through it drop the
// snapshot; writes made elsewhere are picked up on Invalidate or expiry.
type Cached struct {
	Store
	cache *cache.Cache
}

var _ Store = (*Cached)(nil)

func NewCached(s Store, ttl time.Duration) *Cached {
	return &Cached{Store: s, cache: cache.New(ttl, 2*ttl)}
}

func (c *Cached) All(ctx context.Context) ([]Document, error) {
	if x, ok := c.cache.Get(corpusKey); ok {
		return x.([]Document), nil
	}
	docs, err := c.Store.All(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(corpusKey, docs)
	return docs, nil
}

func (c *Cached) Invalidate() {
	c.cache.Delete(corpusKey)
}

func (c *Cached) Insert(ctx context.Context, title, body string, metadata map[string]interface{}) (uint, error) {
	defer c.Invalidate()
	return c.Store.Insert(ctx, title, body, metadata)
}

func (c *Cached) Clear(ctx context.Context) error {
	defer c.Invalidate()
	return c.Store.Clear(ctx)
}

func (c *Cached) Reseed(ctx context.Context, title, body, marker string) (bool, error) {
	defer c.Invalidate()
	return c.Store.Reseed(ctx, title, body, marker)
}

func (c *Cached) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	defer c.Invalidate()
	return c.Store.DeleteByTitle(ctx, title)
}
