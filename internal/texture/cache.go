package texture

import (
	"image"

	"github.com/patrickmn/go-cache"
)

// Resolver resolves a texture name to a decoded image.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Failed loads are cached as
// nil so a broken file is only read once.
type Cache struct {
	items *cache.Cache
	index *Index
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: cache.New(cache.NoExpiration, 0),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found.
func (c *Cache) Resolve(name string) *image.NRGBA {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil
	}

	if v, found := c.items.Get(path); found {
		return v.(*image.NRGBA)
	}

	img, _ := LoadTexture(path)

	// another worker may have loaded it meanwhile; keep the first copy
	if err := c.items.Add(path, img, cache.NoExpiration); err != nil {
		if v, found := c.items.Get(path); found {
			return v.(*image.NRGBA)
		}
	}
	return img
}

// Len returns the number of cached paths, including failed loads.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}
