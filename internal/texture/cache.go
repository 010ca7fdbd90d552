package texture

import (
	"image"
	"sync"
)

// Resolver resolves a texture name to decoded pixels.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache decodes each indexed file at most once. Failed decodes are cached
// as nil so they are not retried.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*image.NRGBA
	index  *Index
	dec    *Decoder
	params Params
}

var _ Resolver = (*Cache)(nil)

// NewCache creates a cache over index. params supplies the flip flags
// applied to every decode.
func NewCache(index *Index, dec *Decoder, params Params) *Cache {
	return &Cache{
		items:  make(map[string]*image.NRGBA),
		index:  index,
		dec:    dec,
		params: params,
	}
}

// Resolve returns nil when the name is unknown or its file does not decode.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	entry, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}
	key := entry.Provider.Name() + ":" + entry.Path

	c.mu.RLock()
	img, exists := c.items[key]
	c.mu.RUnlock()
	if exists {
		return img
	}

	img = c.load(entry.Path, entry.Read)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.items[key]; exists {
		return cached
	}
	c.items[key] = img
	return img
}

func (c *Cache) load(name string, read func() ([]byte, error)) *image.NRGBA {
	raw, err := read()
	if err != nil {
		c.dec.log.Warn("texture read failed", "path", name, "err", err)
		return nil
	}
	p := c.params
	p.Name = name
	img, err := c.dec.DecodeImage(raw, p)
	if err != nil {
		c.dec.log.Warn("texture decode failed", "path", name, "err", err)
		return nil
	}
	return img
}

// Len reports how many files have been attempted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
