package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/vortex-catalogo/internal/application/ports"
)

var _ ports.Cache = (*MemoryCache)(nil)

type entry struct {
	value   []byte
	expires time.Time
}

// MemoryCache caché en proceso con expiración por entrada. Las entradas vencidas
// se descartan al leerlas.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemoryCache crea una caché vacía.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{items: make(map[string]entry), defaultTTL: defaultTTL, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.items, key)
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}
