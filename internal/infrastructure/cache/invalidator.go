package cache

import (
	"context"
	"fmt"

	"github.com/jhoicas/vortex-catalogo/internal/application/ports"
	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
)

var _ repository.CacheInvalidator = (*Invalidator)(nil)

// Invalidator borra las vistas de una colección cuando el catálogo la modifica.
type Invalidator struct {
	cache ports.Cache
}

// NewInvalidator construye el invalidador sobre c.
func NewInvalidator(c ports.Cache) *Invalidator {
	return &Invalidator{cache: c}
}

// Invalidate borra la lista y las vistas individuales de col.
func (i *Invalidator) Invalidate(ctx context.Context, col repository.Collection) error {
	prefix, ok := prefixes[col]
	if !ok {
		return fmt.Errorf("cache: colección desconocida %q", col)
	}
	return i.cache.DeleteByPrefix(ctx, prefix)
}

var prefixes = map[repository.Collection]string{
	repository.CollectionProducts: ports.CachePrefixProducts,
	repository.CollectionOrders:   ports.CachePrefixOrders,
	repository.CollectionUsers:    ports.CachePrefixUsers,
}
