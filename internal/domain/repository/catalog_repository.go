package repository

import (
	"context"

	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

// Collection identifica una de las colecciones del catálogo. El valor es el nombre del documento persistido.
type Collection string

const (
	CollectionProducts Collection = "produtos"
	CollectionOrders   Collection = "pedidos"
	CollectionUsers    Collection = "usuarios"
)

// AllCollections en el orden en que se cargan y guardan.
var AllCollections = []Collection{CollectionProducts, CollectionOrders, CollectionUsers}

// Snapshot copia completa de las colecciones del catálogo.
type Snapshot struct {
	Products []entity.Product
	Orders   []entity.Order
	Users    []entity.User
	// MigratedOrders indica que al cargar se reescribieron estados heredados y conviene volver a guardar pedidos.
	MigratedOrders bool
}

// CatalogStore define el puerto de persistencia del catálogo (DIP).
// La durabilidad es por colección completa: cada Save reescribe los documentos indicados.
type CatalogStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot, collections ...Collection) error
}

// CacheInvalidator define el puerto para invalidar vistas de lectura derivadas de una colección.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, collection Collection) error
}
