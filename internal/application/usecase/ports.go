package usecase

import (
	"context"

	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

// ProductCatalog operaciones del catálogo sobre productos.
type ProductCatalog interface {
	Products() []entity.Product
	Product(id string) (entity.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (entity.Product, error)
	UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (entity.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// OrderCatalog operaciones del catálogo sobre pedidos.
type OrderCatalog interface {
	Orders() []entity.Order
	Order(id string) (entity.Order, error)
	CreateOrder(ctx context.Context, in catalog.OrderInput) (entity.Order, error)
	CompleteOrder(ctx context.Context, id string) (entity.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// UserCatalog operaciones del catálogo sobre usuarios.
type UserCatalog interface {
	Users() []entity.User
	User(id string) (entity.User, error)
	CreateUser(ctx context.Context, actor catalog.Actor, in catalog.UserInput) (entity.User, error)
	UpdateUser(ctx context.Context, actor catalog.Actor, id string, patch catalog.UserPatch) (entity.User, error)
	DeleteUser(ctx context.Context, actor catalog.Actor, id string) error
	CheckPassword(userID, password string) error
}

// SeedCatalog lo necesario para cargar los datos iniciales.
type SeedCatalog interface {
	Products() []entity.Product
	CreateProduct(ctx context.Context, in catalog.ProductInput) (entity.Product, error)
	EnsureManager(ctx context.Context, in catalog.UserInput) (entity.User, bool, error)
}

var (
	_ ProductCatalog = (*catalog.Catalog)(nil)
	_ OrderCatalog   = (*catalog.Catalog)(nil)
	_ UserCatalog    = (*catalog.Catalog)(nil)
	_ SeedCatalog    = (*catalog.Catalog)(nil)
	_ Generations    = (*catalog.Catalog)(nil)
)
