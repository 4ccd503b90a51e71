package ports

import (
	"context"
	"time"
)

// Claves de las vistas de lectura en caché.
const (
	CacheKeyProducts = "api_produtos"
	CacheKeyOrders   = "api_pedidos"
	CacheKeyUsers    = "api_usuarios"
)

// Prefijos por colección: borrar un prefijo invalida la lista y todas las vistas individuales.
const (
	CachePrefixProducts = "api_produto"
	CachePrefixOrders   = "api_pedido"
	CachePrefixUsers    = "api_usuario"
)

// CacheKeyProduct clave de la vista de un producto.
func CacheKeyProduct(id string) string { return CachePrefixProducts + "_" + id }

// CacheKeyOrder clave de la vista de un pedido.
func CacheKeyOrder(id string) string { return CachePrefixOrders + "_" + id }

// Cache almacena vistas serializadas. Un miss devuelve found=false sin error.
// Los adaptadores (memoria, Redis) implementan esta interfaz; la aplicación nunca
// depende de uno concreto.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
