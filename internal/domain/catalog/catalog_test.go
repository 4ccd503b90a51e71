package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
)

func TestLoad_ObservaIdsExistentes(t *testing.T) {
	store := &memStore{}
	store.snap.Products = []entity.Product{
		{ID: "4", Name: "A", Description: "a", Price: decimal.NewFromInt(1), Stock: 1},
		{ID: "legacy-9", Name: "B", Description: "b", Price: decimal.NewFromInt(1), Stock: 1},
		{ID: "2", Name: "C", Description: "c", Price: decimal.NewFromInt(1), Stock: 1},
	}
	store.snap.Orders = []entity.Order{{ID: "10", Status: entity.OrderCompleted}}
	c := newTestCatalog(t, catalog.WithStore(store))
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	p := mustProduct(t, c, "Nuevo", "5.00", 1)
	assert.Equal(t, "5", p.ID)

	// Volver a cargar no baja la marca.
	require.NoError(t, c.Load(ctx))
	p = mustProduct(t, c, "Otro", "5.00", 1)
	assert.Equal(t, "6", p.ID, "la marca nunca retrocede")

	o, err := c.CreateOrder(ctx, orderFor(catalog.OrderLine{ProductID: "legacy-9", Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, "11", o.ID)
}

func TestLoad_GuardaPedidosMigrados(t *testing.T) {
	store := &memStore{}
	store.snap.Orders = []entity.Order{{ID: "1", Status: entity.OrderCompleted}}
	store.snap.MigratedOrders = true
	c := newTestCatalog(t, catalog.WithStore(store))

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, 1, store.saveCount())
}

func TestMutacion_GuardaEInvalida(t *testing.T) {
	store := &memStore{}
	inv := &recInvalidator{}
	c := newTestCatalog(t, catalog.WithStore(store), catalog.WithInvalidator(inv))
	ctx := context.Background()

	p := mustProduct(t, c, "Tablet Pro", "2499.99", 10)
	require.Len(t, store.snap.Products, 1)
	assert.Equal(t, []repository.Collection{repository.CollectionProducts}, inv.collections())

	_, err := c.CreateOrder(ctx, orderFor(catalog.OrderLine{ProductID: p.ID, Quantity: 4}))
	require.NoError(t, err)
	assert.Equal(t, 6, store.snap.Products[0].Stock)
	assert.Len(t, store.snap.Orders, 1)
	assert.Equal(t, []repository.Collection{
		repository.CollectionProducts,
		repository.CollectionProducts,
		repository.CollectionOrders,
	}, inv.collections())
}

func TestMutacion_SinCambiosSiFallaValidacion(t *testing.T) {
	store := &memStore{}
	inv := &recInvalidator{}
	c := newTestCatalog(t, catalog.WithStore(store), catalog.WithInvalidator(inv))

	_, err := c.CreateProduct(context.Background(), catalog.ProductInput{Name: "x"})
	require.Error(t, err)
	assert.Zero(t, store.saveCount())
	assert.Empty(t, inv.collections())
}

func TestMutacion_FalloDeGuardadoRevierte(t *testing.T) {
	store := &memStore{}
	inv := &recInvalidator{}
	c := newTestCatalog(t, catalog.WithStore(store), catalog.WithInvalidator(inv))
	ctx := context.Background()
	p := mustProduct(t, c, "Tablet Pro", "2499.99", 10)
	signals := len(inv.collections())

	store.fail = errors.New("disco lleno")
	_, err := c.CreateOrder(ctx, orderFor(catalog.OrderLine{ProductID: p.ID, Quantity: 4}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.ErrorContains(t, err, "disco lleno")
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	got, _ := c.Product(p.ID)
	assert.Equal(t, 10, got.Stock, "el stock vuelve al valor anterior")
	assert.Empty(t, c.Orders())
	assert.Len(t, inv.collections(), signals, "no se invalida si no se guardó")

	// Un id consumido por un intento fallido no se reutiliza.
	store.fail = nil
	o, err := c.CreateOrder(ctx, orderFor(catalog.OrderLine{ProductID: p.ID, Quantity: 4}))
	require.NoError(t, err)
	assert.Equal(t, "2", o.ID)
}

func TestCatalogoSinStore_SoloMemoria(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Load(context.Background()))
	mustProduct(t, c, "Tablet Pro", "2499.99", 10)
	products, orders, users := c.Counts()
	assert.Equal(t, 1, products)
	assert.Zero(t, orders)
	assert.Zero(t, users)
}
