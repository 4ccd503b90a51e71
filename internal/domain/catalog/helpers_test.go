package catalog_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

// fakeHasher evita el costo de bcrypt. Los hashes "legacy:" simulan el esquema anterior.
type fakeHasher struct{}

func (fakeHasher) Hash(pw string) (string, error) { return "h:" + pw, nil }

func (fakeHasher) Verify(pw, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "h:"):
		return hash == "h:"+pw, nil
	case strings.HasPrefix(hash, "legacy:"):
		return hash == "legacy:"+pw, nil
	}
	return false, errors.New("hash desconocido")
}

func (fakeHasher) NeedsRehash(hash string) bool { return strings.HasPrefix(hash, "legacy:") }

// memStore guarda snapshots en memoria y puede fallar a pedido.
type memStore struct {
	mu    sync.Mutex
	snap  repository.Snapshot
	saves int
	fail  error
}

func (s *memStore) Load(context.Context) (*repository.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.snap
	return &cp, nil
}

func (s *memStore) Save(_ context.Context, snap *repository.Snapshot, cols ...repository.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.saves++
	for _, c := range cols {
		switch c {
		case repository.CollectionProducts:
			s.snap.Products = snap.Products
		case repository.CollectionOrders:
			s.snap.Orders = snap.Orders
		case repository.CollectionUsers:
			s.snap.Users = snap.Users
		}
	}
	return nil
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// recInvalidator registra las colecciones invalidadas.
type recInvalidator struct {
	mu   sync.Mutex
	seen []repository.Collection
}

func (r *recInvalidator) Invalidate(_ context.Context, c repository.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, c)
	return nil
}

func (r *recInvalidator) collections() []repository.Collection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]repository.Collection(nil), r.seen...)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)

func newTestCatalog(t *testing.T, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	base := []catalog.Option{catalog.WithClock(func() time.Time { return fixedNow })}
	return catalog.New(fakeHasher{}, append(base, opts...)...)
}

func mustProduct(t *testing.T, c *catalog.Catalog, name string, price string, stock int) entity.Product {
	t.Helper()
	p, err := c.CreateProduct(context.Background(), catalog.ProductInput{
		Name:        name,
		Description: "descripción de " + name,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	})
	require.NoError(t, err)
	return p
}

func orderFor(lines ...catalog.OrderLine) catalog.OrderInput {
	return catalog.OrderInput{
		Items:           lines,
		CustomerName:    "Maria Souza",
		CustomerPhone:   "11987654321",
		CustomerAddress: "Rua das Flores, 10",
	}
}

// seedManager crea la cuenta raíz (id "1") como gerente y la devuelve como actor.
func seedManager(t *testing.T, c *catalog.Catalog) catalog.Actor {
	t.Helper()
	u, created, err := c.EnsureManager(context.Background(), catalog.UserInput{
		Name:     "Administrador",
		Email:    "admin@vortex.com",
		Phone:    "11999999999",
		Password: "admin@2025",
	})
	require.NoError(t, err)
	require.True(t, created)
	return catalog.Actor{UserID: u.ID, Role: u.Role}
}

var devActor = catalog.Actor{Role: entity.RoleDev}

func ptr[T any](v T) *T { return &v }
