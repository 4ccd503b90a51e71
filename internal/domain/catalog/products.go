package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

// ProductInput datos para crear un producto.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

// ProductPatch actualización parcial: los campos nil no se modifican.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
}

// PendingReferences responde si algún pedido pendiente referencia un producto.
type PendingReferences interface {
	HasPendingReference(productID string) bool
}

// ProductRegistry es dueño de la colección de productos.
type ProductRegistry struct {
	seq   Sequencer
	items []*entity.Product
	byID  map[string]*entity.Product
	now   func() time.Time
}

// NewProductRegistry crea un registro vacío.
func NewProductRegistry(now func() time.Time) *ProductRegistry {
	if now == nil {
		now = time.Now
	}
	return &ProductRegistry{byID: make(map[string]*entity.Product), now: now}
}

// Create valida y agrega un producto nuevo.
func (r *ProductRegistry) Create(in ProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if err := validateProduct(name, desc, in.Price, in.Stock); err != nil {
		return nil, err
	}
	p := &entity.Product{
		ID:          r.nextID(),
		Name:        name,
		Description: desc,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		UpdatedAt:   r.now(),
	}
	r.items = append(r.items, p)
	r.byID[p.ID] = p
	return p, nil
}

// Update aplica una actualización parcial. Un nuevo stock absoluto se aplica como ajuste.
func (r *ProductRegistry) Update(id string, patch ProductPatch) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	name, desc, price, stock := p.Name, p.Description, p.Price, p.Stock
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		desc = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		price = *patch.Price
	}
	if patch.Stock != nil {
		stock = *patch.Stock
	}
	if err := validateProduct(name, desc, price, stock); err != nil {
		return nil, err
	}
	if delta := stock - p.Stock; delta != 0 {
		if _, err := r.AdjustStock(id, delta); err != nil {
			return nil, err
		}
	}
	p.Name = name
	p.Description = desc
	p.Price = price
	if patch.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	p.UpdatedAt = r.now()
	return p, nil
}

// AdjustStock suma delta al stock. Es el único punto donde cambia el stock:
// si el resultado fuese negativo devuelve ErrInsufficientStock y no modifica nada.
func (r *ProductRegistry) AdjustStock(id string, delta int) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	next := p.Stock + delta
	if next < 0 {
		return nil, fmt.Errorf("%w: producto %s disponible %d, solicitado %d", domain.ErrInsufficientStock, p.ID, p.Stock, -delta)
	}
	p.Stock = next
	p.UpdatedAt = r.now()
	return p, nil
}

// Delete elimina el producto si ningún pedido pendiente lo referencia.
func (r *ProductRegistry) Delete(id string, refs PendingReferences) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	if refs != nil && refs.HasPendingReference(id) {
		return domain.ErrProductInPendingOrder
	}
	delete(r.byID, id)
	for i, p := range r.items {
		if p.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	return nil
}

// Get devuelve el producto vivo; el agregado lo copia antes de entregarlo.
func (r *ProductRegistry) Get(id string) (*entity.Product, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Len cantidad de productos.
func (r *ProductRegistry) Len() int { return len(r.items) }

// Snapshot copia la colección en orden de inserción.
func (r *ProductRegistry) Snapshot() []entity.Product {
	out := make([]entity.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, *p)
	}
	return out
}

// Reset reemplaza la colección y observa cada id en el secuenciador.
// Devuelve los ids no numéricos y los duplicados descartados.
func (r *ProductRegistry) Reset(products []entity.Product) (nonNumeric, duplicates []string) {
	r.items = make([]*entity.Product, 0, len(products))
	r.byID = make(map[string]*entity.Product, len(products))
	for i := range products {
		p := products[i]
		if _, dup := r.byID[p.ID]; dup {
			duplicates = append(duplicates, p.ID)
			continue
		}
		if !r.seq.Observe(p.ID) {
			nonNumeric = append(nonNumeric, p.ID)
		}
		r.items = append(r.items, &p)
		r.byID[p.ID] = &p
	}
	return nonNumeric, duplicates
}

func (r *ProductRegistry) nextID() string {
	for {
		id := r.seq.Next()
		if _, taken := r.byID[id]; !taken {
			return id
		}
	}
}

func validateProduct(name, desc string, price decimal.Decimal, stock int) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: el nombre del producto es obligatorio", domain.ErrInvalidInput)
	case desc == "":
		return fmt.Errorf("%w: la descripción del producto es obligatoria", domain.ErrInvalidInput)
	case price.IsNegative():
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	case stock < 0:
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}
