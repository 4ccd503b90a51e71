package catalog

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

// OrderLine línea solicitada al crear un pedido.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// OrderInput datos para crear un pedido.
type OrderInput struct {
	Items           []OrderLine
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
}

// OrderWorkflow es dueño de la colección de pedidos y de sus transiciones de estado.
type OrderWorkflow struct {
	seq      Sequencer
	items    []*entity.Order
	byID     map[string]*entity.Order
	products *ProductRegistry
	now      func() time.Time
}

// NewOrderWorkflow crea un flujo vacío que descuenta stock de products.
func NewOrderWorkflow(products *ProductRegistry, now func() time.Time) *OrderWorkflow {
	if now == nil {
		now = time.Now
	}
	return &OrderWorkflow{byID: make(map[string]*entity.Order), products: products, now: now}
}

// Create verifica todas las líneas y solo entonces descuenta stock y registra el pedido.
// Si alguna línea falla no se modifica ningún producto.
func (w *OrderWorkflow) Create(in OrderInput) (*entity.Order, error) {
	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.CustomerPhone)
	address := strings.TrimSpace(in.CustomerAddress)
	switch {
	case len(in.Items) == 0:
		return nil, fmt.Errorf("%w: el pedido no tiene productos", domain.ErrInvalidInput)
	case name == "" || phone == "" || address == "":
		return nil, fmt.Errorf("%w: nombre, teléfono y dirección del cliente son obligatorios", domain.ErrInvalidInput)
	}

	// Verificación: cantidades acumuladas por producto, sin mutar.
	requested := make(map[string]int, len(in.Items))
	for i, line := range in.Items {
		id := strings.TrimSpace(line.ProductID)
		if id == "" {
			return nil, fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea %d con cantidad inválida", domain.ErrInvalidInput, i+1)
		}
		if requested[id] > math.MaxInt-line.Quantity {
			return nil, fmt.Errorf("%w: cantidad total de %s fuera de rango", domain.ErrInsufficientStock, id)
		}
		requested[id] += line.Quantity
	}
	for _, line := range in.Items {
		id := strings.TrimSpace(line.ProductID)
		p, ok := w.products.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		if qty := requested[id]; qty > p.Stock {
			return nil, fmt.Errorf("%w: %s disponible %d, solicitado %d", domain.ErrInsufficientStock, p.Name, p.Stock, qty)
		}
	}

	// Confirmación.
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		id := strings.TrimSpace(line.ProductID)
		p, _ := w.products.Get(id)
		items = append(items, entity.OrderItem{
			ProductID:   p.ID,
			Quantity:    line.Quantity,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			ImageURL:    p.ImageURL,
		})
		if _, err := w.products.AdjustStock(id, -line.Quantity); err != nil {
			return nil, fmt.Errorf("%w: stock cambió durante la confirmación: %w", domain.ErrInternal, err)
		}
	}

	o := &entity.Order{
		ID:              w.nextID(),
		Items:           items,
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: address,
		CreatedAt:       w.now(),
		Status:          entity.OrderPending,
	}
	w.items = append(w.items, o)
	w.byID[o.ID] = o
	return o, nil
}

// Complete marca el pedido como concluido. Devuelve changed=false si ya lo estaba.
func (w *OrderWorkflow) Complete(id string) (o *entity.Order, changed bool, err error) {
	o, ok := w.byID[id]
	if !ok {
		return nil, false, domain.ErrOrderNotFound
	}
	if o.Status == entity.OrderCompleted {
		return o, false, nil
	}
	o.Status = entity.OrderCompleted
	return o, true, nil
}

// Delete elimina un pedido concluido.
func (w *OrderWorkflow) Delete(id string) error {
	o, ok := w.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status == entity.OrderPending {
		return domain.ErrOrderPending
	}
	delete(w.byID, id)
	for i, it := range w.items {
		if it.ID == id {
			w.items = append(w.items[:i], w.items[i+1:]...)
			break
		}
	}
	return nil
}

// HasPendingReference implementa PendingReferences.
func (w *OrderWorkflow) HasPendingReference(productID string) bool {
	for _, o := range w.items {
		if o.Status != entity.OrderPending {
			continue
		}
		for _, it := range o.Items {
			if it.ProductID == productID {
				return true
			}
		}
	}
	return false
}

// Get devuelve el pedido vivo.
func (w *OrderWorkflow) Get(id string) (*entity.Order, bool) {
	o, ok := w.byID[id]
	return o, ok
}

// Len cantidad de pedidos.
func (w *OrderWorkflow) Len() int { return len(w.items) }

// Snapshot copia profunda de la colección.
func (w *OrderWorkflow) Snapshot() []entity.Order {
	out := make([]entity.Order, 0, len(w.items))
	for _, o := range w.items {
		out = append(out, o.Clone())
	}
	return out
}

// Reset reemplaza la colección y observa cada id.
func (w *OrderWorkflow) Reset(orders []entity.Order) (nonNumeric, duplicates []string) {
	w.items = make([]*entity.Order, 0, len(orders))
	w.byID = make(map[string]*entity.Order, len(orders))
	for i := range orders {
		o := orders[i].Clone()
		if _, dup := w.byID[o.ID]; dup {
			duplicates = append(duplicates, o.ID)
			continue
		}
		if !w.seq.Observe(o.ID) {
			nonNumeric = append(nonNumeric, o.ID)
		}
		w.items = append(w.items, &o)
		w.byID[o.ID] = &o
	}
	return nonNumeric, duplicates
}

func (w *OrderWorkflow) nextID() string {
	for {
		id := w.seq.Next()
		if _, taken := w.byID[id]; !taken {
			return id
		}
	}
}
