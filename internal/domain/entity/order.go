package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido. Solo avanza Pending -> Completed.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

// OrderItem línea de pedido: copia de los datos del producto al momento de crear el pedido.
// No se actualiza cuando el producto cambia después.
type OrderItem struct {
	ProductID   string
	Quantity    int
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

// Subtotal precio de la línea (precio * cantidad).
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order representa un pedido realizado por un cliente.
type Order struct {
	ID              string
	Items           []OrderItem
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CreatedAt       time.Time
	Status          OrderStatus
}

// Total suma de los subtotales de las líneas.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Clone copia profunda del pedido (incluye las líneas).
func (o *Order) Clone() Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	return c
}
