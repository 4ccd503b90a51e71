package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta, nunca negativo
	Stock       int             // nunca negativo; solo cambia vía ajuste de stock
	ImageURL    string          // opcional
	UpdatedAt   time.Time
}
