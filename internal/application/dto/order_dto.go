package dto

import (
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/pkg/numeric"
)

// Etiquetas de estado expuestas por la API.
const (
	StatusPending   = "Pendente"
	StatusCompleted = "Concluído"
)

// OrderLineRequest producto y cantidad pedidos.
type OrderLineRequest struct {
	ProductID string      `json:"id"`
	Quantity  numeric.Int `json:"quantidade"`
}

// CreateOrderRequest entrada para crear un pedido.
type CreateOrderRequest struct {
	Items           []OrderLineRequest `json:"produtos"`
	CustomerName    string             `json:"cliente_nome"`
	CustomerPhone   string             `json:"cliente_telefone"`
	CustomerAddress string             `json:"cliente_endereco"`
}

// OrderItemResponse línea de un pedido con el snapshot del producto.
type OrderItemResponse struct {
	ProductID   string          `json:"id"`
	Quantity    int             `json:"quantidade"`
	Name        string          `json:"nome"`
	Price       numeric.Decimal `json:"preco"`
	Description string          `json:"descricao"`
	ImageURL    *string         `json:"imagem_url"`
	Subtotal    numeric.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	Items           []OrderItemResponse `json:"produtos"`
	CustomerName    string              `json:"cliente_nome"`
	CustomerPhone   string              `json:"cliente_telefone"`
	CustomerAddress string              `json:"cliente_endereco"`
	CreatedAt       string              `json:"data_pedido"`
	Status          string              `json:"status"`
	Total           numeric.Decimal     `json:"total"`
}

// NewOrderResponse convierte la entidad.
func NewOrderResponse(o entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Name:        it.Name,
			Price:       numeric.NewDecimal(it.Price),
			Description: it.Description,
			ImageURL:    optional(it.ImageURL),
			Subtotal:    numeric.NewDecimal(it.Subtotal()),
		})
	}
	status := StatusPending
	if o.Status == entity.OrderCompleted {
		status = StatusCompleted
	}
	return OrderResponse{
		ID:              o.ID,
		Items:           items,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		CreatedAt:       formatTime(o.CreatedAt),
		Status:          status,
		Total:           numeric.NewDecimal(o.Total()),
	}
}
