package dto

import (
	"time"

	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/pkg/numeric"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Price       numeric.Decimal `json:"preco"`
	Stock       numeric.Int     `json:"quantidade_estoque"`
	ImageURL    string          `json:"imagem_url"`
}

// UpdateProductRequest actualización parcial: los campos ausentes no cambian.
// quantidade_estoque es un valor absoluto.
type UpdateProductRequest struct {
	Name        *string          `json:"nome"`
	Description *string          `json:"descricao"`
	Price       *numeric.Decimal `json:"preco"`
	Stock       *numeric.Int     `json:"quantidade_estoque"`
	ImageURL    *string          `json:"imagem_url"`
}

// AdjustStockRequest suma (o resta, si es negativa) quantidade al stock.
type AdjustStockRequest struct {
	Quantity *numeric.Int `json:"quantidade"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Price       numeric.Decimal `json:"preco"`
	Stock       int             `json:"quantidade_estoque"`
	ImageURL    *string         `json:"imagem_url"`
	UpdatedAt   string          `json:"data_atualizacao"`
}

// StockResponse resultado de un ajuste de stock.
type StockResponse struct {
	Message   string `json:"mensagem"`
	ProductID string `json:"produto_id"`
	Stock     int    `json:"nova_quantidade"`
}

// NewProductResponse convierte la entidad.
func NewProductResponse(p entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       numeric.NewDecimal(p.Price),
		Stock:       p.Stock,
		ImageURL:    optional(p.ImageURL),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}
