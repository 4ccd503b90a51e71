package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/vortex-catalogo/internal/application/dto"
	"github.com/jhoicas/vortex-catalogo/internal/application/ports"
	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
)

// ProductUseCase casos de uso de productos. Las lecturas pasan por la caché de vistas.
type ProductUseCase struct {
	catalog ProductCatalog
	views   ViewCache
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(c ProductCatalog, views ViewCache) *ProductUseCase {
	return &ProductUseCase{catalog: c, views: views}
}

// List devuelve todos los productos en orden de creación.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	return cachedView(ctx, uc.views, ports.CacheKeyProducts, func() ([]dto.ProductResponse, error) {
		products := uc.catalog.Products()
		out := make([]dto.ProductResponse, 0, len(products))
		for _, p := range products {
			out = append(out, dto.NewProductResponse(p))
		}
		return out, nil
	})
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	resp, err := cachedView(ctx, uc.views, ports.CacheKeyProduct(id), func() (dto.ProductResponse, error) {
		p, err := uc.catalog.Product(id)
		if err != nil {
			return dto.ProductResponse{}, err
		}
		return dto.NewProductResponse(p), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create crea un producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.catalog.CreateProduct(ctx, catalog.ProductInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Decimal,
		Stock:       int(in.Stock),
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(p)
	return &resp, nil
}

// Update actualiza parcialmente un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	patch := catalog.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if in.Price != nil {
		price := in.Price.Decimal
		patch.Price = &price
	}
	if in.Stock != nil {
		stock := int(*in.Stock)
		patch.Stock = &stock
	}
	p, err := uc.catalog.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(p)
	return &resp, nil
}

// AdjustStock suma la cantidad indicada (puede ser negativa) al stock.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id string, in dto.AdjustStockRequest) (*dto.StockResponse, error) {
	if in.Quantity == nil {
		return nil, fmt.Errorf("%w: la cantidad es obligatoria", domain.ErrInvalidInput)
	}
	p, err := uc.catalog.AdjustStock(ctx, id, int(*in.Quantity))
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		Message:   "Estoque atualizado com sucesso",
		ProductID: p.ID,
		Stock:     p.Stock,
	}, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.catalog.DeleteProduct(ctx, id)
}
