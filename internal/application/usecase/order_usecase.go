package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/vortex-catalogo/internal/application/dto"
	"github.com/jhoicas/vortex-catalogo/internal/application/ports"
	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
)

// OrderUseCase casos de uso de pedidos.
type OrderUseCase struct {
	catalog  OrderCatalog
	receipts ports.ReceiptRenderer
	views    ViewCache
}

// NewOrderUseCase construye el caso de uso. receipts puede ser nil si no se generan comprobantes.
func NewOrderUseCase(c OrderCatalog, receipts ports.ReceiptRenderer, views ViewCache) *OrderUseCase {
	return &OrderUseCase{catalog: c, receipts: receipts, views: views}
}

// List devuelve todos los pedidos en orden de creación.
func (uc *OrderUseCase) List(ctx context.Context) ([]dto.OrderResponse, error) {
	return cachedView(ctx, uc.views, ports.CacheKeyOrders, func() ([]dto.OrderResponse, error) {
		orders := uc.catalog.Orders()
		out := make([]dto.OrderResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, dto.NewOrderResponse(o))
		}
		return out, nil
	})
}

// GetByID obtiene un pedido.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	resp, err := cachedView(ctx, uc.views, ports.CacheKeyOrder(id), func() (dto.OrderResponse, error) {
		o, err := uc.catalog.Order(id)
		if err != nil {
			return dto.OrderResponse{}, err
		}
		return dto.NewOrderResponse(o), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create registra un pedido y descuenta el stock.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	lines := make([]catalog.OrderLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, catalog.OrderLine{ProductID: it.ProductID, Quantity: int(it.Quantity)})
	}
	o, err := uc.catalog.CreateOrder(ctx, catalog.OrderInput{
		Items:           lines,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(o)
	return &resp, nil
}

// Complete concluye un pedido.
func (uc *OrderUseCase) Complete(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.catalog.CompleteOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(o)
	return &resp, nil
}

// Delete elimina un pedido concluido.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	return uc.catalog.DeleteOrder(ctx, id)
}

// Receipt genera el comprobante PDF del pedido.
func (uc *OrderUseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("%w: generador de comprobantes no configurado", domain.ErrInternal)
	}
	o, err := uc.catalog.Order(id)
	if err != nil {
		return nil, err
	}
	return uc.receipts.RenderOrderReceipt(ctx, o)
}
