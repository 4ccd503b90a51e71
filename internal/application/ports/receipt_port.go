package ports

import (
	"context"

	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

// ReceiptRenderer genera el comprobante imprimible de un pedido.
type ReceiptRenderer interface {
	RenderOrderReceipt(ctx context.Context, order entity.Order) ([]byte, error)
}
