package ports

import (
	"context"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
)

// ReceiptGenerator genera el comprobante PDF de un pedido confirmado.
type ReceiptGenerator interface {
	GenerateOrderReceipt(ctx context.Context, order *entity.Order, customer *entity.Customer) ([]byte, error)
}
