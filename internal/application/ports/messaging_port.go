package ports

import (
	"context"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
)

// Messenger define el puerto de salida hacia el proveedor de mensajería.
// Cada envío es at-most-once: un error se registra en el caller y no se reintenta.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to string, prompt dto.ButtonPrompt) error
	SendProductList(ctx context.Context, to string, list dto.ProductList) error
}

// CatalogService obtiene en vivo los productos publicados en el catálogo.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]dto.CatalogProduct, error)
}
