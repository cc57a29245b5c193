package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/ports"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
)

// OrderUseCase consultas de operador sobre pedidos confirmados.
type OrderUseCase struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	receipts  ports.ReceiptGenerator
}

// NewOrderUseCase construye el caso de uso. receipts puede ser nil si no se exponen comprobantes.
func NewOrderUseCase(orders repository.OrderRepository, customers repository.CustomerRepository, receipts ports.ReceiptGenerator) *OrderUseCase {
	return &OrderUseCase{orders: orders, customers: customers, receipts: receipts}
}

// GetOrder obtiene un pedido con el teléfono del cliente.
// Retorna domain.ErrNotFound si no existe.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, customer, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order, customer)
	return &resp, nil
}

// ListCustomerOrders lista los pedidos del cliente identificado por su teléfono.
// Retorna domain.ErrNotFound si el teléfono no tiene cliente.
func (uc *OrderUseCase) ListCustomerOrders(ctx context.Context, phone string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	if phone == "" {
		return nil, domain.ErrInvalidInput
	}
	page.Normalize()

	customer, err := uc.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	list, err := uc.orders.ListByCustomer(ctx, customer.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOrderResponse(o, customer))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}, nil
}

// Receipt genera el comprobante PDF del pedido y el nombre de archivo sugerido.
func (uc *OrderUseCase) Receipt(ctx context.Context, id string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("comprobantes no configurados")
	}
	order, customer, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.receipts.GenerateOrderReceipt(ctx, order, customer)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, "order-" + order.ID + ".pdf", nil
}

func (uc *OrderUseCase) load(ctx context.Context, id string) (*entity.Order, *entity.Customer, error) {
	if id == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener pedido: %w", err)
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}
	customer, err := uc.customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener cliente: %w", err)
	}
	return order, customer, nil
}

func toOrderResponse(o *entity.Order, c *entity.Customer) dto.OrderResponse {
	items := make([]dto.LineItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.LineItemResponse{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
		})
	}
	resp := dto.OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Items:      items,
		TotalPrice: o.TotalPrice,
		Address:    o.Address,
		CreatedAt:  o.CreatedAt,
	}
	if c != nil {
		resp.Phone = c.Phone
	}
	return resp
}
