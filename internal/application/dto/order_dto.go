package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemResponse línea de un pedido en respuestas de la API.
type LineItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse pedido confirmado.
type OrderResponse struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	Phone      string             `json:"phone,omitempty"`
	Items      []LineItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	Address    string             `json:"address"`
	CreatedAt  time.Time          `json:"created_at"`
}

// OrderListResponse listado paginado de pedidos de un cliente.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
