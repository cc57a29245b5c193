package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem una línea de pedido capturada desde texto libre.
type LineItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal precio unitario por cantidad.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DraftOrder pedido en construcción, propiedad del cliente hasta su promoción.
type DraftOrder struct {
	Items      []LineItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewDraftOrder calcula el total a partir de las líneas.
func NewDraftOrder(items ...LineItem) *DraftOrder {
	d := &DraftOrder{Items: append([]LineItem(nil), items...)}
	d.TotalPrice = SumItems(d.Items)
	return d
}

// Order pedido confirmado. Inmutable una vez creado.
type Order struct {
	ID         string
	CustomerID string
	Items      []LineItem
	TotalPrice decimal.Decimal
	Address    string
	CreatedAt  time.Time
}

// PromoteDraft copia líneas, total y dirección del borrador a un Order nuevo.
func PromoteDraft(id, customerID string, draft *DraftOrder, address string, now time.Time) *Order {
	return &Order{
		ID:         id,
		CustomerID: customerID,
		Items:      append([]LineItem(nil), draft.Items...),
		TotalPrice: draft.TotalPrice,
		Address:    address,
		CreatedAt:  now,
	}
}

// SumItems suma los subtotales de las líneas.
func SumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
