package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
)

// customerDoc documento de la colección customers.
type customerDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	WhatsappNumber string             `bson:"whatsappNumber"`
	State          string             `bson:"state"`
	CurrentOrder   *draftDoc          `bson:"currentOrder,omitempty"`
	Address        string             `bson:"address,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

type draftDoc struct {
	Items      []itemDoc            `bson:"items"`
	TotalPrice primitive.Decimal128 `bson:"total_price"`
}

type itemDoc struct {
	ProductName string               `bson:"product_name"`
	Quantity    int                  `bson:"quantity"`
	UnitPrice   primitive.Decimal128 `bson:"unit_price"`
}

// orderDoc documento de la colección orders.
type orderDoc struct {
	ID         primitive.ObjectID   `bson:"_id"`
	Customer   primitive.ObjectID   `bson:"customer"`
	Items      []itemDoc            `bson:"items"`
	TotalPrice primitive.Decimal128 `bson:"total_price"`
	Address    string               `bson:"address"`
	CreatedAt  time.Time            `bson:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("decimal %s: %w", d.String(), err)
	}
	return out, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal128 %s: %w", d.String(), err)
	}
	return out, nil
}

func toItemDocs(items []entity.LineItem) ([]itemDoc, error) {
	out := make([]itemDoc, 0, len(items))
	for _, it := range items {
		price, err := toDecimal128(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		out = append(out, itemDoc{ProductName: it.ProductName, Quantity: it.Quantity, UnitPrice: price})
	}
	return out, nil
}

func fromItemDocs(docs []itemDoc) ([]entity.LineItem, error) {
	out := make([]entity.LineItem, 0, len(docs))
	for _, d := range docs {
		price, err := fromDecimal128(d.UnitPrice)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.LineItem{ProductName: d.ProductName, Quantity: d.Quantity, UnitPrice: price})
	}
	return out, nil
}

func toDraftDoc(d *entity.DraftOrder) (*draftDoc, error) {
	if d == nil {
		return nil, nil
	}
	items, err := toItemDocs(d.Items)
	if err != nil {
		return nil, err
	}
	total, err := toDecimal128(d.TotalPrice)
	if err != nil {
		return nil, err
	}
	return &draftDoc{Items: items, TotalPrice: total}, nil
}

func (doc *customerDoc) toEntity() (*entity.Customer, error) {
	state, err := entity.ParseConversationState(doc.State)
	if err != nil {
		return nil, err
	}
	c := &entity.Customer{
		ID:        doc.ID.Hex(),
		Phone:     doc.WhatsappNumber,
		State:     state,
		Address:   doc.Address,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.CurrentOrder != nil {
		items, err := fromItemDocs(doc.CurrentOrder.Items)
		if err != nil {
			return nil, err
		}
		total, err := fromDecimal128(doc.CurrentOrder.TotalPrice)
		if err != nil {
			return nil, err
		}
		c.Draft = &entity.DraftOrder{Items: items, TotalPrice: total}
	}
	return c, nil
}

func newOrderDoc(o *entity.Order, id, customer primitive.ObjectID) (*orderDoc, error) {
	items, err := toItemDocs(o.Items)
	if err != nil {
		return nil, err
	}
	total, err := toDecimal128(o.TotalPrice)
	if err != nil {
		return nil, err
	}
	return &orderDoc{
		ID:         id,
		Customer:   customer,
		Items:      items,
		TotalPrice: total,
		Address:    o.Address,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.CreatedAt,
	}, nil
}

func (doc *orderDoc) toEntity() (*entity.Order, error) {
	items, err := fromItemDocs(doc.Items)
	if err != nil {
		return nil, err
	}
	total, err := fromDecimal128(doc.TotalPrice)
	if err != nil {
		return nil, err
	}
	return &entity.Order{
		ID:         doc.ID.Hex(),
		CustomerID: doc.Customer.Hex(),
		Items:      items,
		TotalPrice: total,
		Address:    doc.Address,
		CreatedAt:  doc.CreatedAt,
	}, nil
}
