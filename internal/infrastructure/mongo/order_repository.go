package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre la colección orders.
type OrderRepo struct {
	db      *mongo.Database
	session mongo.Session
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(db *mongo.Database) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) ctx(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

// Create inserta el pedido. Asigna un ObjectID si o.ID viene vacío.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	customerID, err := primitive.ObjectIDFromHex(o.CustomerID)
	if err != nil {
		return domain.ErrNotFound
	}
	n, err := r.db.Collection(customersCollection).CountDocuments(r.ctx(ctx), bson.M{"_id": customerID})
	if err != nil {
		return fmt.Errorf("verificar cliente: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	id := primitive.NewObjectID()
	if o.ID != "" {
		if id, err = primitive.ObjectIDFromHex(o.ID); err != nil {
			return fmt.Errorf("%w: order id %q", domain.ErrInvalidInput, o.ID)
		}
	}
	doc, err := newOrderDoc(o, id, customerID)
	if err != nil {
		return err
	}
	if _, err := r.db.Collection(ordersCollection).InsertOne(r.ctx(ctx), doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = id.Hex()
	return nil
}

// GetByID obtiene un pedido por ID hex.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc orderDoc
	err = r.db.Collection(ordersCollection).FindOne(r.ctx(ctx), bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return doc.toEntity()
}

// ListByCustomer lista pedidos del cliente, más recientes primero.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	list := []*entity.Order{}
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return list, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.db.Collection(ordersCollection).Find(r.ctx(ctx), bson.M{"customer": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc orderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		o, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, cur.Err()
}
