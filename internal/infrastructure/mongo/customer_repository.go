package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository sobre la colección customers.
type CustomerRepo struct {
	coll    *mongo.Collection
	session mongo.Session // no nil dentro de TxRunner.Run
	now     func() time.Time
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(db *mongo.Database) *CustomerRepo {
	return &CustomerRepo{coll: db.Collection(customersCollection), now: time.Now}
}

func (r *CustomerRepo) ctx(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

// FindOrCreate hace upsert por whatsappNumber. Si dos upserts compiten, el índice
// único hace fallar a uno y se reintenta como lectura.
func (r *CustomerRepo) FindOrCreate(ctx context.Context, phone string) (*entity.Customer, error) {
	if phone == "" {
		return nil, domain.ErrInvalidInput
	}
	filter := bson.M{"whatsappNumber": phone}
	update := findOrCreateUpdate(phone, r.now().UTC())
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc customerDoc
	err := r.coll.FindOneAndUpdate(r.ctx(ctx), filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		err = r.coll.FindOne(r.ctx(ctx), filter).Decode(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("find or create customer: %w", err)
	}
	return doc.toEntity()
}

// GetByID obtiene un cliente por ID hex (nil si no existe o el ID no es válido).
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByPhone obtiene un cliente por número de WhatsApp.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return r.findOne(ctx, bson.M{"whatsappNumber": phone})
}

func (r *CustomerRepo) findOne(ctx context.Context, filter bson.M) (*entity.Customer, error) {
	var doc customerDoc
	err := r.coll.FindOne(r.ctx(ctx), filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return doc.toEntity()
}

// Save persiste estado, borrador y dirección. Sin borrador se elimina currentOrder.
func (r *CustomerRepo) Save(ctx context.Context, c *entity.Customer) error {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return domain.ErrNotFound
	}
	draft, err := toDraftDoc(c.Draft)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(r.ctx(ctx), bson.M{"_id": oid}, saveUpdate(c, draft))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// findOrCreateUpdate solo escribe al insertar: un cliente existente no se toca.
func findOrCreateUpdate(phone string, now time.Time) bson.M {
	return bson.M{"$setOnInsert": bson.M{
		"whatsappNumber": phone,
		"state":          string(entity.StateIdle),
		"createdAt":      now,
		"updatedAt":      now,
	}}
}

func saveUpdate(c *entity.Customer, draft *draftDoc) bson.M {
	set := bson.M{
		"whatsappNumber": c.Phone,
		"state":          string(c.State),
		"updatedAt":      c.UpdatedAt,
	}
	unset := bson.M{}
	if draft != nil {
		set["currentOrder"] = draft
	} else {
		unset["currentOrder"] = ""
	}
	if c.Address != "" {
		set["address"] = c.Address
	} else {
		unset["address"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
