package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción multi-documento.
// Requiere que el servidor sea un replica set.
type TxRunner struct {
	db *mongo.Database
}

// NewTxRunner construye el runner.
func NewTxRunner(db *mongo.Database) *TxRunner {
	return &TxRunner{db: db}
}

// Run abre una sesión y ejecuta fn con repos atados a ella. WithTransaction
// reintenta fn ante errores transitorios, así que fn debe ser repetible.
func (r *TxRunner) Run(ctx context.Context, fn func(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	customers := NewCustomerRepository(r.db)
	customers.session = session
	orders := NewOrderRepository(r.db)
	orders.session = session

	_, err = session.WithTransaction(ctx, func(mongo.SessionContext) (interface{}, error) {
		return nil, fn(customers, orders)
	})
	return err
}
