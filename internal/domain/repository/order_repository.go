package repository

import (
	"context"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order. Sin Update ni Delete:
// un pedido es inmutable una vez creado.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error)
}

// TxRunner ejecuta fn con repositorios atados a una misma transacción.
// Si fn retorna error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(customers CustomerRepository, orders OrderRepository) error) error
}
