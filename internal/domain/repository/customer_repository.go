package repository

import (
	"context"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// FindOrCreate es idempotente: la unicidad por teléfono la garantiza el adaptador.
type CustomerRepository interface {
	FindOrCreate(ctx context.Context, phone string) (*entity.Customer, error)
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Save(ctx context.Context, customer *entity.Customer) error
}
