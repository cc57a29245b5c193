// Package storage elige el adaptador de persistencia según DB_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
	"github.com/jhoicas/whatsapp-order-bot/internal/infrastructure/memory"
	infmongo "github.com/jhoicas/whatsapp-order-bot/internal/infrastructure/mongo"
	"github.com/jhoicas/whatsapp-order-bot/internal/infrastructure/postgres"
	"github.com/jhoicas/whatsapp-order-bot/pkg/config"
	"github.com/jhoicas/whatsapp-order-bot/pkg/logger"
)

// Stores repositorios listos para inyectar y la función que libera las conexiones.
type Stores struct {
	Driver    string
	Customers repository.CustomerRepository
	Orders    repository.OrderRepository
	Tx        repository.TxRunner
	Close     func()

	migrate func(ctx context.Context) error
}

// Open conecta con el driver configurado. Con mongo asegura además los índices,
// sin ellos FindOrCreate no es idempotente.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("storage")

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info().Msg("PostgreSQL conectado")
		return &Stores{
			Driver:    config.DriverPostgres,
			Customers: postgres.NewCustomerRepository(pool),
			Orders:    postgres.NewOrderRepository(pool),
			Tx:        postgres.NewTxRunner(pool),
			Close:     pool.Close,
			migrate: func(ctx context.Context) error {
				if err := postgres.Migrate(ctx, pool); err != nil {
					return err
				}
				log.Info().Msg("esquema aplicado")
				return nil
			},
		}, nil

	case config.DriverMongo:
		client, db, err := infmongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("desconectar MongoDB")
			}
		}
		if err := infmongo.EnsureIndexes(ctx, db, log); err != nil {
			closeFn()
			return nil, err
		}
		log.Info().Str("database", db.Name()).Msg("MongoDB conectado")
		return &Stores{
			Driver:    config.DriverMongo,
			Customers: infmongo.NewCustomerRepository(db),
			Orders:    infmongo.NewOrderRepository(db),
			Tx:        infmongo.NewTxRunner(db),
			Close:     closeFn,
			migrate:   func(ctx context.Context) error { return infmongo.EnsureIndexes(ctx, db, log) },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return FromMemory(memory.NewStore()), nil

	default:
		return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.DB.Driver)
	}
}

// FromMemory envuelve un store en memoria ya construido.
func FromMemory(store *memory.Store) *Stores {
	return &Stores{
		Driver:    config.DriverMemory,
		Customers: store.Customers(),
		Orders:    store.Orders(),
		Tx:        store,
		Close:     func() {},
		migrate:   func(context.Context) error { return nil },
	}
}

// Migrate aplica el esquema (postgres) o asegura los índices (mongo). Idempotente.
func (s *Stores) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}
