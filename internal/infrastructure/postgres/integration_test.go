//go:build integration

// Ejecutar con: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
	"github.com/jhoicas/whatsapp-order-bot/pkg/config"
)

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func testPhone() string {
	return "+1555" + uuid.New().String()[:8]
}

func TestIntegration_FindOrCreateIdempotente(t *testing.T) {
	pool := openTestPool(t)
	repo := NewCustomerRepository(pool)
	ctx := context.Background()
	phone := testPhone()

	first, err := repo.FindOrCreate(ctx, phone)
	require.NoError(t, err)
	second, err := repo.FindOrCreate(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, entity.StateIdle, second.State)
}

func TestIntegration_PromocionAtomica(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	customers := NewCustomerRepository(pool)

	c, err := customers.FindOrCreate(ctx, testPhone())
	require.NoError(t, err)
	now := time.Now().UTC()
	c.StartDraft(entity.NewDraftOrder(entity.LineItem{ProductName: "Sony", Quantity: 2, UnitPrice: decimal.RequireFromString("300.50")}), now)
	c.AwaitAddress(now)
	require.NoError(t, customers.Save(ctx, c))

	var orderID string
	err = NewTxRunner(pool).Run(ctx, func(cr repository.CustomerRepository, or repository.OrderRepository) error {
		o := entity.PromoteDraft(uuid.New().String(), c.ID, c.Draft, "221B Baker Street", now)
		if err := or.Create(ctx, o); err != nil {
			return err
		}
		orderID = o.ID
		c.Reset(now)
		return cr.Save(ctx, c)
	})
	require.NoError(t, err)

	o, err := NewOrderRepository(pool).GetByID(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("601")))
	require.Len(t, o.Items, 1)

	stored, err := customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateIdle, stored.State)
	assert.Nil(t, stored.Draft)
}

func TestIntegration_RollbackConservaBorrador(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	customers := NewCustomerRepository(pool)

	c, err := customers.FindOrCreate(ctx, testPhone())
	require.NoError(t, err)
	now := time.Now().UTC()
	c.StartDraft(entity.NewDraftOrder(entity.LineItem{ProductName: "Sony", Quantity: 1, UnitPrice: decimal.NewFromInt(300)}), now)
	require.NoError(t, customers.Save(ctx, c))

	boom := errors.New("fallo simulado")
	err = NewTxRunner(pool).Run(ctx, func(cr repository.CustomerRepository, or repository.OrderRepository) error {
		if err := or.Create(ctx, entity.PromoteDraft(uuid.New().String(), c.ID, c.Draft, "addr", now)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	page, err := NewOrderRepository(pool).ListByCustomer(ctx, c.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page)

	stored, err := customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Draft)
}
