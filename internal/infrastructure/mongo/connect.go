// Package mongo implementa los repositorios sobre MongoDB con las colecciones
// customers y orders.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/whatsapp-order-bot/pkg/config"
	"github.com/jhoicas/whatsapp-order-bot/pkg/logger"
)

const (
	customersCollection = "customers"
	ordersCollection    = "orders"
)

// Connect abre el cliente, verifica la conexión y devuelve la base configurada.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.DatabaseName()), nil
}

// EnsureIndexes crea los índices de los que depende el store:
// un cliente por número y listados de pedidos por cliente.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	phoneIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "whatsappNumber", Value: 1}},
		Options: options.Index().SetName("whatsappNumber_unique").SetUnique(true),
	}
	if _, err := db.Collection(customersCollection).Indexes().CreateOne(ctx, phoneIndex); err != nil {
		return fmt.Errorf("índice whatsappNumber_unique: %w", err)
	}
	log.Info().Str("index", "whatsappNumber_unique").Msg("índice asegurado")

	customerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "customer", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("customer_createdAt"),
	}
	if _, err := db.Collection(ordersCollection).Indexes().CreateOne(ctx, customerIndex); err != nil {
		return fmt.Errorf("índice customer_createdAt: %w", err)
	}
	log.Info().Str("index", "customer_createdAt").Msg("índice asegurado")
	return nil
}
