package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/whatsapp-order-bot/docs"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/conversation"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/usecase"
	infrapdf "github.com/jhoicas/whatsapp-order-bot/internal/infrastructure/pdf"
	"github.com/jhoicas/whatsapp-order-bot/internal/infrastructure/storage"
	"github.com/jhoicas/whatsapp-order-bot/internal/infrastructure/whatsapp"
	httpRouter "github.com/jhoicas/whatsapp-order-bot/internal/interfaces/http"
	"github.com/jhoicas/whatsapp-order-bot/pkg/config"
	"github.com/jhoicas/whatsapp-order-bot/pkg/logger"
)

// @title WhatsApp Order Bot API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.WhatsApp.VerifyToken == "" {
		log.Warn().Msg("WHATSAPP_VERIFY_TOKEN vacío: el handshake del webhook siempre responderá 403")
	}
	if cfg.WhatsApp.Token == "" {
		log.Warn().Msg("WHATSAPP_TOKEN vacío: no se enviarán respuestas")
	}

	ctx := context.Background()
	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al store")
	}
	defer stores.Close()

	messenger := whatsapp.NewClient(cfg.WhatsApp, log)
	catalog := whatsapp.NewCatalogClient(cfg.Commerce.APIURL, cfg.WhatsApp.Token, &http.Client{Timeout: cfg.WhatsApp.Timeout})

	conversationSvc := conversation.NewService(conversation.ServiceDeps{
		Engine: conversation.Engine{
			UnitPrice: cfg.Order.UnitPrice,
			CatalogID: cfg.Commerce.CatalogID,
		},
		Customers: stores.Customers,
		Tx:        stores.Tx,
		Messenger: messenger,
		Catalog:   catalog,
		Log:       log,
	})

	// PDF: comprobante del pedido para operadores
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)
	orderUC := usecase.NewOrderUseCase(stores.Orders, stores.Customers, receipts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "WhatsApp Order Bot API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Conversation: conversationSvc,
		OrderUC:      orderUC,
		VerifyToken:  cfg.WhatsApp.VerifyToken,
		JWTSecret:    cfg.JWT.Secret,
		AppName:      cfg.App.Name,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
