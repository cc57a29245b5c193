package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/conversation"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/usecase"
	"github.com/jhoicas/whatsapp-order-bot/pkg/jwt"
	"github.com/jhoicas/whatsapp-order-bot/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Conversation *conversation.Service
	OrderUC      *usecase.OrderUseCase
	VerifyToken  string
	JWTSecret    string
	AppName      string
	Log          *logger.Logger
}

// Router registra las rutas públicas, el webhook y la API de operadores.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello World!")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	webhook := NewWebhookHandler(deps.Conversation, deps.VerifyToken, deps.Log)
	app.Get("/webhook", webhook.Verify)
	app.Post("/webhook", webhook.Receive)

	// API de operadores: JWT + rol operator/admin
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleOperator, jwt.RoleAdmin))
	orderHandler := NewOrderHandler(deps.OrderUC)
	api.Get("/orders/:id", orderHandler.GetByID)
	api.Get("/orders/:id/receipt", orderHandler.Receipt)
	api.Get("/customers/:phone/orders", orderHandler.ListByCustomer)
}
