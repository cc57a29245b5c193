package http

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/conversation"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain"
	"github.com/jhoicas/whatsapp-order-bot/pkg/logger"
)

// WebhookHandler recibe el handshake y los eventos de WhatsApp Cloud API.
type WebhookHandler struct {
	svc         *conversation.Service
	verifyToken string
	log         *logger.Logger
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(svc *conversation.Service, verifyToken string, log *logger.Logger) *WebhookHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WebhookHandler{svc: svc, verifyToken: verifyToken, log: log.Component("webhook")}
}

// Verify godoc
// @Summary      Handshake de suscripción del webhook
// @Tags         webhook
// @Produce      plain
// @Param        hub.mode          query  string  true  "subscribe"
// @Param        hub.verify_token  query  string  true  "token configurado en WHATSAPP_VERIFY_TOKEN"
// @Param        hub.challenge     query  string  true  "valor a devolver"
// @Success      200  {string}  string
// @Failure      403  {string}  string
// @Router       /webhook [get]
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) == 1 {
		h.log.Info().Msg("webhook verificado")
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	h.log.Warn().Str("mode", mode).Msg("verificación de webhook rechazada")
	return c.SendStatus(fiber.StatusForbidden)
}

// Receive godoc
// @Summary      Evento entrante de WhatsApp
// @Description  Procesa el primer mensaje del envelope. Responde 200 salvo fallo del store (500, el proveedor reintenta).
// @Tags         webhook
// @Accept       json
// @Param        body  body  dto.WebhookEnvelope  true  "envelope de Cloud API"
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /webhook [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var env dto.WebhookEnvelope
	if err := c.BodyParser(&env); err != nil {
		// 200 igualmente: un 4xx haría que el proveedor reintente un cuerpo que nunca será válido.
		h.log.Warn().Err(err).Str("content_type", c.Get(fiber.HeaderContentType)).Msg("envelope inválido")
		return c.SendStatus(fiber.StatusOK)
	}
	msg := env.FirstMessage()
	if msg == nil {
		// Notificaciones de estado (sent/delivered/read) llegan sin mensajes.
		return c.SendStatus(fiber.StatusOK)
	}

	out, err := h.svc.Handle(c.UserContext(), conversation.EventFromMessage(msg))
	switch {
	case errors.Is(err, domain.ErrStore):
		h.log.Error().Err(err).Str("phone", logger.Phone(msg.From)).Msg("evento no procesado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "STORE_ERROR", Message: "no se pudo procesar el evento"})
	case err != nil:
		h.log.Warn().Err(err).Str("message_id", msg.ID).Msg("evento descartado")
		return c.SendStatus(fiber.StatusOK)
	}

	h.log.Debug().
		Str("phone", logger.Phone(msg.From)).
		Str("rule", out.Rule.String()).
		Bool("delivered", out.Delivered).
		Msg("evento procesado")
	return c.SendStatus(fiber.StatusOK)
}
