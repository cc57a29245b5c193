package conversation

import (
	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
)

// Event mensaje entrante ya normalizado.
type Event struct {
	Phone     string
	MessageID string
	Text      string
	HasText   bool
	ButtonID  string
}

// EventFromMessage extrae remitente, texto y botón de un mensaje del webhook.
func EventFromMessage(msg *dto.WebhookMessage) Event {
	ev := Event{Phone: msg.From, MessageID: msg.ID, ButtonID: msg.ButtonID()}
	ev.Text, ev.HasText = msg.TextBody()
	return ev
}
