package dto

// WebhookEnvelope cuerpo del POST que envía WhatsApp Cloud API.
// Solo se modelan los campos que lee el bot.
type WebhookEnvelope struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry una entrada del envelope.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange un cambio dentro de la entrada.
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookValue payload del cambio; statuses (entregas/lecturas) se ignoran.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []WebhookMessage `json:"messages"`
}

// WebhookMessage mensaje entrante.
type WebhookMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Text        *WebhookText        `json:"text,omitempty"`
	Interactive *WebhookInteractive `json:"interactive,omitempty"`
	Button      *WebhookButton      `json:"button,omitempty"`
}

// WebhookText cuerpo de un mensaje de texto.
type WebhookText struct {
	Body string `json:"body"`
}

// WebhookInteractive respuesta a un mensaje interactivo.
// ButtonID cubre el formato plano usado por integraciones antiguas.
type WebhookInteractive struct {
	Type        string              `json:"type"`
	ButtonReply *WebhookButtonReply `json:"button_reply,omitempty"`
	ButtonID    string              `json:"button_id,omitempty"`
}

// WebhookButtonReply botón pulsado.
type WebhookButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WebhookButton respuesta a un botón de plantilla.
type WebhookButton struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

// FirstMessage devuelve el primer mensaje de la primera entrada/primer cambio, o nil.
func (e *WebhookEnvelope) FirstMessage() *WebhookMessage {
	if e == nil || len(e.Entry) == 0 || len(e.Entry[0].Changes) == 0 {
		return nil
	}
	msgs := e.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 {
		return nil
	}
	return &msgs[0]
}

// TextBody texto del mensaje (vacío si no es texto).
func (m *WebhookMessage) TextBody() (string, bool) {
	if m.Text == nil {
		return "", false
	}
	return m.Text.Body, true
}

// ButtonID identificador del botón pulsado (vacío si no aplica).
func (m *WebhookMessage) ButtonID() string {
	switch {
	case m.Interactive != nil && m.Interactive.ButtonReply != nil:
		return m.Interactive.ButtonReply.ID
	case m.Interactive != nil && m.Interactive.ButtonID != "":
		return m.Interactive.ButtonID
	case m.Button != nil:
		return m.Button.Payload
	default:
		return ""
	}
}
