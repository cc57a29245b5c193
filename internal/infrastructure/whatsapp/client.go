// Package whatsapp adaptadores HTTP hacia WhatsApp Cloud API y Commerce Manager.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/ports"
	"github.com/jhoicas/whatsapp-order-bot/pkg/config"
	"github.com/jhoicas/whatsapp-order-bot/pkg/logger"
)

var _ ports.Messenger = (*Client)(nil)

const maxResponseBytes = 64 * 1024

// APIError respuesta no 2xx de la API remota.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp: HTTP %d: %s", e.StatusCode, e.Body)
}

// Client envía mensajes salientes con la Cloud API.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. Si log es nil no se registra nada.
func NewClient(cfg config.WhatsAppConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		url:        cfg.MessagesURL(),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Component("whatsapp"),
	}
}

// SendText envía un mensaje de texto plano.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.post(ctx, textMessage(to, body))
}

// SendButtons envía un mensaje interactivo con botones de respuesta.
func (c *Client) SendButtons(ctx context.Context, to string, p dto.ButtonPrompt) error {
	return c.post(ctx, buttonMessage(to, p))
}

// SendProductList envía un mensaje interactivo de catálogo.
func (c *Client) SendProductList(ctx context.Context, to string, l dto.ProductList) error {
	return c.post(ctx, productListMessage(to, l))
}

func (c *Client) post(ctx context.Context, msg messageRequest) error {
	if c.token == "" {
		return fmt.Errorf("whatsapp: WHATSAPP_TOKEN no configurado")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("whatsapp: serializar mensaje: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("whatsapp: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("whatsapp: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("whatsapp: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out messageResponse
	if err := json.Unmarshal(raw, &out); err == nil && len(out.Messages) > 0 {
		c.log.Debug().Str("to", logger.Phone(msg.To)).Str("type", msg.Type).Str("wamid", out.Messages[0].ID).Msg("mensaje enviado")
	}
	return nil
}
