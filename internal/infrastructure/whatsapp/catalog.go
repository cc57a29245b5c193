package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/ports"
)

var _ ports.CatalogService = (*CatalogClient)(nil)

// CatalogClient lee los productos del catálogo de Commerce Manager.
type CatalogClient struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewCatalogClient construye el cliente. httpClient nil usa http.DefaultClient.
func NewCatalogClient(url, token string, httpClient *http.Client) *CatalogClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CatalogClient{url: url, token: token, httpClient: httpClient}
}

type catalogResponse struct {
	Data []dto.CatalogProduct `json:"data"`
}

// ListProducts devuelve los productos en el orden en que los entrega la API.
func (c *CatalogClient) ListProducts(ctx context.Context) ([]dto.CatalogProduct, error) {
	if c.url == "" {
		return nil, fmt.Errorf("catalog: COMMERCE_API_URL no configurado")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("catalog: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out catalogResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("catalog: parsear respuesta: %w", err)
	}
	return out.Data, nil
}
