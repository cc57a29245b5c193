package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerRegistrado(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &spec))
	for _, p := range []string{"/webhook", "/api/orders/{id}", "/api/orders/{id}/receipt", "/api/customers/{phone}/orders"} {
		assert.Contains(t, spec.Paths, p)
	}
}
