package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
	pkgjwt "github.com/jhoicas/whatsapp-order-bot/pkg/jwt"
)

// placeOrder recorre el diálogo por el webhook y devuelve el ID del pedido creado.
func placeOrder(t *testing.T, env *testEnv, phone, address string) string {
	t.Helper()
	for _, body := range []string{
		textEnvelope(phone, "Order: Sony WH-1000XM4, qty: 2"),
		textEnvelope(phone, address),
	} {
		resp := env.do(t, http.MethodPost, "/webhook", body, "")
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	c, err := env.store.Customers().GetByPhone(t.Context(), phone)
	require.NoError(t, err)
	list, err := env.store.Orders().ListByCustomer(t.Context(), c.ID, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0].ID
}

func TestOrderAPI_RequiereToken(t *testing.T) {
	env := newTestEnv(t, nil)
	id := placeOrder(t, env, "+1", "221B Baker Street")

	resp := env.do(t, http.MethodGet, "/api/orders/"+id, "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/orders/"+id, "", tokenForRole(t, "courier"))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrderAPI_GetByID(t *testing.T) {
	env := newTestEnv(t, nil)
	id := placeOrder(t, env, "+1", "221B Baker Street")

	resp := env.do(t, http.MethodGet, "/api/orders/"+id, "", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "+1", got.Phone)
	assert.Equal(t, "221B Baker Street", got.Address)
	assert.Equal(t, "600", got.TotalPrice.String())
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestOrderAPI_NoEncontrado(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/api/orders/nope", "", tokenForRole(t, pkgjwt.RoleAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestOrderAPI_Receipt(t *testing.T) {
	env := newTestEnv(t, nil)
	id := placeOrder(t, env, "+1", "221B Baker Street")

	resp := env.do(t, http.MethodGet, "/api/orders/"+id+"/receipt", "", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "order-"+id+".pdf")

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, len(body) > 4 && string(body[:4]) == "%PDF")
}

func TestOrderAPI_ListByCustomer(t *testing.T) {
	env := newTestEnv(t, nil)
	placeOrder(t, env, "+1", "Calle 1")

	resp := env.do(t, http.MethodGet, "/api/customers/+1/orders?limit=5", "", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.OrderListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Calle 1", got.Items[0].Address)
	assert.Equal(t, 5, got.Page.Limit)

	resp2 := env.do(t, http.MethodGet, "/api/customers/+999/orders", "", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
