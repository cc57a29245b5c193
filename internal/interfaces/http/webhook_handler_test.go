package http_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/conversation"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
)

func textEnvelope(from, body string) string {
	return fmt.Sprintf(`{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messaging_product":"whatsapp","messages":[{"from":%q,"id":"wamid.1","type":"text","text":{"body":%q}}]}}]}]}`, from, body)
}

func buttonEnvelope(from, id string) string {
	return fmt.Sprintf(`{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":%q,"id":"wamid.2","type":"interactive","interactive":{"type":"button_reply","button_reply":{"id":%q,"title":"Yes"}}}]}}]}]}`, from, id)
}

func TestWebhookVerify(t *testing.T) {
	env := newTestEnv(t, nil)

	cases := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"token correcto", "hub.mode=subscribe&hub.verify_token=" + testVerifyToken + "&hub.challenge=1158201444", http.StatusOK, "1158201444"},
		{"token incorrecto", "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=1", http.StatusForbidden, ""},
		{"modo incorrecto", "hub.mode=unsubscribe&hub.verify_token=" + testVerifyToken + "&hub.challenge=1", http.StatusForbidden, ""},
		{"sin parámetros", "", http.StatusForbidden, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, "/webhook?"+tc.query, "", "")
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.body != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tc.body, string(body))
			}
		})
	}
}

func TestWebhookReceive_PedidoCompleto(t *testing.T) {
	env := newTestEnv(t, nil)
	const phone = "+15551234567"

	for _, body := range []string{
		textEnvelope(phone, "hi"),
		buttonEnvelope(phone, conversation.ButtonYes),
		textEnvelope(phone, "Order: Sony WH-1000XM4, qty: 2"),
		textEnvelope(phone, "221B Baker Street"),
	} {
		resp := env.do(t, http.MethodPost, "/webhook", body, "")
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 4, env.messenger.count(), "un mensaje por evento")
	assert.Equal(t, 1, env.store.OrderCount())
	assert.Equal(t, conversation.ConfirmationMessage(decimal.NewFromInt(600), "221B Baker Street"), env.messenger.lastText())

	c, err := env.store.Customers().GetByPhone(t.Context(), phone)
	require.NoError(t, err)
	assert.Equal(t, entity.StateIdle, c.State)
	assert.Nil(t, c.Draft)
}

func TestWebhookReceive_EnvelopeSinMensajes(t *testing.T) {
	env := newTestEnv(t, nil)

	for name, body := range map[string]string{
		"vacío":       "",
		"json roto":   "{not json",
		"sin entry":   `{"object":"whatsapp_business_account"}`,
		"solo status": `{"entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.1","status":"delivered"}]}}]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/webhook", body, "")
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
	assert.Zero(t, env.messenger.count())
	assert.Zero(t, env.store.CustomerCount())
}

func TestWebhookReceive_ContentType(t *testing.T) {
	env := newTestEnv(t, nil)

	post := func(contentType string) int {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textEnvelope("+1", "hi")))
		req.Header.Set("Content-Type", contentType)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, post("application/json; charset=utf-8"))
	assert.Equal(t, 1, env.messenger.count(), "JSON con charset se procesa")

	assert.Equal(t, http.StatusOK, post("text/plain"))
	assert.Equal(t, 1, env.messenger.count(), "otro Content-Type se descarta sin responder")
}

func TestWebhookReceive_FalloDelStoreRetorna500(t *testing.T) {
	env := newTestEnv(t, brokenTx{})
	const phone = "+1"

	resp := env.do(t, http.MethodPost, "/webhook", textEnvelope(phone, "Order: Sony, qty: 1"), "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/webhook", textEnvelope(phone, "Calle 1"), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, "el proveedor debe reintentar")
	assert.Zero(t, env.store.OrderCount())
}

func TestRutasPublicas(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/", "", "")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello World!", string(body))

	resp = env.do(t, http.MethodGet, "/health", "", "")
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}
