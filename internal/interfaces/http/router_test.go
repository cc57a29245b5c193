package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/conversation"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/dto"
	"github.com/jhoicas/whatsapp-order-bot/internal/application/usecase"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/entity"
	"github.com/jhoicas/whatsapp-order-bot/internal/domain/repository"
	"github.com/jhoicas/whatsapp-order-bot/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/whatsapp-order-bot/internal/interfaces/http"
)

const testVerifyToken = "verify-me"

type recordingMessenger struct {
	mu    sync.Mutex
	texts []string
	total int
}

func (m *recordingMessenger) SendText(_ context.Context, _ string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, body)
	m.total++
	return nil
}

func (m *recordingMessenger) SendButtons(context.Context, string, dto.ButtonPrompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total++
	return nil
}

func (m *recordingMessenger) SendProductList(context.Context, string, dto.ProductList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total++
	return nil
}

func (m *recordingMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

func (m *recordingMessenger) lastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.texts) == 0 {
		return ""
	}
	return m.texts[len(m.texts)-1]
}

type staticCatalog struct{}

func (staticCatalog) ListProducts(context.Context) ([]dto.CatalogProduct, error) {
	return []dto.CatalogProduct{{Name: "Sony WH-1000XM4", RetailerID: "sku-sony"}}, nil
}

type fakeReceipts struct{}

func (fakeReceipts) GenerateOrderReceipt(_ context.Context, o *entity.Order, _ *entity.Customer) ([]byte, error) {
	return []byte("%PDF-1.3 " + o.ID), nil
}

type brokenTx struct{}

func (brokenTx) Run(context.Context, func(repository.CustomerRepository, repository.OrderRepository) error) error {
	return errors.New("db caída")
}

type testEnv struct {
	app       *fiber.App
	store     *memory.Store
	messenger *recordingMessenger
}

func newTestEnv(t *testing.T, tx repository.TxRunner) *testEnv {
	t.Helper()
	store := memory.NewStore()
	if tx == nil {
		tx = store
	}
	messenger := &recordingMessenger{}
	svc := conversation.NewService(conversation.ServiceDeps{
		Engine:    conversation.Engine{UnitPrice: decimal.NewFromInt(300), CatalogID: "cat-1"},
		Customers: store.Customers(),
		Tx:        tx,
		Messenger: messenger,
		Catalog:   staticCatalog{},
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Conversation: svc,
		OrderUC:      usecase.NewOrderUseCase(store.Orders(), store.Customers(), fakeReceipts{}),
		VerifyToken:  testVerifyToken,
		JWTSecret:    testJWTSecret,
		AppName:      "bot-test",
	})
	return &testEnv{app: app, store: store, messenger: messenger}
}

func (e *testEnv) do(t *testing.T, method, target, body, auth string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
