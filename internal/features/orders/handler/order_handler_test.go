package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"spice-market/internal/features/orders/domain"
	"spice-market/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOrderRepository is an in-memory OrderRepository for handler tests.
type memoryOrderRepository struct {
	orders    map[string]*domain.Order
	bySession map[string][]string
}

func newMemoryOrderRepository() *memoryOrderRepository {
	return &memoryOrderRepository{
		orders:    make(map[string]*domain.Order),
		bySession: make(map[string][]string),
	}
}

func (m *memoryOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if _, exists := m.orders[order.ID]; !exists {
		m.bySession[order.SessionID] = append(m.bySession[order.SessionID], order.ID)
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *memoryOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (m *memoryOrderRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(m.bySession[sessionID]))
	for _, id := range m.bySession[sessionID] {
		out = append(out, *m.orders[id])
	}
	return out, nil
}

func setupApp(repo *memoryOrderRepository) *fiber.App {
	app := fiber.New()
	h := NewOrderHandler(service.NewOrderService(repo))
	app.Get("/orders", h.ListOrders)
	app.Get("/orders/:id", h.GetOrder)
	app.Get("/orders/:id/status", h.GetStatus)
	app.Post("/orders/:id/advance", h.AdvanceOrder)
	app.Post("/orders/:id/cancel", h.CancelOrder)
	return app
}

func seedOrder(t *testing.T, repo *memoryOrderRepository, id string) {
	t.Helper()
	order := domain.NewOrder(
		id,
		"s1",
		[]domain.OrderLine{{ProductID: "turmeric", Quantity: 1, UnitPrice: decimal.RequireFromString("8.4915")}},
		decimal.RequireFromString("8.49"),
		decimal.RequireFromString("5.99"),
		"addr-home",
		"pm-card",
	)
	require.NoError(t, repo.Save(context.Background(), order))
}

func TestOrderHandler_GetOrder(t *testing.T) {
	repo := newMemoryOrderRepository()
	seedOrder(t, repo, "ord-1")
	app := setupApp(repo)

	t.Run("Success", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/orders/ord-1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var order domain.Order
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
		assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/orders/missing", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestOrderHandler_AdvanceAndStatus(t *testing.T) {
	repo := newMemoryOrderRepository()
	seedOrder(t, repo, "ord-1")
	app := setupApp(repo)

	resp, err := app.Test(httptest.NewRequest("POST", "/orders/ord-1/advance", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/orders/ord-1/status", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var view service.OrderStatusView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, domain.OrderStatusPreparing, view.Status)
	assert.Equal(t, 2, view.Step)
}

func TestOrderHandler_Advance_Terminal(t *testing.T) {
	repo := newMemoryOrderRepository()
	seedOrder(t, repo, "ord-1")
	app := setupApp(repo)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/orders/ord-1/advance", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/orders/ord-1/advance", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrderHandler_Cancel_Dispatched(t *testing.T) {
	repo := newMemoryOrderRepository()
	seedOrder(t, repo, "ord-1")
	app := setupApp(repo)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/orders/ord-1/advance", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/orders/ord-1/cancel", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrderHandler_ListOrders(t *testing.T) {
	repo := newMemoryOrderRepository()
	seedOrder(t, repo, "ord-1")
	seedOrder(t, repo, "ord-2")
	app := setupApp(repo)

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		req.Header.Set(HeaderSessionID, "s1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var orders []domain.Order
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
		assert.Len(t, orders, 2)
	})

	t.Run("MissingSession", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/orders", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
