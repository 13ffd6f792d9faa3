package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("DATABASE_DRIVER", "memory")
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("RABBITMQ_URL", "")
	v.Set("INVOICE_DIR", t.TempDir())
	v.Set("SEED_PRODUCTS", true)
	v.Set("ITEMS_PER_PAGE", 2)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	return cfg
}

func TestNewApp_HealthCheck(t *testing.T) {
	app, cleanup, err := newApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestNewApp_SeedsCatalog(t *testing.T) {
	app, cleanup, err := newApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest("GET", "/?page=2", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var view struct {
		Data struct {
			Products []struct {
				Title string `json:"title"`
			} `json:"products"`
			CurrentPage     int   `json:"current_page"`
			HasNextPage     bool  `json:"has_next_page"`
			HasPreviousPage bool  `json:"has_previous_page"`
			LastPage        int   `json:"last_page"`
			TotalItems      int64 `json:"total_items"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))

	assert.Equal(t, int64(3), view.Data.TotalItems)
	assert.Equal(t, 2, view.Data.CurrentPage)
	assert.Equal(t, 2, view.Data.LastPage)
	assert.False(t, view.Data.HasNextPage)
	assert.True(t, view.Data.HasPreviousPage)
	require.Len(t, view.Data.Products, 1)
	assert.Equal(t, "Mouse", view.Data.Products[0].Title)
}

func TestNewApp_ShopRoutesRequireToken(t *testing.T) {
	app, cleanup, err := newApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	for _, path := range []string{"/cart", "/orders"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, path)
	}
}

// MockAcknowledger is a mock implementation of amqp.Acknowledger
type MockAcknowledger struct {
	mock.Mock
}

func (m *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	return m.Called(tag, multiple).Error(0)
}

func (m *MockAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	return m.Called(tag, multiple, requeue).Error(0)
}

func (m *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	return m.Called(tag, requeue).Error(0)
}

func orderPlaced(t *testing.T, ack amqp.Acknowledger, orderID string) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(rabbitmq.OrderEvent{Type: rabbitmq.OrderPlaced, OrderID: orderID, UserID: "u1"})
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}
}

func TestInvoiceWarmer_StoresPlacedOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := storage.NewAferoStore(fs, "invoices")
	require.NoError(t, err)
	orders := repositories.NewMemoryOrderRepository()
	order := &models.Order{
		User: models.OrderUser{UserID: "u1", Email: "u1@example.com"},
		Products: []models.OrderProduct{
			{Quantity: 2, Product: models.ProductSnapshot{ID: "p1", Title: "Book", Price: decimal.RequireFromString("10")}},
		},
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, orders.Create(context.Background(), order))

	ack := new(MockAcknowledger)
	ack.On("Ack", uint64(1), false).Return(nil).Once()

	rabbitmq.HandleDelivery(orderPlaced(t, ack, order.ID), invoiceWarmer(services.NewInvoiceService(orders, store)))

	ack.AssertExpectations(t)
	exists, err := afero.Exists(fs, store.Path(services.InvoiceName(order.ID)))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInvoiceWarmer_AcksDeletedOrder(t *testing.T) {
	store, err := storage.NewAferoStore(afero.NewMemMapFs(), "invoices")
	require.NoError(t, err)
	warmer := invoiceWarmer(services.NewInvoiceService(repositories.NewMemoryOrderRepository(), store))

	ack := new(MockAcknowledger)
	ack.On("Ack", uint64(1), false).Return(nil).Times(3)

	for i := 0; i < 3; i++ {
		rabbitmq.HandleDelivery(orderPlaced(t, ack, "deleted-order"), warmer)
	}

	ack.AssertExpectations(t)
	ack.AssertNotCalled(t, "Nack", mock.Anything, mock.Anything, mock.Anything)
	ack.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything)
}
