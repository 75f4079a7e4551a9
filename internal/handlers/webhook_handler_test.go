package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pizzeria/internal/gateway"
	"pizzeria/internal/handlers"
	"pizzeria/internal/models"
	"pizzeria/internal/repositories"
	"pizzeria/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
)

// MockProductRepository is a testify mock of repositories.ProductRepository,
// used where the test needs to assert that no catalog read happened.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	return m.Called(product).Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	return m.Called(product).Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

func newWebhookApp(verify gateway.WebhookVerifier, products repositories.ProductRepository, orders repositories.OrderRepository) *fiber.App {
	app := fiber.New()
	materializer := services.NewMaterializerService(orders, products, nil)
	handlers.NewWebhookHandler(materializer, verify).RegisterRoutes(app.Group("/api/v1"))
	return app
}

func postWebhook(t *testing.T, app *fiber.App, body []byte) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// completedSessionEvent builds a checkout.session.completed event whose
// session metadata carries the given cart items and shipping address.
func completedSessionEvent(t *testing.T, paymentRef string, amountCents int64, metadata map[string]string) stripe.Event {
	t.Helper()
	sessionJSON, err := json.Marshal(map[string]interface{}{
		"id":             "cs_test_1",
		"amount_total":   amountCents,
		"payment_intent": map[string]interface{}{"id": paymentRef},
		"metadata":       metadata,
	})
	require.NoError(t, err)
	return stripe.Event{
		ID:   "evt_test_1",
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: sessionJSON},
	}
}

func validMetadata(t *testing.T, userID string, items []models.SimplifiedCartItem) map[string]string {
	t.Helper()
	itemsJSON, err := json.Marshal(items)
	require.NoError(t, err)
	addressJSON, err := json.Marshal(models.ShippingAddress{
		Name:       "Ada Lovelace",
		Line1:      "Via Roma 1",
		City:       "Napoli",
		PostalCode: "80100",
		Phone:      "+39 081 1234567",
	})
	require.NoError(t, err)
	return map[string]string{
		gateway.MetadataUserID:          userID,
		gateway.MetadataCartItems:       string(itemsJSON),
		gateway.MetadataShippingAddress: string(addressJSON),
	}
}

func acceptingVerifier(event stripe.Event) gateway.WebhookVerifier {
	return func(payload []byte, sigHeader string) (stripe.Event, error) {
		return event, nil
	}
}

func TestStripeWebhook_InvalidSignatureHasNoSideEffects(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := repositories.NewMockOrderRepository()
	verify := func(payload []byte, sigHeader string) (stripe.Event, error) {
		return stripe.Event{}, errors.New("signature mismatch")
	}
	app := newWebhookApp(verify, productRepo, orderRepo)

	// The payload itself is a perfectly well-formed completion event; only
	// the signature is bad. Nothing of it may be acted on.
	event := completedSessionEvent(t, "pi_forged", 1000, validMetadata(t, "user-1", []models.SimplifiedCartItem{
		{ProductID: "prod-1", Quantity: 1},
	}))
	body, err := json.Marshal(event)
	require.NoError(t, err)

	resp := postWebhook(t, app, body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	productRepo.AssertNotCalled(t, "GetByID")
	orders, err := orderRepo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStripeWebhook_CompletedSessionMaterializesOrder(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	require.NoError(t, productRepo.Create(&models.Product{
		ID: "prod-1", Name: "Margherita", PriceCents: 850, Category: models.CategoryPizza,
	}))

	extras := []models.ExtraItem{{Name: "extra cheese", PriceCents: 150}}
	event := completedSessionEvent(t, "pi_test_1", 2000, validMetadata(t, "user-1", []models.SimplifiedCartItem{
		{ProductID: "prod-1", Quantity: 2, Extras: extras},
	}))
	app := newWebhookApp(acceptingVerifier(event), productRepo, orderRepo)

	resp := postWebhook(t, app, []byte(`{}`))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	order, err := orderRepo.GetByPaymentRef("pi_test_1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, int64(2000), order.TotalCents)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(1000), order.Items[0].UnitPriceCents)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Napoli", order.ShippingAddress.City)
}

func TestStripeWebhook_DuplicateDeliveryCreatesOneOrder(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	require.NoError(t, productRepo.Create(&models.Product{
		ID: "prod-1", Name: "Margherita", PriceCents: 850, Category: models.CategoryPizza,
	}))

	event := completedSessionEvent(t, "pi_test_2", 850, validMetadata(t, "user-1", []models.SimplifiedCartItem{
		{ProductID: "prod-1", Quantity: 1},
	}))
	app := newWebhookApp(acceptingVerifier(event), productRepo, orderRepo)

	for i := 0; i < 3; i++ {
		resp := postWebhook(t, app, []byte(`{}`))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	orders, err := orderRepo.GetAll()
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestStripeWebhook_MissingMetadataAcknowledged(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := repositories.NewMockOrderRepository()

	// No retry can supply the missing metadata, so the delivery is
	// acknowledged rather than failed.
	event := completedSessionEvent(t, "pi_test_3", 850, map[string]string{
		gateway.MetadataUserID: "user-1",
	})
	app := newWebhookApp(acceptingVerifier(event), productRepo, orderRepo)

	resp := postWebhook(t, app, []byte(`{}`))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	productRepo.AssertNotCalled(t, "GetByID")
	orders, err := orderRepo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStripeWebhook_VanishedProductFailsDelivery(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()

	event := completedSessionEvent(t, "pi_test_4", 850, validMetadata(t, "user-1", []models.SimplifiedCartItem{
		{ProductID: "prod-gone", Quantity: 1},
	}))
	app := newWebhookApp(acceptingVerifier(event), productRepo, orderRepo)

	resp := postWebhook(t, app, []byte(`{}`))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	orders, err := orderRepo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStripeWebhook_CompletedEventWithoutDataRejected(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := repositories.NewMockOrderRepository()

	// A correctly-signed event may still arrive with no data envelope;
	// that must be a clean rejection, not a crash.
	event := stripe.Event{ID: "evt_test_nodata", Type: "checkout.session.completed"}
	app := newWebhookApp(acceptingVerifier(event), productRepo, orderRepo)

	resp := postWebhook(t, app, []byte(`{}`))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	productRepo.AssertNotCalled(t, "GetByID")
	orders, err := orderRepo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStripeWebhook_PaymentIntentEventsAcknowledged(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := repositories.NewMockOrderRepository()

	intentJSON, err := json.Marshal(map[string]interface{}{"id": "pi_test_5"})
	require.NoError(t, err)
	event := stripe.Event{
		ID:   "evt_test_5",
		Type: "payment_intent.succeeded",
		Data: &stripe.EventData{Raw: intentJSON},
	}
	app := newWebhookApp(acceptingVerifier(event), productRepo, orderRepo)

	resp := postWebhook(t, app, []byte(`{}`))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	orders, err := orderRepo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
}
