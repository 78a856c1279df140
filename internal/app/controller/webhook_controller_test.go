package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
)

type fakeOrderService struct {
	events []service.PaymentCompletedEvent
	err    error
}

func (f *fakeOrderService) HandlePaymentCompleted(_ context.Context, event service.PaymentCompletedEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func setupWebhookTest(t *testing.T, orders *fakeOrderService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// No webhook secret configured: payloads are parsed without signature
	// verification, which is the test and local-dev mode.
	ctrl := NewWebhookController(orders, "")

	router := gin.New()
	router.POST("/webhooks/payment", ctrl.HandlePaymentEvent)
	return router
}

func postWebhook(router *gin.Engine, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const completedSessionPayload = `{
	"id": "evt_1",
	"type": "checkout.session.completed",
	"data": {
		"object": {
			"id": "cs_1",
			"payment_status": "paid",
			"metadata": {"items": "[{\"variant_id\":11,\"quantity\":1}]", "cart_token": "token-a"},
			"customer_details": {"name": "Ada Example", "email": "ada@example.com"},
			"shipping_details": {
				"name": "Ada Example",
				"address": {"line1": "Keizersgracht 1", "city": "Amsterdam", "postal_code": "1015 CC", "country": "NL"}
			}
		}
	}
}`

func TestWebhookController_CompletedSession(t *testing.T) {
	orders := &fakeOrderService{}
	router := setupWebhookTest(t, orders)

	w := postWebhook(router, completedSessionPayload)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, orders.events, 1)
	event := orders.events[0]
	assert.Equal(t, "cs_1", event.SessionID)
	assert.True(t, event.Paid)
	assert.Equal(t, "token-a", event.Metadata["cart_token"])
	assert.Equal(t, "Ada Example", event.Recipient.Name)
	assert.Equal(t, "ada@example.com", event.Recipient.Email)
	assert.Equal(t, "Keizersgracht 1", event.Recipient.Address1)
	assert.Equal(t, "NL", event.Recipient.CountryCode)
}

func TestWebhookController_UnpaidCompletedSession(t *testing.T) {
	orders := &fakeOrderService{}
	router := setupWebhookTest(t, orders)

	payload := strings.Replace(completedSessionPayload, `"payment_status": "paid"`, `"payment_status": "unpaid"`, 1)
	w := postWebhook(router, payload)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, orders.events, 1)
	assert.False(t, orders.events[0].Paid)
}

func TestWebhookController_IrrelevantEventAcknowledged(t *testing.T) {
	orders := &fakeOrderService{}
	router := setupWebhookTest(t, orders)

	w := postWebhook(router, `{"id": "evt_2", "type": "invoice.paid", "data": {"object": {}}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, orders.events)
}

func TestWebhookController_HandlerFailureIsRetriable(t *testing.T) {
	orders := &fakeOrderService{err: service.ErrOrderPlacementFailed}
	router := setupWebhookTest(t, orders)

	w := postWebhook(router, completedSessionPayload)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookController_BadPayload(t *testing.T) {
	orders := &fakeOrderService{}
	router := setupWebhookTest(t, orders)

	w := postWebhook(router, "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "WEBHOOK_INVALID_PAYLOAD")
}
