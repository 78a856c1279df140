package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	apperrors "github.com/ivan-cardenas/overlaymaps-backend/internal/errors"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/middleware"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/fulfillment"
)

const maxWebhookBody = 64 * 1024

// WebhookController receives payment provider events. Order placement errors
// come back as 5xx so the provider retries delivery; everything the handler
// cannot act on is acknowledged with 200 to stop pointless retries.
type WebhookController struct {
	orderService  service.OrderService
	webhookSecret string
}

func NewWebhookController(orderService service.OrderService, webhookSecret string) *WebhookController {
	return &WebhookController{
		orderService:  orderService,
		webhookSecret: webhookSecret,
	}
}

func (ctrl *WebhookController) HandlePaymentEvent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		apperrors.BadRequest(c, apperrors.WebhookInvalidPayload, "unreadable payload")
		return
	}

	var event stripe.Event
	if ctrl.webhookSecret != "" {
		event, err = webhook.ConstructEvent(body, c.GetHeader("Stripe-Signature"), ctrl.webhookSecret)
		if err != nil {
			log.Warn("Rejected webhook with bad signature", map[string]interface{}{
				"error": err.Error(),
			})
			apperrors.BadRequest(c, apperrors.WebhookInvalidSignature, "invalid signature")
			return
		}
	} else if err := json.Unmarshal(body, &event); err != nil {
		apperrors.BadRequest(c, apperrors.WebhookInvalidPayload, "invalid payload")
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		ctrl.handleSessionEvent(c, event)
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		log.Warn("Async payment failed", map[string]interface{}{
			"event_id": event.ID,
		})
		c.JSON(http.StatusOK, gin.H{"received": true})
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func (ctrl *WebhookController) handleSessionEvent(c *gin.Context, event stripe.Event) {
	log := middleware.GetLoggerFromContext(c)

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		apperrors.BadRequest(c, apperrors.WebhookInvalidPayload, "invalid session payload")
		return
	}

	// A completed session may still be unpaid when the payment method is
	// asynchronous; the async_payment_succeeded event follows later.
	completed := service.PaymentCompletedEvent{
		SessionID: session.ID,
		Paid:      session.PaymentStatus != stripe.CheckoutSessionPaymentStatusUnpaid,
		Recipient: recipientFromSession(&session),
		Metadata:  session.Metadata,
	}

	if err := ctrl.orderService.HandlePaymentCompleted(c.Request.Context(), completed); err != nil {
		log.Error("Failed to handle payment event", err, map[string]interface{}{
			"event_id":    event.ID,
			"session_ref": session.ID,
		})
		apperrors.InternalError(c, "failed to process payment event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// recipientFromSession prefers the shipping address collected at checkout and
// falls back to the billing details.
func recipientFromSession(session *stripe.CheckoutSession) fulfillment.Recipient {
	var recipient fulfillment.Recipient

	if details := session.CustomerDetails; details != nil {
		recipient.Name = details.Name
		recipient.Email = details.Email
		recipient.Phone = details.Phone
		if details.Address != nil {
			fillAddress(&recipient, details.Address)
		}
	}
	if shipping := session.ShippingDetails; shipping != nil {
		if shipping.Name != "" {
			recipient.Name = shipping.Name
		}
		if shipping.Address != nil {
			fillAddress(&recipient, shipping.Address)
		}
	}
	return recipient
}

func fillAddress(recipient *fulfillment.Recipient, addr *stripe.Address) {
	recipient.Address1 = addr.Line1
	recipient.Address2 = addr.Line2
	recipient.City = addr.City
	recipient.StateCode = addr.State
	recipient.CountryCode = addr.Country
	recipient.Zip = addr.PostalCode
}
