package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/fulfillment"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/kv"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
)

var (
	ErrInvalidPaymentEvent  = errors.New("invalid payment event")
	ErrOrderPlacementFailed = errors.New("order placement failed")
)

// idempotencyTTL bounds how long a handled payment session stays marked.
// Payment providers stop retrying webhooks well before this.
const idempotencyTTL = 72 * time.Hour

// PaymentCompletedEvent is the provider-neutral shape of a finished checkout
// session, extracted from the webhook payload by the transport layer.
type PaymentCompletedEvent struct {
	SessionID string
	Paid      bool
	Recipient fulfillment.Recipient
	Metadata  map[string]string
}

// OrderService places fulfillment orders in response to completed payments.
// Delivery of a payment webhook is at-least-once, so every session id is
// guarded by a set-if-absent marker; a failed placement releases the marker
// so the provider's next retry can run the handler again.
type OrderService interface {
	HandlePaymentCompleted(ctx context.Context, event PaymentCompletedEvent) error
}

type orderService struct {
	placer      OrderPlacer
	store       kv.Store
	carts       CartService
	productRepo repository.ProductRepository
}

// OrderPlacer is the slice of the fulfillment client the order service needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req fulfillment.OrderRequest, confirm bool) (*fulfillment.Order, error)
}

func NewOrderService(placer OrderPlacer, store kv.Store, carts CartService, productRepo repository.ProductRepository) OrderService {
	return &orderService{
		placer:      placer,
		store:       store,
		carts:       carts,
		productRepo: productRepo,
	}
}

func sessionGuardKey(sessionID string) string {
	return fmt.Sprintf("order:session:%s", sessionID)
}

// joinMetadata reassembles a value that splitMetadata spread over key,
// key_1, key_2, ... at session-creation time.
func joinMetadata(md map[string]string, key string) string {
	var b strings.Builder
	b.WriteString(md[key])
	for i := 1; ; i++ {
		chunk, ok := md[fmt.Sprintf("%s_%d", key, i)]
		if !ok {
			break
		}
		b.WriteString(chunk)
	}
	return b.String()
}

func (s *orderService) HandlePaymentCompleted(ctx context.Context, event PaymentCompletedEvent) error {
	if event.SessionID == "" {
		return ErrInvalidPaymentEvent
	}
	if !event.Paid {
		logger.Info("Ignoring unpaid checkout session", map[string]interface{}{
			"session_ref": event.SessionID,
		})
		return nil
	}

	acquired, err := s.store.SetNX(ctx, sessionGuardKey(event.SessionID), "1", idempotencyTTL)
	if err != nil {
		return err
	}
	if !acquired {
		logger.Info("Skipping already handled checkout session", map[string]interface{}{
			"session_ref": event.SessionID,
		})
		return nil
	}

	if err := s.placeOrder(ctx, event); err != nil {
		// Release the guard so the provider's webhook retry gets another
		// attempt at placing the order.
		if delErr := s.store.Delete(ctx, sessionGuardKey(event.SessionID)); delErr != nil {
			logger.Error("Failed to release idempotency guard", delErr, map[string]interface{}{
				"session_ref": event.SessionID,
			})
		}
		return err
	}
	return nil
}

func (s *orderService) placeOrder(ctx context.Context, event PaymentCompletedEvent) error {
	var refs []model.OrderItemRef
	if err := json.Unmarshal([]byte(joinMetadata(event.Metadata, "items")), &refs); err != nil || len(refs) == 0 {
		logger.Error("Checkout session carries no usable item metadata", err, map[string]interface{}{
			"session_ref": event.SessionID,
		})
		return ErrInvalidPaymentEvent
	}

	items := make([]fulfillment.OrderItem, 0, len(refs))
	for _, ref := range refs {
		variant, err := s.productRepo.FindVariantByID(ref.VariantID)
		if err != nil {
			logger.Error("Paid session references a variant missing from the catalog", err, map[string]interface{}{
				"session_ref": event.SessionID,
				"variant_id":  ref.VariantID,
			})
			return ErrInvalidPaymentEvent
		}
		items = append(items, fulfillment.OrderItem{
			SyncVariantID: variant.ID,
			Quantity:      ref.Quantity,
			RetailPrice:   strconv.FormatFloat(variant.Price, 'f', 2, 64),
		})
	}

	order, err := s.placer.CreateOrder(ctx, fulfillment.OrderRequest{
		ExternalID: event.SessionID,
		Recipient:  event.Recipient,
		Items:      items,
	}, true)
	if err != nil {
		logger.Error("Fulfillment order placement failed", err, map[string]interface{}{
			"session_ref": event.SessionID,
		})
		return ErrOrderPlacementFailed
	}

	logger.Info("Fulfillment order placed", map[string]interface{}{
		"session_ref": event.SessionID,
		"order_id":    order.ID,
		"status":      order.Status,
	})

	if token := event.Metadata["cart_token"]; token != "" {
		if err := s.carts.Clear(ctx, token); err != nil {
			// The order is placed; a lingering cart is cosmetic.
			logger.Warn("Failed to clear cart after order placement", map[string]interface{}{
				"token": token,
				"error": err.Error(),
			})
		}
	}
	return nil
}
