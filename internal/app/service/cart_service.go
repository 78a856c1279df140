package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/kv"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
)

var (
	ErrVariantNotFound    = errors.New("variant not found")
	ErrVariantUnavailable = errors.New("variant unavailable")
)

// CartService manages guest carts keyed by the cart token cookie. Any cart
// mutation also drops the stored shipping quote and selection for that token,
// since both were made against the previous cart contents.
type CartService interface {
	Get(ctx context.Context, token string) (*model.Cart, error)
	AddLine(ctx context.Context, token string, variantID uint, quantity int) (*model.Cart, error)
	SetQuantity(ctx context.Context, token string, variantID uint, quantity int) (*model.Cart, error)
	Remove(ctx context.Context, token string, variantID uint) (*model.Cart, error)
	Clear(ctx context.Context, token string) error
}

type cartService struct {
	store       kv.Store
	productRepo repository.ProductRepository
	variants    VariantService
}

func NewCartService(store kv.Store, productRepo repository.ProductRepository, variants VariantService) CartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
		variants:    variants,
	}
}

func cartKey(token string) string {
	return fmt.Sprintf("cart:%s", token)
}

func shippingKey(token string) string {
	return fmt.Sprintf("shipping:%s", token)
}

func shippingQuoteKey(token string) string {
	return fmt.Sprintf("shipping:quote:%s", token)
}

// Get loads the cart for a token. A missing key is an empty cart; a cart that
// no longer parses is reset rather than surfaced as an error, so a stale or
// mangled cookie never locks a shopper out of the store.
func (s *cartService) Get(ctx context.Context, token string) (*model.Cart, error) {
	raw, err := s.store.Get(ctx, cartKey(token))
	if errors.Is(err, kv.ErrNotFound) {
		return &model.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		logger.Warn("Resetting unparseable cart", map[string]interface{}{
			"token": token,
			"error": err.Error(),
		})
		if err := s.store.Delete(ctx, cartKey(token)); err != nil {
			return nil, err
		}
		return &model.Cart{}, nil
	}
	return &cart, nil
}

// AddLine adds a variant to the cart, merging with an existing line for the
// same variant. The merged quantity is capped rather than rejected.
func (s *cartService) AddLine(ctx context.Context, token string, variantID uint, quantity int) (*model.Cart, error) {
	variant, err := s.productRepo.FindVariantByID(variantID)
	if err != nil {
		return nil, ErrVariantNotFound
	}
	if !variant.Available {
		return nil, ErrVariantUnavailable
	}

	product, err := s.productRepo.FindByID(variant.ProductID)
	if err != nil {
		return nil, ErrVariantNotFound
	}

	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	quantity = model.ClampQuantity(quantity)
	if line := cart.FindLine(variantID); line != nil {
		line.Quantity += quantity
		if line.Quantity > model.MaxLineQuantity {
			line.Quantity = model.MaxLineQuantity
		}
	} else {
		cart.Lines = append(cart.Lines, model.CartLine{
			VariantID:    variant.ID,
			ProductName:  product.Name,
			VariantLabel: variant.Label(),
			UnitPrice:    variant.Price,
			Currency:     variant.Currency,
			ThumbnailURL: s.variants.DisplayImage(product, variant),
			Quantity:     quantity,
		})
	}

	if err := s.persist(ctx, token, cart); err != nil {
		return nil, err
	}
	logger.Debug("Cart line added", map[string]interface{}{
		"token":      token,
		"variant_id": variantID,
		"count":      cart.Count(),
	})
	return cart, nil
}

// SetQuantity overwrites a line's quantity, clamped to the allowed range.
func (s *cartService) SetQuantity(ctx context.Context, token string, variantID uint, quantity int) (*model.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	line := cart.FindLine(variantID)
	if line == nil {
		return nil, ErrVariantNotFound
	}
	line.Quantity = model.ClampQuantity(quantity)

	if err := s.persist(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove deletes a line. Removing a variant that is not in the cart is a
// no-op, not an error.
func (s *cartService) Remove(ctx context.Context, token string, variantID uint) (*model.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.VariantID != variantID {
			kept = append(kept, line)
		}
	}
	cart.Lines = kept

	if err := s.persist(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart and the shipping state for a token.
func (s *cartService) Clear(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, cartKey(token)); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, shippingQuoteKey(token)); err != nil {
		return err
	}
	return s.store.Delete(ctx, shippingKey(token))
}

func (s *cartService) persist(ctx context.Context, token string, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, cartKey(token), string(data)); err != nil {
		return err
	}
	// The stored quote and selection were made for the old cart contents.
	if err := s.store.Delete(ctx, shippingQuoteKey(token)); err != nil {
		return err
	}
	return s.store.Delete(ctx, shippingKey(token))
}
