package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/fulfillment"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/kv"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
)

var (
	ErrInvalidShippingRequest = errors.New("invalid shipping request")
	ErrUnresolvableVariant    = errors.New("cart variant cannot be resolved")
	ErrShippingEstimateFailed = errors.New("shipping estimate failed")
	ErrShippingOptionNotFound = errors.New("shipping option was not quoted")
)

// RateQuoter is the slice of the fulfillment client the shipping service
// needs.
type RateQuoter interface {
	ShippingRates(ctx context.Context, req fulfillment.RateRequest) ([]fulfillment.Rate, error)
}

// ShippingService quotes shipping for a cart and remembers which quoted
// option the shopper picked. Estimating defaults the selection to the first
// quoted option; the shopper may switch, but only among the options of the
// latest quote, and always at the provider's rate. Quote and selection both
// carry a fingerprint of the cart they were quoted for; once the cart changes
// they are silently discarded instead of being charged against the wrong
// contents.
type ShippingService interface {
	Estimate(ctx context.Context, token, countryCode string) ([]model.ShippingOption, error)
	SelectOption(ctx context.Context, token, optionID string) (*model.ShippingOption, error)
	SelectedOption(ctx context.Context, token string) (*model.ShippingOption, error)
	ClearSelection(ctx context.Context, token string) error
}

type shippingService struct {
	quoter      RateQuoter
	store       kv.Store
	carts       CartService
	productRepo repository.ProductRepository
}

func NewShippingService(quoter RateQuoter, store kv.Store, carts CartService, productRepo repository.ProductRepository) ShippingService {
	return &shippingService{
		quoter:      quoter,
		store:       store,
		carts:       carts,
		productRepo: productRepo,
	}
}

func validCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// Estimate quotes shipping options for the cart behind token. Input is
// validated before any network call; the country code is case-insensitive
// and normalized to uppercase for the provider. Store-level variant ids are
// translated to the provider's catalog-level ids; quoted options come back
// in the provider's order. An empty quote list is a valid answer. A
// non-empty quote auto-selects its first option as the default.
func (s *shippingService) Estimate(ctx context.Context, token, countryCode string) ([]model.ShippingOption, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if !validCountryCode(countryCode) {
		return nil, ErrInvalidShippingRequest
	}

	cart, err := s.carts.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrInvalidShippingRequest
	}

	items := make([]fulfillment.RateItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		variant, err := s.productRepo.FindVariantByID(line.VariantID)
		if err != nil {
			logger.Warn("Cart references a variant missing from the catalog", map[string]interface{}{
				"token":      token,
				"variant_id": line.VariantID,
			})
			return nil, ErrUnresolvableVariant
		}
		items = append(items, fulfillment.RateItem{
			VariantID: variant.CatalogVariantID,
			Quantity:  line.Quantity,
		})
	}

	rates, err := s.quoter.ShippingRates(ctx, fulfillment.RateRequest{
		Recipient: fulfillment.RateRecipient{CountryCode: countryCode},
		Items:     items,
	})
	if err != nil {
		logger.Error("Shipping rate request failed", err, map[string]interface{}{
			"token":   token,
			"country": countryCode,
		})
		return nil, ErrShippingEstimateFailed
	}

	options := make([]model.ShippingOption, 0, len(rates))
	for _, r := range rates {
		amount, err := strconv.ParseFloat(r.Rate, 64)
		if err != nil {
			logger.Warn("Skipping rate with unparseable amount", map[string]interface{}{
				"rate_id": r.ID,
				"rate":    r.Rate,
			})
			continue
		}
		options = append(options, model.ShippingOption{
			ID:              r.ID,
			Name:            r.Name,
			Rate:            amount,
			Currency:        r.Currency,
			MinDeliveryDays: r.MinDeliveryDays,
			MaxDeliveryDays: r.MaxDeliveryDays,
		})
	}

	fingerprint := cart.Fingerprint()
	quote := model.ShippingQuote{Options: options, CartFingerprint: fingerprint}
	data, err := json.Marshal(quote)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, shippingQuoteKey(token), string(data)); err != nil {
		return nil, err
	}

	// First quoted option becomes the default selection; nothing to the
	// destination clears whatever was selected before.
	if len(options) == 0 {
		if err := s.store.Delete(ctx, shippingKey(token)); err != nil {
			return nil, err
		}
		return options, nil
	}
	if err := s.storeSelection(ctx, token, options[0], fingerprint); err != nil {
		return nil, err
	}
	return options, nil
}

// SelectOption switches the selection to one of the latest quote's options,
// named by id. The stored rate is the quoted one; nothing about the option
// is taken from the caller. A missing or stale quote rejects the switch.
func (s *shippingService) SelectOption(ctx context.Context, token, optionID string) (*model.ShippingOption, error) {
	raw, err := s.store.Get(ctx, shippingQuoteKey(token))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrShippingOptionNotFound
	}
	if err != nil {
		return nil, err
	}

	var quote model.ShippingQuote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		if err := s.store.Delete(ctx, shippingQuoteKey(token)); err != nil {
			return nil, err
		}
		return nil, ErrShippingOptionNotFound
	}

	cart, err := s.carts.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if quote.CartFingerprint != cart.Fingerprint() {
		logger.Debug("Discarding shipping quote for a changed cart", map[string]interface{}{
			"token": token,
		})
		if err := s.store.Delete(ctx, shippingQuoteKey(token)); err != nil {
			return nil, err
		}
		return nil, ErrShippingOptionNotFound
	}

	option := quote.FindOption(optionID)
	if option == nil {
		return nil, ErrShippingOptionNotFound
	}
	if err := s.storeSelection(ctx, token, *option, quote.CartFingerprint); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *shippingService) storeSelection(ctx context.Context, token string, option model.ShippingOption, fingerprint string) error {
	selection := model.ShippingSelection{
		Option:          option,
		CartFingerprint: fingerprint,
	}
	data, err := json.Marshal(selection)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, shippingKey(token), string(data))
}

// SelectedOption returns the stored option, or nil when none is stored, the
// stored payload does not parse, or the cart no longer matches the
// fingerprint it was quoted for. The stale cases also clear the stored key.
func (s *shippingService) SelectedOption(ctx context.Context, token string) (*model.ShippingOption, error) {
	raw, err := s.store.Get(ctx, shippingKey(token))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var selection model.ShippingSelection
	if err := json.Unmarshal([]byte(raw), &selection); err != nil {
		if err := s.store.Delete(ctx, shippingKey(token)); err != nil {
			return nil, err
		}
		return nil, nil
	}

	cart, err := s.carts.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if selection.CartFingerprint != cart.Fingerprint() {
		logger.Debug("Discarding shipping selection for a changed cart", map[string]interface{}{
			"token": token,
		})
		if err := s.store.Delete(ctx, shippingKey(token)); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &selection.Option, nil
}

func (s *shippingService) ClearSelection(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, shippingQuoteKey(token)); err != nil {
		return err
	}
	return s.store.Delete(ctx, shippingKey(token))
}
