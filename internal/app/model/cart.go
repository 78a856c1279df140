package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

const (
	MinLineQuantity = 1
	MaxLineQuantity = 20
)

// CartLine is one cart entry. VariantID is the store-level variant id; a cart
// holds at most one line per distinct variant id.
type CartLine struct {
	VariantID    uint    `json:"variant_id"`
	ProductName  string  `json:"product_name"`
	VariantLabel string  `json:"variant_label"`
	UnitPrice    float64 `json:"unit_price"`
	Currency     string  `json:"currency"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
	Quantity     int     `json:"quantity"`
}

// Cart is an ordered list of lines. Count and subtotal are always derived,
// never stored.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Count() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, l := range c.Lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

// CurrencyOr returns the first line's currency, or fallback for an empty cart.
func (c *Cart) CurrencyOr(fallback string) string {
	if len(c.Lines) > 0 {
		return c.Lines[0].Currency
	}
	return fallback
}

// FindLine returns the line for the given variant id, or nil.
func (c *Cart) FindLine(variantID uint) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Fingerprint identifies the cart's contents by variant ids and quantities
// only. Shipping selections are stored against it so a selection made for one
// cart state is discarded once the cart changes.
func (c *Cart) Fingerprint() string {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].VariantID < lines[j].VariantID })

	h := sha256.New()
	for _, l := range lines {
		fmt.Fprintf(h, "%d:%d;", l.VariantID, l.Quantity)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ClampQuantity forces a requested quantity into the allowed [1, 20] range.
// Out-of-range values are clamped silently, not rejected.
func ClampQuantity(quantity int) int {
	if quantity < MinLineQuantity {
		return MinLineQuantity
	}
	if quantity > MaxLineQuantity {
		return MaxLineQuantity
	}
	return quantity
}
