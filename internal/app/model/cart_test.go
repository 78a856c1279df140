package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, MinLineQuantity, ClampQuantity(-5))
	assert.Equal(t, MinLineQuantity, ClampQuantity(0))
	assert.Equal(t, 7, ClampQuantity(7))
	assert.Equal(t, MaxLineQuantity, ClampQuantity(MaxLineQuantity))
	assert.Equal(t, MaxLineQuantity, ClampQuantity(999))
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{VariantID: 1, UnitPrice: 24.5, Currency: "EUR", Quantity: 2},
		{VariantID: 2, UnitPrice: 4, Currency: "EUR", Quantity: 3},
	}}

	assert.False(t, cart.IsEmpty())
	assert.Equal(t, 5, cart.Count())
	assert.Equal(t, 61.0, cart.Subtotal())
	assert.Equal(t, "EUR", cart.CurrencyOr("USD"))
	assert.Equal(t, "USD", (&Cart{}).CurrencyOr("USD"))
}

func TestCartFingerprint(t *testing.T) {
	a := Cart{Lines: []CartLine{
		{VariantID: 1, Quantity: 2},
		{VariantID: 2, Quantity: 1},
	}}
	b := Cart{Lines: []CartLine{
		{VariantID: 2, Quantity: 1},
		{VariantID: 1, Quantity: 2},
	}}

	// Line order does not matter, quantities do.
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := Cart{Lines: []CartLine{
		{VariantID: 1, Quantity: 3},
		{VariantID: 2, Quantity: 1},
	}}
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestVariantGroups(t *testing.T) {
	m := "M"
	product := Product{
		Variants: []Variant{
			{ID: 1, PrimaryOption: "Black", SecondaryOption: &m},
			{ID: 2, PrimaryOption: "White", SecondaryOption: &m},
			{ID: 3, PrimaryOption: "Black"},
		},
	}

	groups := product.VariantGroups()
	// Groups keep first-appearance order and partition the variants.
	assert.Equal(t, "Black", groups[0].Label)
	assert.Equal(t, "White", groups[1].Label)
	assert.Len(t, groups[0].Variants, 2)
	assert.Len(t, groups[1].Variants, 1)

	total := 0
	for _, g := range groups {
		total += len(g.Variants)
	}
	assert.Equal(t, len(product.Variants), total)
}

func TestVariantLabel(t *testing.T) {
	m := "M"
	twoAxis := Variant{PrimaryOption: "Black", SecondaryOption: &m}
	oneAxis := Variant{PrimaryOption: "30x40"}
	assert.Equal(t, "Black / M", twoAxis.Label())
	assert.Equal(t, "30x40", oneAxis.Label())
}
