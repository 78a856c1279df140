package service

import (
	"errors"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
)

var (
	ErrPrimaryOptionNotFound = errors.New("primary option not found")
	ErrVariantNotInGroup     = errors.New("variant not in selected group")
)

// PrimarySelection is the outcome of picking a primary option. Either a
// concrete variant was auto-selected (the group has no secondary axis) or the
// shopper still has to pick from SecondaryOptions.
type PrimarySelection struct {
	AutoSelected     *model.Variant  `json:"auto_selected,omitempty"`
	SecondaryOptions []model.Variant `json:"secondary_options,omitempty"`
}

// VariantService resolves the selection path from a product's option controls
// down to a concrete variant, and the image to show along the way.
type VariantService interface {
	PrimaryOptions(product *model.Product) []string
	SelectPrimary(product *model.Product, label string) (*PrimarySelection, error)
	SelectSecondary(product *model.Product, label string, variantID uint) (*model.Variant, error)
	AutoSelect(product *model.Product) *model.Variant
	DisplayImage(product *model.Product, variant *model.Variant) string
}

type variantService struct{}

func NewVariantService() VariantService {
	return &variantService{}
}

// PrimaryOptions lists primary labels in their group construction order.
func (s *variantService) PrimaryOptions(product *model.Product) []string {
	groups := product.VariantGroups()
	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	return labels
}

// SelectPrimary resolves one primary label. When no variant in the group
// carries a secondary option the first group member is auto-selected;
// otherwise the full group is returned, unavailable variants included, so the
// UI can render them disabled.
func (s *variantService) SelectPrimary(product *model.Product, label string) (*PrimarySelection, error) {
	group := s.groupFor(product, label)
	if group == nil {
		logger.Warn("Primary option not found on product", map[string]interface{}{
			"product_id": product.ID,
			"label":      label,
		})
		return nil, ErrPrimaryOptionNotFound
	}

	for _, v := range group.Variants {
		if v.SecondaryOption != nil {
			return &PrimarySelection{SecondaryOptions: group.Variants}, nil
		}
	}

	auto := group.Variants[0]
	return &PrimarySelection{AutoSelected: &auto}, nil
}

// SelectSecondary resolves a concrete variant inside the currently selected
// primary group. A variant id outside that group is a UI-state error, not a
// reachable shopper flow.
func (s *variantService) SelectSecondary(product *model.Product, label string, variantID uint) (*model.Variant, error) {
	group := s.groupFor(product, label)
	if group == nil {
		return nil, ErrPrimaryOptionNotFound
	}

	for i := range group.Variants {
		if group.Variants[i].ID == variantID {
			return &group.Variants[i], nil
		}
	}

	logger.Warn("Variant not in selected group", map[string]interface{}{
		"product_id": product.ID,
		"label":      label,
		"variant_id": variantID,
	})
	return nil, ErrVariantNotInGroup
}

// AutoSelect returns the sole variant of a single-variant product, which
// needs no interaction before add-to-cart. Multi-variant products return nil.
func (s *variantService) AutoSelect(product *model.Product) *model.Variant {
	if len(product.Variants) == 1 {
		return &product.Variants[0]
	}
	return nil
}

// DisplayImage resolves the image for a selected variant with a three-tier
// fallback: the variant's own image, then any image belonging to a variant
// with the same primary option, then the product thumbnail. The middle tier
// is what keeps a plausible image on screen when only per-color images exist.
func (s *variantService) DisplayImage(product *model.Product, variant *model.Variant) string {
	for _, img := range product.Images {
		if img.VariantID != nil && *img.VariantID == variant.ID {
			return img.URL
		}
	}

	for _, img := range product.Images {
		if img.VariantID == nil {
			continue
		}
		sibling := product.FindVariant(*img.VariantID)
		if sibling != nil && sibling.PrimaryOption == variant.PrimaryOption {
			return img.URL
		}
	}

	if product.ThumbnailURL != "" {
		return product.ThumbnailURL
	}
	return ""
}

func (s *variantService) groupFor(product *model.Product, label string) *model.VariantGroup {
	groups := product.VariantGroups()
	for i := range groups {
		if groups[i].Label == label {
			return &groups[i]
		}
	}
	return nil
}
