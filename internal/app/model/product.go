package model

import (
	"time"
)

type ProductCategory string

const (
	CategoryApparel    ProductCategory = "apparel"
	CategoryPosters    ProductCategory = "posters"
	CategoryStickers   ProductCategory = "stickers"
	CategoryStationary ProductCategory = "stationary"
	CategoryOther      ProductCategory = "other"
)

type ImageKind string

const (
	ImageKindThumbnail ImageKind = "thumbnail"
	ImageKindPreview   ImageKind = "preview"
)

// Product is the normalized catalog aggregate. The whole table is replaced
// wholesale on every catalog sync; rows are never updated in place.
type Product struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	Slug         string          `gorm:"uniqueIndex;not null" json:"slug"`
	Name         string          `gorm:"not null" json:"name"`
	ThumbnailURL string          `json:"thumbnail_url"`
	Category     ProductCategory `gorm:"type:varchar(20);index" json:"category"`
	Country      string          `gorm:"type:varchar(60);index" json:"country,omitempty"`
	MinPrice     float64         `json:"min_price"`
	MaxPrice     float64         `json:"max_price"`
	Currency     string          `gorm:"type:varchar(3)" json:"currency"`
	SyncedAt     time.Time       `json:"synced_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	Variants []Variant      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// Variant carries both identifier namespaces from the fulfillment provider:
// ID is the store-level id (cart and checkout key), CatalogVariantID is the
// catalog-level id required for shipping-rate lookups.
type Variant struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	ProductID        uint    `gorm:"not null;index" json:"product_id"`
	CatalogVariantID uint    `gorm:"not null" json:"catalog_variant_id"`
	Name             string  `gorm:"not null" json:"name"`
	SKU              string  `json:"sku,omitempty"`
	Price            float64 `gorm:"not null" json:"price"`
	Currency         string  `gorm:"type:varchar(3)" json:"currency"`
	PrimaryOption    string  `gorm:"not null" json:"primary_option"`
	SecondaryOption  *string `json:"secondary_option,omitempty"`
	Available        bool    `gorm:"default:true" json:"available"`
	PreviewImageURL  string  `json:"preview_image_url,omitempty"`
	Position         int     `gorm:"not null" json:"-"`
}

func (Variant) TableName() string {
	return "variants"
}

// Label joins the option axes into the display string shown on cart lines.
func (v *Variant) Label() string {
	if v.SecondaryOption != nil {
		return v.PrimaryOption + " / " + *v.SecondaryOption
	}
	return v.PrimaryOption
}

// ProductImage is one entry of the product's ordered image set. VariantID is
// nil for the product thumbnail and set for variant preview images.
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	ProductID uint      `gorm:"not null;index" json:"-"`
	VariantID *uint     `json:"variant_id,omitempty"`
	URL       string    `gorm:"not null" json:"url"`
	Kind      ImageKind `gorm:"type:varchar(20)" json:"kind"`
	Position  int       `gorm:"not null" json:"-"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// VariantGroup is the set of variants sharing one primary option value.
type VariantGroup struct {
	Label    string    `json:"label"`
	Variants []Variant `json:"variants"`
}

// VariantGroups partitions Variants by primary option. Group order reflects
// the first appearance of each primary label in catalog order; every variant
// lands in exactly one group.
func (p *Product) VariantGroups() []VariantGroup {
	var groups []VariantGroup
	index := make(map[string]int)

	for _, v := range p.Variants {
		i, ok := index[v.PrimaryOption]
		if !ok {
			index[v.PrimaryOption] = len(groups)
			groups = append(groups, VariantGroup{Label: v.PrimaryOption})
			i = len(groups) - 1
		}
		groups[i].Variants = append(groups[i].Variants, v)
	}
	return groups
}

// FindVariant returns the variant with the given store-level id, or nil.
func (p *Product) FindVariant(variantID uint) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
