package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/fulfillment"
)

// categoryRule maps name keywords to a catalog category. Rules are checked in
// order; the first match wins.
type categoryRule struct {
	keywords []string
	category model.ProductCategory
}

var categoryRules = []categoryRule{
	{[]string{"t-shirt", "hoodie", "shirt"}, model.CategoryApparel},
	{[]string{"poster", "print", "framed"}, model.CategoryPosters},
	{[]string{"sticker"}, model.CategoryStickers},
	{[]string{"notebook", "stationary", "mug", "tote"}, model.CategoryStationary},
}

func inferCategory(productName string) model.ProductCategory {
	name := strings.ToLower(productName)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryOther
}

func inferCountry(productName string) string {
	name := strings.ToLower(productName)
	for _, country := range countryGazetteer {
		if strings.Contains(name, strings.ToLower(country)) {
			return country
		}
	}
	return ""
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// slugFor derives a URL slug from the product name and id. The id suffix
// makes slugs collision-free by construction.
func slugFor(name string, id uint) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return strconv.FormatUint(uint64(id), 10)
	}
	return s + "-" + strconv.FormatUint(uint64(id), 10)
}

// parseOptions derives the two option axes from a raw variant name. The
// product's own name is stripped as a prefix (plus leading separators); the
// remainder is split on " / ". Anything past the second part is discarded:
// only two option axes are modeled.
func parseOptions(productName, variantName string) (string, *string) {
	stripped := variantName
	if strings.HasPrefix(variantName, productName) {
		stripped = strings.TrimLeft(variantName[len(productName):], " -/\t")
	}
	if stripped == "" {
		stripped = variantName
	}

	parts := strings.Split(stripped, " / ")
	if len(parts) >= 2 {
		secondary := parts[1]
		return parts[0], &secondary
	}
	return parts[0], nil
}

// previewURL picks the best display image for a variant: a file explicitly
// typed "preview" if present, otherwise the first file with a usable URL.
func previewURL(files []fulfillment.File) string {
	for _, f := range files {
		if f.Type == "preview" {
			if f.PreviewURL != "" {
				return f.PreviewURL
			}
			if f.URL != "" {
				return f.URL
			}
		}
	}
	for _, f := range files {
		if f.PreviewURL != "" {
			return f.PreviewURL
		}
		if f.URL != "" {
			return f.URL
		}
	}
	return ""
}

// Normalize converts one raw provider product and its variants into the
// canonical catalog aggregate. Variants without a parseable retail price are
// dropped silently; a product left with no variants returns nil and must be
// excluded from the catalog by the caller. Normalization is a pure function
// of its input; the caller stamps SyncedAt.
func Normalize(raw fulfillment.SyncProduct, rawVariants []fulfillment.SyncVariant) *model.Product {
	product := &model.Product{
		ID:           raw.ID,
		Slug:         slugFor(raw.Name, raw.ID),
		Name:         raw.Name,
		ThumbnailURL: raw.ThumbnailURL,
		Category:     inferCategory(raw.Name),
		Country:      inferCountry(raw.Name),
	}

	seenURLs := make(map[string]bool)
	imagePos := 0
	if raw.ThumbnailURL != "" {
		product.Images = append(product.Images, model.ProductImage{
			ProductID: raw.ID,
			URL:       raw.ThumbnailURL,
			Kind:      model.ImageKindThumbnail,
			Position:  imagePos,
		})
		seenURLs[raw.ThumbnailURL] = true
		imagePos++
	}

	for _, rv := range rawVariants {
		price, err := strconv.ParseFloat(rv.RetailPrice, 64)
		if err != nil {
			// No retail price means the variant is not sold here; it is
			// excluded from the catalog, not an error.
			continue
		}

		primary, secondary := parseOptions(raw.Name, rv.Name)
		preview := previewURL(rv.Files)

		variant := model.Variant{
			ID:               rv.ID,
			ProductID:        raw.ID,
			CatalogVariantID: rv.VariantID,
			Name:             rv.Name,
			SKU:              rv.SKU,
			Price:            price,
			Currency:         rv.Currency,
			PrimaryOption:    primary,
			SecondaryOption:  secondary,
			Available:        rv.Availability != fulfillment.AvailabilityDiscontinued,
			PreviewImageURL:  preview,
			Position:         len(product.Variants),
		}
		product.Variants = append(product.Variants, variant)

		if preview != "" && !seenURLs[preview] {
			variantID := rv.ID
			product.Images = append(product.Images, model.ProductImage{
				ProductID: raw.ID,
				VariantID: &variantID,
				URL:       preview,
				Kind:      model.ImageKindPreview,
				Position:  imagePos,
			})
			seenURLs[preview] = true
			imagePos++
		}

		if product.Currency == "" {
			product.Currency = rv.Currency
		}
		if len(product.Variants) == 1 || price < product.MinPrice {
			product.MinPrice = price
		}
		if price > product.MaxPrice {
			product.MaxPrice = price
		}
	}

	if len(product.Variants) == 0 {
		return nil
	}
	return product
}
