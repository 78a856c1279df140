package repository

import (
	"strings"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSortField string

const (
	ProductSortName     ProductSortField = "name"
	ProductSortPrice    ProductSortField = "price"
	ProductSortSyncedAt ProductSortField = "synced_at"
)

type ProductFilter struct {
	Category      *model.ProductCategory
	Country       string
	Search        string
	SortBy        ProductSortField
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	ReplaceAll(products []model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindVariantByID(variantID uint) (*model.Variant, error)
	Count() (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// preloadOrdered keeps variants and images in their catalog positions across
// database round trips.
func preloadOrdered(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// ReplaceAll swaps the stored catalog for the given one in a single
// transaction. Sync is not incremental: the previous catalog is dropped
// wholesale.
func (r *productRepository) ReplaceAll(products []model.Product) error {
	logger.Debug("Replacing catalog in database", map[string]interface{}{
		"products": len(products),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Variant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Session(&gorm.Session{CreateBatchSize: 100}).Create(&products).Error
	})
	if err != nil {
		logger.Error("Failed to replace catalog in database", err, map[string]interface{}{
			"products": len(products),
		})
		return err
	}

	logger.Info("Catalog replaced in database", map[string]interface{}{
		"products": len(products),
	})
	return nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, error) {
	query := preloadOrdered(r.db)

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("min_price " + direction)
	case ProductSortSyncedAt:
		query = query.Order("synced_at " + direction)
	default:
		query = query.Order("name " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to list products from database", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := preloadOrdered(r.db).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := preloadOrdered(r.db).Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindVariantByID(variantID uint) (*model.Variant, error) {
	var variant model.Variant
	if err := r.db.First(&variant, variantID).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
