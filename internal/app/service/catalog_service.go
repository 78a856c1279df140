package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/fulfillment"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSyncFailed      = errors.New("catalog sync failed")
)

// CatalogSource is the slice of the fulfillment client the catalog service
// needs.
type CatalogSource interface {
	ListProducts(ctx context.Context, offset, limit int) ([]fulfillment.SyncProduct, fulfillment.Paging, error)
	GetProduct(ctx context.Context, productID uint) (*fulfillment.ProductDetail, error)
}

// ImageMirror copies a remote image into owned storage and returns the new
// URL. A nil mirror leaves provider URLs untouched.
type ImageMirror interface {
	MirrorImage(ctx context.Context, sourceURL, keyPrefix string) (string, error)
}

// SyncSummary reports one catalog sync run.
type SyncSummary struct {
	Listed   int           `json:"listed"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// CatalogService keeps the local catalog in step with the fulfillment
// provider and serves read queries against it.
type CatalogService interface {
	Sync(ctx context.Context) (*SyncSummary, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	ExportCatalog() ([]byte, error)
}

type catalogService struct {
	source      CatalogSource
	productRepo repository.ProductRepository
	mirror      ImageMirror
	pageSize    int
	concurrency int

	syncMu sync.Mutex
}

func NewCatalogService(source CatalogSource, productRepo repository.ProductRepository, mirror ImageMirror, pageSize, concurrency int) CatalogService {
	if pageSize <= 0 {
		pageSize = 20
	}
	if concurrency <= 0 {
		concurrency = 5
	}
	return &catalogService{
		source:      source,
		productRepo: productRepo,
		mirror:      mirror,
		pageSize:    pageSize,
		concurrency: concurrency,
	}
}

// Sync pulls the full provider catalog and swaps it into the database in one
// transaction. Product details are fetched with bounded concurrency; a
// product whose detail fetch or normalization fails is skipped so one bad
// product cannot block the rest of the catalog. Listing order is preserved
// regardless of fetch completion order. Only one sync runs at a time.
func (s *catalogService) Sync(ctx context.Context) (*SyncSummary, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	start := time.Now()
	logger.Info("Catalog sync started", nil)

	listed, err := s.listAll(ctx)
	if err != nil {
		logger.Error("Catalog sync failed while listing products", err, nil)
		return nil, ErrSyncFailed
	}

	products := s.fetchAndNormalize(ctx, listed)

	if err := s.productRepo.ReplaceAll(products); err != nil {
		logger.Error("Catalog sync failed while replacing the database", err, nil)
		return nil, ErrSyncFailed
	}

	summary := &SyncSummary{
		Listed:   len(listed),
		Imported: len(products),
		Skipped:  len(listed) - len(products),
		Duration: time.Since(start),
	}
	logger.Info("Catalog sync finished", map[string]interface{}{
		"listed":   summary.Listed,
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
		"duration": summary.Duration.String(),
	})
	return summary, nil
}

func (s *catalogService) listAll(ctx context.Context) ([]fulfillment.SyncProduct, error) {
	var all []fulfillment.SyncProduct
	offset := 0
	for {
		page, paging, err := s.source.ListProducts(ctx, offset, s.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= paging.Total {
			return all, nil
		}
	}
}

// fetchAndNormalize resolves product details concurrently, bounded by a
// semaphore. Results land in a slot per listing index, which keeps the
// provider's ordering.
func (s *catalogService) fetchAndNormalize(ctx context.Context, listed []fulfillment.SyncProduct) []model.Product {
	slots := make([]*model.Product, len(listed))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, raw := range listed {
		wg.Add(1)
		go func(i int, raw fulfillment.SyncProduct) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			detail, err := s.source.GetProduct(ctx, raw.ID)
			if err != nil {
				logger.Warn("Skipping product after failed detail fetch", map[string]interface{}{
					"product_id": raw.ID,
					"name":       raw.Name,
					"error":      err.Error(),
				})
				return
			}

			product := Normalize(detail.Product, detail.Variants)
			if product == nil {
				logger.Warn("Skipping product with no usable variants", map[string]interface{}{
					"product_id": raw.ID,
					"name":       raw.Name,
				})
				return
			}
			product.SyncedAt = time.Now()
			s.mirrorImages(ctx, product)
			slots[i] = product
		}(i, raw)
	}
	wg.Wait()

	products := make([]model.Product, 0, len(listed))
	for _, p := range slots {
		if p != nil {
			products = append(products, *p)
		}
	}
	return products
}

// mirrorImages rewrites image URLs to owned storage. Mirror failures keep the
// provider URL; the catalog stays browsable either way.
func (s *catalogService) mirrorImages(ctx context.Context, product *model.Product) {
	if s.mirror == nil {
		return
	}
	prefix := fmt.Sprintf("catalog/%s", product.Slug)

	if product.ThumbnailURL != "" {
		if url, err := s.mirror.MirrorImage(ctx, product.ThumbnailURL, prefix); err == nil {
			product.ThumbnailURL = url
		}
	}
	for i := range product.Images {
		url, err := s.mirror.MirrorImage(ctx, product.Images[i].URL, prefix)
		if err != nil {
			logger.Warn("Keeping provider image URL after mirror failure", map[string]interface{}{
				"product_id": product.ID,
				"url":        product.Images[i].URL,
				"error":      err.Error(),
			})
			continue
		}
		product.Images[i].URL = url
	}
}

func (s *catalogService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *catalogService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ExportCatalog renders the current catalog as an xlsx workbook, one row per
// variant.
func (s *catalogService) ExportCatalog() ([]byte, error) {
	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Product", "Slug", "Category", "Country", "Variant", "SKU", "Price", "Currency", "Available", "Synced At"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, p := range products {
		for _, v := range p.Variants {
			values := []interface{}{
				p.Name, p.Slug, string(p.Category), p.Country,
				v.Label(), v.SKU, v.Price, v.Currency, v.Available,
				p.SyncedAt.Format(time.RFC3339),
			}
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
