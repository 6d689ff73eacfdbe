package service

import (
	"context"
	"fmt"
	"time"

	"upscale/tap/internal/client"
	"upscale/tap/internal/config"
	"upscale/tap/internal/domain"
	"upscale/tap/internal/sink"

	log "github.com/sirupsen/logrus"
)

// CatalogSource is the part of the Upscale client the sync needs
type CatalogSource interface {
	CategoryFetcher
	InventoryFetcher
	AttributeFetcher
	GetProductPage(ctx context.Context, pageNumber int) (*domain.Page[domain.RawProduct], error)
	GetCategoryPage(ctx context.Context, pageNumber int) (*domain.Page[domain.RawCategory], error)
}

type Service struct {
	source    CatalogSource
	sink      sink.Sink
	tenantID  string
	uiScheme  string
	uiBaseURL string
	now       func() time.Time
}

func NewService(source CatalogSource, sink sink.Sink, cfg *config.Config) *Service {
	return &Service{
		source:    source,
		sink:      sink,
		tenantID:  cfg.TenantID,
		uiScheme:  cfg.UIScheme,
		uiBaseURL: cfg.UIBaseURL,
		now:       time.Now,
	}
}

// FetchAugmentedProducts fetches every product page, merging inventory page by
// page, then resolves the full category set once and attaches the resolved
// categories and labelled custom attributes to each product. Products keep
// their fetch order.
func (s *Service) FetchAugmentedProducts(ctx context.Context) ([]domain.Product, error) {
	merger := NewInventoryMerger(s.source)

	var products []domain.Product
	err := client.ForEachPage(ctx, client.ResourceProducts, s.source.GetProductPage, func(batch []domain.RawProduct) error {
		merged, err := merger.Merge(ctx, batch)
		if err != nil {
			return err
		}
		products = append(products, merged...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Infof("📦 Fetched %d products", len(products))

	rawCategories, err := client.FetchAll(ctx, client.ResourceCategories, s.source.GetCategoryPage)
	if err != nil {
		return nil, err
	}
	log.Infof("🗂️ Fetched %d categories", len(rawCategories))

	categories, err := NewCategoryResolver(s.source).Resolve(ctx, rawCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}

	products, err = AttachCategories(products, categories)
	if err != nil {
		return nil, err
	}

	labeler := NewAttributeLabeler(s.source)
	for i := range products {
		attributes, err := labeler.Label(ctx, products[i].RawAttributes)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", products[i].ID, err)
		}
		products[i].CustomAttributes = attributes
	}

	return products, nil
}

// AttachCategories returns copies of products whose category references are
// replaced by the matching resolved categories, in reference order. A
// reference with no resolved category fails the whole batch.
func AttachCategories(products []domain.Product, categories map[string]*domain.Category) ([]domain.Product, error) {
	augmented := make([]domain.Product, 0, len(products))

	for _, product := range products {
		attached := make([]*domain.Category, 0, len(product.CategoryIDs))
		for _, categoryID := range product.CategoryIDs {
			category, ok := categories[categoryID]
			if !ok {
				return nil, &UnknownReferenceError{ProductID: product.ID, CategoryID: categoryID}
			}
			attached = append(attached, category)
		}

		product.Categories = attached
		augmented = append(augmented, product)
	}

	return augmented, nil
}
