package service

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"upscale/tap/internal/catalog"
	"upscale/tap/internal/domain"
	"upscale/tap/internal/record"

	log "github.com/sirupsen/logrus"
)

type syncRun struct {
	service  *Service
	mapper   *record.Mapper
	selected map[string]bool
	written  map[string]int
}

// Sync writes the schema of every selected stream, then the records derived
// from the augmented products
func (s *Service) Sync(ctx context.Context, cat *catalog.Catalog) error {
	run := &syncRun{
		service: s,
		mapper: record.NewMapper(record.Options{
			TenantID:  s.tenantID,
			UIScheme:  s.uiScheme,
			UIBaseURL: s.uiBaseURL,
			Timestamp: s.now(),
		}),
		selected: make(map[string]bool),
		written:  make(map[string]int),
	}

	for _, stream := range cat.SelectedStreams() {
		log.Debugf("Writing %s schema with key properties %v", stream.TapStreamID, stream.KeyProperties)
		if err := s.sink.WriteSchema(ctx, stream.TapStreamID, stream.Schema, stream.KeyProperties); err != nil {
			return err
		}
		run.selected[stream.TapStreamID] = true
	}

	log.Info("Fetching Upscale products")
	products, err := s.FetchAugmentedProducts(ctx)
	if err != nil {
		return err
	}

	for _, product := range products {
		if err := run.writeProduct(ctx, product); err != nil {
			return fmt.Errorf("failed to sync product %s: %w", product.SKU, err)
		}
	}

	for _, stream := range slices.Sorted(maps.Keys(run.written)) {
		log.Infof("✅ Wrote %d %s records", run.written[stream], stream)
	}

	return nil
}

func (r *syncRun) writeProduct(ctx context.Context, product domain.Product) error {
	log.Debugf("Syncing product with code: %s", product.SKU)

	if len(product.Categories) == 0 {
		log.Infof("Product %s has no category, skipping", product.SKU)
		return nil
	}

	if err := r.emit(ctx, record.StreamProduct, r.mapper.Product(product)); err != nil {
		return err
	}

	for _, category := range product.Categories {
		categoryRecord, err := r.writeCategory(ctx, category)
		if err != nil {
			return err
		}

		if err := r.emit(ctx, record.StreamCategoryProduct, r.mapper.CategoryProduct(product.SKU, categoryRecord.ID)); err != nil {
			return err
		}
	}

	for _, attribute := range product.CustomAttributes {
		spec, created := r.mapper.Spec(attribute)
		if created {
			if err := r.emit(ctx, record.StreamSpec, spec); err != nil {
				return err
			}
		}

		if err := r.emit(ctx, record.StreamProductSpec, r.mapper.ProductSpec(attribute, product.SKU, spec.ID)); err != nil {
			return err
		}
	}

	if err := r.emit(ctx, record.StreamPricePoint, r.mapper.PricePoint(product)); err != nil {
		return err
	}

	return r.emit(ctx, record.StreamStockPoint, r.mapper.StockPoint(product))
}

// writeCategory emits a category the first time it is seen in the run,
// followed by its parents and the category_parent links to them
func (r *syncRun) writeCategory(ctx context.Context, category *domain.Category) (record.Category, error) {
	rec, created := r.mapper.Category(category)
	if !created {
		return rec, nil
	}

	if err := r.emit(ctx, record.StreamCategory, rec); err != nil {
		return rec, err
	}

	for _, parent := range category.Parents {
		parentRecord, err := r.writeCategory(ctx, parent)
		if err != nil {
			return rec, err
		}

		if err := r.emit(ctx, record.StreamCategoryParent, r.mapper.CategoryParent(rec.ID, parentRecord.ID)); err != nil {
			return rec, err
		}
	}

	return rec, nil
}

func (r *syncRun) emit(ctx context.Context, stream string, rec any) error {
	if !r.selected[stream] {
		return nil
	}

	if err := r.service.sink.WriteRecord(ctx, stream, rec); err != nil {
		return err
	}
	r.written[stream]++

	return nil
}
