package service

import (
	"context"
	"fmt"

	"upscale/tap/internal/domain"

	log "github.com/sirupsen/logrus"
)

type InventoryFetcher interface {
	GetInventory(ctx context.Context, productIDs []string) ([]domain.Availability, error)
}

// InventoryMerger attaches ATP quantities to a batch of products with a single
// availability request per batch
type InventoryMerger struct {
	fetcher InventoryFetcher
}

func NewInventoryMerger(fetcher InventoryFetcher) *InventoryMerger {
	return &InventoryMerger{fetcher: fetcher}
}

// Merge returns one Product per raw product, in order, with QuantityAvailable
// set from the availability response or 0 when the product is absent from it
func (m *InventoryMerger) Merge(ctx context.Context, batch []domain.RawProduct) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(batch))
	if len(batch) == 0 {
		return products, nil
	}

	ids := make([]string, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, raw := range batch {
		if _, ok := seen[raw.ID]; ok {
			continue
		}
		seen[raw.ID] = struct{}{}
		ids = append(ids, raw.ID)
	}

	availability, err := m.fetcher.GetInventory(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory for %d products: %w", len(ids), err)
	}

	quantities := make(map[string]int, len(availability))
	for _, entry := range availability {
		quantities[entry.ProductID] = entry.QuantityAvailable
	}

	missing := 0
	for _, raw := range batch {
		product := domain.NewProduct(raw)
		quantity, ok := quantities[raw.ID]
		if !ok {
			missing++
		}
		product.QuantityAvailable = quantity
		products = append(products, product)
	}

	if missing > 0 {
		log.Debugf("No availability for %d of %d products, defaulting to 0", missing, len(batch))
	}

	return products, nil
}
