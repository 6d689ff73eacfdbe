package service

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"upscale/tap/internal/domain"

	log "github.com/sirupsen/logrus"
)

type CategoryFetcher interface {
	GetCategory(ctx context.Context, categoryID string) (*domain.RawCategory, error)
}

// CategoryResolver attaches the full parent chain to every category. One
// resolver serves one sync run: categories stay resolved across calls.
type CategoryResolver struct {
	fetcher  CategoryFetcher
	known    map[string]domain.RawCategory
	resolved map[string]*domain.Category
	visiting map[string]struct{}
}

func NewCategoryResolver(fetcher CategoryFetcher) *CategoryResolver {
	return &CategoryResolver{
		fetcher:  fetcher,
		known:    make(map[string]domain.RawCategory),
		resolved: make(map[string]*domain.Category),
		visiting: make(map[string]struct{}),
	}
}

// Resolve resolves every category of the batch. Parents missing from the batch
// are fetched on demand. The returned map holds every category resolved so
// far, fetched parents included.
func (r *CategoryResolver) Resolve(ctx context.Context, categories []domain.RawCategory) (map[string]*domain.Category, error) {
	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		if _, duplicate := seen[category.ID]; duplicate {
			log.Warnf("Category %s returned more than once, keeping the first occurrence", category.ID)
			continue
		}
		seen[category.ID] = struct{}{}

		if _, exists := r.known[category.ID]; !exists {
			r.known[category.ID] = category
		}
	}

	for _, category := range categories {
		if _, err := r.ResolveOne(ctx, category.ID); err != nil {
			return nil, err
		}
	}

	log.Infof("Resolved %d categories (%d in batch)", len(r.resolved), len(categories))
	return maps.Clone(r.resolved), nil
}

// ResolveOne returns the resolved category for categoryID, fetching it when
// it is not known yet
func (r *CategoryResolver) ResolveOne(ctx context.Context, categoryID string) (*domain.Category, error) {
	return r.resolve(ctx, categoryID, nil)
}

func (r *CategoryResolver) resolve(ctx context.Context, categoryID string, path []string) (*domain.Category, error) {
	if category, ok := r.resolved[categoryID]; ok {
		return category, nil
	}

	if _, ok := r.visiting[categoryID]; ok {
		return nil, &CyclicReferenceError{
			CategoryID: categoryID,
			Path:       slices.Concat(path, []string{categoryID}),
		}
	}

	raw, err := r.lookup(ctx, categoryID, path)
	if err != nil {
		return nil, err
	}

	r.visiting[categoryID] = struct{}{}
	defer delete(r.visiting, categoryID)
	path = append(path, categoryID)

	parents := make([]*domain.Category, 0, len(raw.ParentIDs))
	for _, parentID := range raw.ParentIDs {
		parent, err := r.resolve(ctx, parentID, path)
		if err != nil {
			return nil, err
		}
		parents = append(parents, parent)
	}

	category := &domain.Category{
		ID:        categoryID,
		Name:      raw.Name,
		ParentIDs: slices.Clone(raw.ParentIDs),
		Parents:   parents,
	}
	r.resolved[categoryID] = category

	return category, nil
}

func (r *CategoryResolver) lookup(ctx context.Context, categoryID string, path []string) (domain.RawCategory, error) {
	if raw, ok := r.known[categoryID]; ok {
		return raw, nil
	}

	if len(path) > 0 {
		log.Debugf("Parent category %s of %s not in batch, fetching it", categoryID, path[len(path)-1])
	}

	fetched, err := r.fetcher.GetCategory(ctx, categoryID)
	if err != nil {
		return domain.RawCategory{}, fmt.Errorf("failed to fetch category %s: %w", categoryID, err)
	}

	raw := *fetched
	if raw.ID != categoryID {
		log.Warnf("Category %s was returned with id %s", categoryID, raw.ID)
		raw.ID = categoryID
	}
	r.known[categoryID] = raw

	return raw, nil
}
