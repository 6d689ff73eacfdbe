package client

import (
	"context"
	"fmt"

	"upscale/tap/internal/domain"

	log "github.com/sirupsen/logrus"
)

// PageFunc fetches one 1-based page of a paginated resource
type PageFunc[T any] func(ctx context.Context, pageNumber int) (*domain.Page[T], error)

// ForEachPage fetches page 1 to learn the total page count, then pages 2..N in
// order, handing each page's items to visit before the next page is requested.
func ForEachPage[T any](ctx context.Context, resource string, fetch PageFunc[T], visit func(items []T) error) error {
	firstPage, err := fetch(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to fetch first %s page: %w", resource, err)
	}

	if err := visit(firstPage.Content); err != nil {
		return err
	}

	totalPages := firstPage.Page.TotalPages
	log.Debugf("Fetched %s page 1 of %d with %d items", resource, totalPages, len(firstPage.Content))

	for pageNum := 2; pageNum <= totalPages; pageNum++ {
		page, err := fetch(ctx, pageNum)
		if err != nil {
			return fmt.Errorf("failed to fetch %s page %d: %w", resource, pageNum, err)
		}

		if err := visit(page.Content); err != nil {
			return err
		}

		log.Debugf("Fetched %s page %d of %d with %d items", resource, pageNum, totalPages, len(page.Content))
	}

	return nil
}

// FetchAll concatenates the items of every page in page order
func FetchAll[T any](ctx context.Context, resource string, fetch PageFunc[T]) ([]T, error) {
	var all []T
	err := ForEachPage(ctx, resource, fetch, func(items []T) error {
		all = append(all, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
