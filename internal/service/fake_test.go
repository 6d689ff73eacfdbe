package service

import (
	"context"
	"fmt"
	"net/http"

	"upscale/tap/internal/client"
	"upscale/tap/internal/domain"
)

type fakeSource struct {
	productPages    [][]domain.RawProduct
	categoryPages   [][]domain.RawCategory
	remote          map[string]domain.RawCategory
	inventory       map[string]int
	labels          map[string]string
	inventoryErr    error
	calls           []string
	inventoryCalls  [][]string
	categoryFetches []string
	labelFetches    []string
}

func (f *fakeSource) GetProductPage(ctx context.Context, pageNumber int) (*domain.Page[domain.RawProduct], error) {
	f.calls = append(f.calls, fmt.Sprintf("products:%d", pageNumber))
	return pageOf(f.productPages, pageNumber), nil
}

func (f *fakeSource) GetCategoryPage(ctx context.Context, pageNumber int) (*domain.Page[domain.RawCategory], error) {
	f.calls = append(f.calls, fmt.Sprintf("categories:%d", pageNumber))
	return pageOf(f.categoryPages, pageNumber), nil
}

func (f *fakeSource) GetCategory(ctx context.Context, categoryID string) (*domain.RawCategory, error) {
	f.calls = append(f.calls, "category:"+categoryID)
	f.categoryFetches = append(f.categoryFetches, categoryID)

	category, ok := f.remote[categoryID]
	if !ok {
		return nil, &client.RemoteFetchError{Resource: client.ResourceCategory, StatusCode: http.StatusNotFound}
	}
	return &category, nil
}

func (f *fakeSource) GetInventory(ctx context.Context, productIDs []string) ([]domain.Availability, error) {
	f.calls = append(f.calls, "inventory")
	f.inventoryCalls = append(f.inventoryCalls, productIDs)
	if f.inventoryErr != nil {
		return nil, f.inventoryErr
	}

	var availability []domain.Availability
	for _, id := range productIDs {
		if quantity, ok := f.inventory[id]; ok {
			availability = append(availability, domain.Availability{ProductID: id, QuantityAvailable: quantity})
		}
	}
	return availability, nil
}

func (f *fakeSource) GetCustomAttribute(ctx context.Context, key string) (*domain.AttributeDefinition, error) {
	f.labelFetches = append(f.labelFetches, key)
	label, ok := f.labels[key]
	if !ok {
		return nil, &client.RemoteFetchError{Resource: client.ResourceCustomAttribute, StatusCode: http.StatusNotFound}
	}
	return &domain.AttributeDefinition{Key: key, Label: label}, nil
}

func pageOf[T any](pages [][]T, pageNumber int) *domain.Page[T] {
	if pageNumber > len(pages) {
		return &domain.Page[T]{Page: domain.PageMetadata{TotalPages: len(pages), Number: pageNumber}}
	}
	return &domain.Page[T]{
		Content: pages[pageNumber-1],
		Page:    domain.PageMetadata{TotalPages: len(pages), Number: pageNumber},
	}
}

func rawCategory(id, name string, parents ...string) domain.RawCategory {
	return domain.RawCategory{ID: id, Name: name, ParentIDs: parents}
}
