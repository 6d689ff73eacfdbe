package service

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"upscale/tap/internal/domain"
)

type AttributeFetcher interface {
	GetCustomAttribute(ctx context.Context, key string) (*domain.AttributeDefinition, error)
}

// AttributeLabeler joins custom attribute values with their definitions,
// fetching each definition once per run
type AttributeLabeler struct {
	fetcher     AttributeFetcher
	definitions map[string]domain.AttributeDefinition
}

func NewAttributeLabeler(fetcher AttributeFetcher) *AttributeLabeler {
	return &AttributeLabeler{
		fetcher:     fetcher,
		definitions: make(map[string]domain.AttributeDefinition),
	}
}

// Label returns the attributes ordered by key
func (l *AttributeLabeler) Label(ctx context.Context, values map[string]string) ([]domain.CustomAttribute, error) {
	attributes := make([]domain.CustomAttribute, 0, len(values))

	for _, key := range slices.Sorted(maps.Keys(values)) {
		definition, ok := l.definitions[key]
		if !ok {
			fetched, err := l.fetcher.GetCustomAttribute(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch custom attribute %s: %w", key, err)
			}
			definition = *fetched
			l.definitions[key] = definition
		}

		attributes = append(attributes, domain.CustomAttribute{
			Key:   key,
			Label: definition.Label,
			Value: values[key],
		})
	}

	return attributes, nil
}
