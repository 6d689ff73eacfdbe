package service

import (
	"fmt"
	"strings"
)

// UnknownReferenceError is returned when a product references a category that
// is absent after the full category set has been resolved
type UnknownReferenceError struct {
	ProductID  string
	CategoryID string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("product %s references unknown category %s", e.ProductID, e.CategoryID)
}

// CyclicReferenceError is returned when a category is its own ancestor
type CyclicReferenceError struct {
	CategoryID string
	Path       []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("category %s is its own ancestor: %s", e.CategoryID, strings.Join(e.Path, " -> "))
}
