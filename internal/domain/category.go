package domain

// RawCategory is a category as returned by the category endpoints
type RawCategory struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ParentIDs []string `json:"parentCategoryIds"`
}

// Validate checks the fields every category must carry
func (c RawCategory) Validate() error {
	if c.ID == "" {
		return &ValidationError{Entity: "category", Field: "id", Reason: "is empty"}
	}
	for _, parentID := range c.ParentIDs {
		if parentID == "" {
			return &ValidationError{Entity: "category " + c.ID, Field: "parentCategoryIds", Reason: "contains an empty id"}
		}
	}
	return nil
}

// Category is a category whose full ancestor chain has been resolved.
// Parents holds the resolved parents in the order of ParentIDs.
type Category struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	ParentIDs []string    `json:"parentCategoryIds"`
	Parents   []*Category `json:"parentCategories"`
}

// Ancestors returns every category reachable through Parents, depth-first,
// each one at most once.
func (c *Category) Ancestors() []*Category {
	seen := make(map[string]struct{})
	var out []*Category

	var walk func(*Category)
	walk = func(node *Category) {
		for _, parent := range node.Parents {
			if _, ok := seen[parent.ID]; ok {
				continue
			}
			seen[parent.ID] = struct{}{}
			out = append(out, parent)
			walk(parent)
		}
	}
	walk(c)

	return out
}
