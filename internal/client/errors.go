package client

import "fmt"

// Resource names used in errors and logs
const (
	ResourceProducts        = "products"
	ResourceCategories      = "categories"
	ResourceCategory        = "category"
	ResourceInventory       = "inventory"
	ResourceCustomAttribute = "custom_attribute"
)

// RemoteFetchError is returned when an endpoint answers with a non-200 status
type RemoteFetchError struct {
	Resource   string
	StatusCode int
	URL        string
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: unexpected status code %d from %s", e.Resource, e.StatusCode, e.URL)
}
