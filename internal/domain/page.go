package domain

// PageMetadata is the "page" block returned by every paginated endpoint
type PageMetadata struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// Page is one page of a paginated search response
type Page[T any] struct {
	Content []T          `json:"content"`
	Page    PageMetadata `json:"page"`
}
