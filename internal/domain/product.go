package domain

import "github.com/shopspring/decimal"

// Price is the price block of a product
type Price struct {
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	SellingPrice  decimal.NullDecimal `json:"sellingPrice"`
}

// Media is one image reference of a product
type Media struct {
	Thumbnail string `json:"thumbnail"`
	FullSize  string `json:"fullSize"`
}

// RawProduct is a product as returned by the product search endpoint
type RawProduct struct {
	ID               string            `json:"id"`
	SKU              string            `json:"sku"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Price            Price             `json:"price"`
	Media            []Media           `json:"media"`
	CustomAttributes map[string]string `json:"customAttributes"`
	CategoryIDs      []string          `json:"productCategoryIds"`
}

// Normalize fills whichever of ID and SKU is missing from the other one and
// rejects products that carry neither. Records key products by SKU, while
// inventory lookups and details URIs use ID, so the two may differ.
func (p RawProduct) Normalize() (RawProduct, error) {
	switch {
	case p.ID == "" && p.SKU == "":
		return p, &ValidationError{Entity: "product", Field: "id", Reason: "neither id nor sku is set"}
	case p.ID == "":
		p.ID = p.SKU
	case p.SKU == "":
		p.SKU = p.ID
	}
	return p, nil
}

// CustomAttribute is a product attribute value joined with its definition
type CustomAttribute struct {
	Key   string `json:"attributeKey"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is a fully augmented product: inventory merged, category references
// replaced by resolved categories and custom attributes labelled.
type Product struct {
	ID                string            `json:"id"`
	SKU               string            `json:"sku"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Price             Price             `json:"price"`
	Media             []Media           `json:"media"`
	CategoryIDs       []string          `json:"productCategoryIds"`
	RawAttributes     map[string]string `json:"customAttributes"`
	QuantityAvailable int               `json:"quantityAvailable"`
	Categories        []*Category       `json:"categories"`
	CustomAttributes  []CustomAttribute `json:"augmentedCustomAttributes"`
}

// NewProduct copies the fields of a fetched product into a Product value
func NewProduct(raw RawProduct) Product {
	return Product{
		ID:            raw.ID,
		SKU:           raw.SKU,
		Name:          raw.Name,
		Description:   raw.Description,
		Price:         raw.Price,
		Media:         raw.Media,
		CategoryIDs:   raw.CategoryIDs,
		RawAttributes: raw.CustomAttributes,
	}
}
