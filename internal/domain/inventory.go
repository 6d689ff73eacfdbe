package domain

// Availability is the ATP quantity of one product
type Availability struct {
	ProductID         string `json:"productId"`
	QuantityAvailable int    `json:"quantityAvailable"`
}

// AttributeDefinition describes a custom attribute key
type AttributeDefinition struct {
	Key   string `json:"attributeKey"`
	Label string `json:"label"`
}
