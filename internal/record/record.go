package record

// Stream names
const (
	StreamCategory              = "category"
	StreamCategoryParent        = "category_parent"
	StreamCustomerSpecificPrice = "customer_specific_price"
	StreamPricePoint            = "price_point"
	StreamProduct               = "product"
	StreamCategoryProduct       = "category_product"
	StreamProductSpec           = "product_spec"
	StreamSpec                  = "spec"
	StreamStockPoint            = "stock_point"
)

// KeyProperties lists the primary key of every stream
var KeyProperties = map[string][]string{
	StreamCategory:              {"id"},
	StreamCategoryParent:        {"categoryId", "parentId"},
	StreamCustomerSpecificPrice: {"customerId", "tenantId", "sku"},
	StreamPricePoint:            {"id"},
	StreamProduct:               {"sku", "tenantId"},
	StreamCategoryProduct:       {"sku", "tenantId", "categoryId"},
	StreamProductSpec:           {"tenantId", "sku", "specId"},
	StreamSpec:                  {"id"},
	StreamStockPoint:            {"id"},
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CategoryParent struct {
	CategoryID string `json:"categoryId"`
	ParentID   string `json:"parentId"`
}

type CategoryProduct struct {
	TenantID   string `json:"tenantId"`
	SKU        string `json:"sku"`
	CategoryID string `json:"categoryId"`
}

type Product struct {
	SKU           string   `json:"sku"`
	TenantID      string   `json:"tenantId"`
	CategoryID    *string  `json:"categoryId"`
	RegularPrice  *float64 `json:"regularPrice"`
	SalePrice     *float64 `json:"salePrice"`
	Currency      *string  `json:"currency"`
	Stock         *int     `json:"stock"`
	ImageURI      *string  `json:"imageUri"`
	DetailsURI    string   `json:"detailsUri"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Summary       *string  `json:"summary"`
	Manufacturer  *string  `json:"manufacturer"`
	ReviewAverage *float64 `json:"reviewAverage"`
	ReviewCount   *int     `json:"reviewCount"`
}

type PricePoint struct {
	ID        string   `json:"id"`
	TenantID  string   `json:"tenantId"`
	SKU       string   `json:"sku"`
	Timestamp string   `json:"timestamp"`
	Price     *float64 `json:"price"`
}

type StockPoint struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	SKU       string `json:"sku"`
	Timestamp string `json:"timestamp"`
	Stock     int    `json:"stock"`
}

type Spec struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	UnitName   *string `json:"unitName"`
	UnitSymbol *string `json:"unitSymbol"`
	Comparable *bool   `json:"comparable"`
}

type ProductSpec struct {
	TenantID         string  `json:"tenantId"`
	SKU              string  `json:"sku"`
	SpecID           string  `json:"specId"`
	Value            string  `json:"value"`
	PureValue        *string `json:"pureValue"`
	Type             *string `json:"type"`
	InterpretedType  *string `json:"interpretedType"`
	InterpretedValue *string `json:"interpretedValue"`
}
