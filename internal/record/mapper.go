package record

import (
	"fmt"
	"net/url"
	"time"

	"upscale/tap/internal/domain"

	"github.com/shopspring/decimal"
)

type Options struct {
	TenantID  string
	UIScheme  string
	UIBaseURL string
	Timestamp time.Time
}

// Mapper converts augmented entities into output records. It owns the
// generated category and spec ids and the point counters of one sync run.
type Mapper struct {
	opts      Options
	timestamp string

	categories  map[string]Category
	categorySeq int
	specs       map[string]Spec
	specSeq     int

	pricePointSeq int
	stockPointSeq int
}

func NewMapper(opts Options) *Mapper {
	return &Mapper{
		opts:       opts,
		timestamp:  opts.Timestamp.UTC().Format(time.RFC3339Nano),
		categories: make(map[string]Category),
		specs:      make(map[string]Spec),
	}
}

// Category returns the record for category, generating its id on first use.
// created is false when the category was mapped before in this run.
func (m *Mapper) Category(category *domain.Category) (rec Category, created bool) {
	if rec, ok := m.categories[category.ID]; ok {
		return rec, false
	}

	m.categorySeq++
	rec = Category{
		ID:   m.opts.TenantID + fmt.Sprint(m.categorySeq),
		Name: category.Name,
	}
	m.categories[category.ID] = rec

	return rec, true
}

func (m *Mapper) CategoryParent(categoryID, parentID string) CategoryParent {
	return CategoryParent{CategoryID: categoryID, ParentID: parentID}
}

func (m *Mapper) CategoryProduct(sku, categoryID string) CategoryProduct {
	return CategoryProduct{TenantID: m.opts.TenantID, SKU: sku, CategoryID: categoryID}
}

func (m *Mapper) Product(product domain.Product) Product {
	rec := Product{
		SKU:          product.SKU,
		TenantID:     m.opts.TenantID,
		RegularPrice: price(product.Price.SellingPrice),
		Stock:        &product.QuantityAvailable,
		DetailsURI:   m.detailsURI(product.ID),
		Name:         product.Name,
		Description:  product.Description,
	}

	if len(product.Media) > 0 && product.Media[0].FullSize != "" {
		image := product.Media[0].FullSize
		rec.ImageURI = &image
	}

	if summary := PlainText(product.Description); summary != "" {
		rec.Summary = &summary
	}

	return rec
}

func (m *Mapper) PricePoint(product domain.Product) PricePoint {
	m.pricePointSeq++
	return PricePoint{
		ID:        fmt.Sprintf("%s.%d", m.timestamp, m.pricePointSeq),
		TenantID:  m.opts.TenantID,
		SKU:       product.SKU,
		Timestamp: m.timestamp,
		Price:     price(product.Price.SellingPrice),
	}
}

func (m *Mapper) StockPoint(product domain.Product) StockPoint {
	m.stockPointSeq++
	return StockPoint{
		ID:        fmt.Sprintf("%s.%d", m.timestamp, m.stockPointSeq),
		TenantID:  m.opts.TenantID,
		SKU:       product.SKU,
		Timestamp: m.timestamp,
		Stock:     product.QuantityAvailable,
	}
}

// Spec returns the record for an attribute key, generating its id on first use
func (m *Mapper) Spec(attribute domain.CustomAttribute) (rec Spec, created bool) {
	if rec, ok := m.specs[attribute.Key]; ok {
		return rec, false
	}

	m.specSeq++
	rec = Spec{
		ID:   m.opts.TenantID + fmt.Sprint(m.specSeq),
		Name: attribute.Label,
	}
	m.specs[attribute.Key] = rec

	return rec, true
}

func (m *Mapper) ProductSpec(attribute domain.CustomAttribute, sku, specID string) ProductSpec {
	rec := ProductSpec{
		TenantID: m.opts.TenantID,
		SKU:      sku,
		SpecID:   specID,
		Value:    attribute.Value,
	}

	if _, err := decimal.NewFromString(attribute.Value); err == nil {
		value := attribute.Value
		rec.PureValue = &value
	}

	return rec
}

func (m *Mapper) detailsURI(productID string) string {
	u := url.URL{
		Scheme: m.opts.UIScheme,
		Host:   m.opts.UIBaseURL,
		Path:   "/product/" + productID,
	}
	return u.String()
}

func price(amount decimal.NullDecimal) *float64 {
	if !amount.Valid {
		return nil
	}
	value := amount.Decimal.InexactFloat64()
	return &value
}
