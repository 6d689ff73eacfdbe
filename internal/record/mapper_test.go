package record

import (
	"encoding/json"
	"testing"
	"time"

	"upscale/tap/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestMapper() *Mapper {
	return NewMapper(Options{
		TenantID:  "t1",
		UIScheme:  "http",
		UIBaseURL: "storefront.test.com",
		Timestamp: runTime,
	})
}

func money(value string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(value))
}

func TestMapper_CategoryGeneratesIdsOncePerCategory(t *testing.T) {
	m := newTestMapper()

	laptops, created := m.Category(&domain.Category{ID: "category_1", Name: "laptops"})
	assert.True(t, created)
	assert.Equal(t, Category{ID: "t11", Name: "laptops"}, laptops)

	readers, created := m.Category(&domain.Category{ID: "category_2", Name: "e-readers"})
	assert.True(t, created)
	assert.Equal(t, Category{ID: "t12", Name: "e-readers"}, readers)

	again, created := m.Category(&domain.Category{ID: "category_1", Name: "laptops"})
	assert.False(t, created)
	assert.Equal(t, laptops, again)
}

func TestMapper_IdentityIsScopedToOneMapper(t *testing.T) {
	first := newTestMapper()
	first.Category(&domain.Category{ID: "a"})
	first.Category(&domain.Category{ID: "b"})

	rec, created := newTestMapper().Category(&domain.Category{ID: "b"})
	assert.True(t, created)
	assert.Equal(t, "t11", rec.ID)
}

func TestMapper_Product(t *testing.T) {
	m := newTestMapper()

	rec := m.Product(domain.Product{
		ID:          "123456",
		SKU:         "123456",
		Name:        "Sony Product",
		Description: "<p>Product <b>description</b></p>",
		Price: domain.Price{
			OriginalPrice: money("2.34"),
			SellingPrice:  money("1.23"),
		},
		Media: []domain.Media{
			{Thumbnail: "https://api.test.com/thumbnail-image", FullSize: "https://api.test.com/fullsize-image"},
		},
		QuantityAvailable: 7,
	})

	assert.Equal(t, "123456", rec.SKU)
	assert.Equal(t, "t1", rec.TenantID)
	require.NotNil(t, rec.RegularPrice)
	assert.InDelta(t, 1.23, *rec.RegularPrice, 1e-9)
	require.NotNil(t, rec.ImageURI)
	assert.Equal(t, "https://api.test.com/fullsize-image", *rec.ImageURI)
	assert.Equal(t, "http://storefront.test.com/product/123456", rec.DetailsURI)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, "Product description", *rec.Summary)
	require.NotNil(t, rec.Stock)
	assert.Equal(t, 7, *rec.Stock)
	assert.Nil(t, rec.SalePrice)
	assert.Nil(t, rec.Currency)
}

func TestMapper_ProductKeysBySKUAndLinksByID(t *testing.T) {
	m := newTestMapper()
	product := domain.Product{ID: "upscale-id", SKU: "sku-42"}

	rec := m.Product(product)
	assert.Equal(t, "sku-42", rec.SKU)
	assert.Equal(t, "http://storefront.test.com/product/upscale-id", rec.DetailsURI)

	assert.Equal(t, "sku-42", m.PricePoint(product).SKU)
	assert.Equal(t, "sku-42", m.StockPoint(product).SKU)
}

func TestMapper_ProductNullFields(t *testing.T) {
	rec := newTestMapper().Product(domain.Product{ID: "p1", SKU: "p1"})

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"categoryId", "regularPrice", "salePrice", "currency", "imageUri", "summary", "manufacturer", "reviewAverage", "reviewCount"} {
		value, ok := fields[key]
		assert.True(t, ok, key)
		assert.Nil(t, value, key)
	}
	assert.Equal(t, float64(0), fields["stock"])
}

func TestMapper_PointsCountUpWithinRun(t *testing.T) {
	m := newTestMapper()
	timestamp := runTime.Format(time.RFC3339Nano)

	first := m.PricePoint(domain.Product{SKU: "abc123", Price: domain.Price{SellingPrice: money("50.0")}})
	second := m.PricePoint(domain.Product{SKU: "abc234", Price: domain.Price{SellingPrice: money("54.0")}})

	assert.Equal(t, timestamp+".1", first.ID)
	assert.Equal(t, timestamp+".2", second.ID)
	assert.Equal(t, timestamp, first.Timestamp)
	assert.Equal(t, "abc234", second.SKU)
	require.NotNil(t, second.Price)
	assert.InDelta(t, 54.0, *second.Price, 1e-9)

	stock := m.StockPoint(domain.Product{SKU: "abc123", QuantityAvailable: 3})
	assert.Equal(t, timestamp+".1", stock.ID)
	assert.Equal(t, 3, stock.Stock)
}

func TestMapper_SpecAndProductSpec(t *testing.T) {
	m := newTestMapper()

	spec, created := m.Spec(domain.CustomAttribute{Key: "123", Label: "Attribute label", Value: "1.23"})
	assert.True(t, created)
	assert.Equal(t, "t11", spec.ID)
	assert.Equal(t, "Attribute label", spec.Name)

	_, created = m.Spec(domain.CustomAttribute{Key: "123", Label: "Attribute label", Value: "9"})
	assert.False(t, created)

	numeric := m.ProductSpec(domain.CustomAttribute{Key: "123", Value: "1.23"}, "abc123", "t11")
	require.NotNil(t, numeric.PureValue)
	assert.Equal(t, "1.23", *numeric.PureValue)
	assert.Equal(t, "t1", numeric.TenantID)
	assert.Equal(t, "abc123", numeric.SKU)
	assert.Equal(t, "t11", numeric.SpecID)

	text := m.ProductSpec(domain.CustomAttribute{Key: "234", Value: "2.34 unit"}, "abc123", "t12")
	assert.Nil(t, text.PureValue)
	assert.Equal(t, "2.34 unit", text.Value)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain words", want: "plain words"},
		{in: "<b>Fast</b> and <i>light</i>", want: "Fast and light"},
		{in: "<p>Line one</p> <p>Line   two</p>", want: "Line one Line two"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PlainText(tt.in), tt.in)
	}
}
