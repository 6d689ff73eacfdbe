package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"upscale/tap/internal/config"
	"upscale/tap/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	productContentPath = "/consumer/product-content"
	inventoryPath      = "/consumer/inventory/availability"
)

type UpscaleClient interface {
	GetProductPage(ctx context.Context, pageNumber int) (*domain.Page[domain.RawProduct], error)
	GetCategoryPage(ctx context.Context, pageNumber int) (*domain.Page[domain.RawCategory], error)
	GetCategory(ctx context.Context, categoryID string) (*domain.RawCategory, error)
	GetInventory(ctx context.Context, productIDs []string) ([]domain.Availability, error)
	GetCustomAttribute(ctx context.Context, key string) (*domain.AttributeDefinition, error)
	Close() error
}

type upscaleClient struct {
	rl          ratelimit.Limiter
	httpClient  *resty.Client
	baseURL     url.URL
	editionID   string
	sellingTree string
	pageSize    int
	timeout     time.Duration
}

func NewUpscaleClient(cfg *config.Config) UpscaleClient {
	client := resty.New().
		SetTimeout(cfg.HTTP.RequestTimeout()).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.HTTP.UserAgent).
		SetHeader("Accept", "application/json").
		SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: cfg.HTTP.InsecureSkipVerify,
		})

	if cfg.HTTP.Proxy != "" {
		client.SetProxy(cfg.HTTP.Proxy)
		log.Infof("🔗 Using proxy: %s", cfg.HTTP.Proxy)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.HTTP.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.HTTP.MaxRequestsPerSecond)
	}

	host, basePath, _ := strings.Cut(cfg.APIBaseURL, "/")
	if basePath != "" {
		basePath = "/" + strings.TrimSuffix(basePath, "/")
	}

	return &upscaleClient{
		rl:         rl,
		httpClient: client,
		baseURL: url.URL{
			Scheme: cfg.APIScheme,
			Host:   host,
			Path:   basePath,
		},
		editionID:   cfg.APIEditionID,
		sellingTree: cfg.APISellingTree,
		pageSize:    cfg.HTTP.PageSize,
		timeout:     cfg.HTTP.RequestTimeout(),
	}
}

func (c *upscaleClient) GetProductPage(ctx context.Context, pageNumber int) (*domain.Page[domain.RawProduct], error) {
	query := c.pageQuery(pageNumber)
	query.Set("expand", "productCategoryIds")

	var page domain.Page[domain.RawProduct]
	if err := c.fetchJSON(ctx, ResourceProducts, c.productSearchURL(query), &page); err != nil {
		return nil, err
	}

	for i, raw := range page.Content {
		product, err := raw.Normalize()
		if err != nil {
			return nil, fmt.Errorf("product %d on page %d: %w", i, pageNumber, err)
		}
		page.Content[i] = product
	}

	return &page, nil
}

func (c *upscaleClient) GetCategoryPage(ctx context.Context, pageNumber int) (*domain.Page[domain.RawCategory], error) {
	var page domain.Page[domain.RawCategory]
	if err := c.fetchJSON(ctx, ResourceCategories, c.endpoint(productContentPath+"/categories", c.pageQuery(pageNumber)), &page); err != nil {
		return nil, err
	}

	for _, category := range page.Content {
		if err := category.Validate(); err != nil {
			return nil, fmt.Errorf("category page %d: %w", pageNumber, err)
		}
	}

	return &page, nil
}

func (c *upscaleClient) GetCategory(ctx context.Context, categoryID string) (*domain.RawCategory, error) {
	endpoint := c.endpoint(productContentPath+"/categories/"+url.PathEscape(categoryID), c.editionQuery())

	var category domain.RawCategory
	if err := c.fetchJSON(ctx, ResourceCategory, endpoint, &category); err != nil {
		return nil, err
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	log.Debugf("Fetched category %s (%s) on demand", category.ID, category.Name)
	return &category, nil
}

func (c *upscaleClient) GetInventory(ctx context.Context, productIDs []string) ([]domain.Availability, error) {
	query := url.Values{}
	query.Set("productIds", strings.Join(productIDs, ","))

	var availability []domain.Availability
	if err := c.fetchJSON(ctx, ResourceInventory, c.endpoint(inventoryPath, query), &availability); err != nil {
		return nil, err
	}

	return availability, nil
}

func (c *upscaleClient) GetCustomAttribute(ctx context.Context, key string) (*domain.AttributeDefinition, error) {
	endpoint := c.endpoint(productContentPath+"/customattributes/"+url.PathEscape(key), nil)

	var definition domain.AttributeDefinition
	if err := c.fetchJSON(ctx, ResourceCustomAttribute, endpoint, &definition); err != nil {
		return nil, err
	}

	if definition.Key == "" {
		definition.Key = key
	}

	return &definition, nil
}

func (c *upscaleClient) Close() error {
	return c.httpClient.Close()
}

func (c *upscaleClient) productSearchURL(query url.Values) string {
	if c.sellingTree == "" {
		return c.endpoint(productContentPath+"/products", query)
	}
	return c.endpoint(productContentPath+"/sellingtrees/"+url.PathEscape(c.sellingTree)+"/products", query)
}

func (c *upscaleClient) editionQuery() url.Values {
	query := url.Values{}
	if c.editionID != "" {
		query.Set("editionId", c.editionID)
	}
	return query
}

func (c *upscaleClient) pageQuery(pageNumber int) url.Values {
	query := c.editionQuery()
	query.Set("pageNumber", strconv.Itoa(pageNumber))
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	return query
}

// endpoint joins escapedPath to the base URL. Ids must be escaped with
// url.PathEscape by the caller so a "/" inside one stays in its segment.
func (c *upscaleClient) endpoint(escapedPath string, query url.Values) string {
	u := c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + escapedPath
	path, err := url.PathUnescape(u.RawPath)
	if err != nil {
		path = c.baseURL.Path + escapedPath
		u.RawPath = ""
	}
	u.Path = path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *upscaleClient) fetchJSON(ctx context.Context, resource, endpoint string, out any) error {
	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		Get(endpoint)

	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return &RemoteFetchError{
			Resource:   resource,
			StatusCode: resp.StatusCode(),
			URL:        endpoint,
		}
	}

	if err := json.Unmarshal([]byte(resp.String()), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}

	return nil
}
