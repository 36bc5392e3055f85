package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sportiva/storefront-api/pkg/config"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
)

const (
	productsPath              = "productos"
	errorBodyReadLimit  int64 = 1024
	defaultInventoryTTL       = 30 * time.Second
)

var errBaseURLRequired = errors.New("catalog base url is required")

type inventoryCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	InventoryKey(productID string) string
}

// Client reads product data from the catalog REST collaborator, caching
// inventory counts in redis so repeated cart clamps do not hammer the catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      inventoryCache
	cacheTTL   time.Duration
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithInventoryCache plugs in the redis-backed inventory cache.
func WithInventoryCache(cache inventoryCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg config.CatalogConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cacheTTL := cfg.InventoryCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultInventoryTTL
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cacheTTL:   cacheTTL,
		logg:       logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// GetProduct fetches the product detail and refreshes the inventory cache.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}

	url := fmt.Sprintf("%s/%s/%d/", strings.TrimRight(c.baseURL, "/"), productsPath, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build product request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch product")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "product request failed")
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product")
	}

	c.storeInventory(ctx, product.ID, product.Inventory)

	return &product, nil
}

// Inventory returns the cached stock count when fresh, falling back to the
// catalog. Unknown inventory is reported as (0, false) so callers can skip
// clamping instead of blocking the cart on a catalog outage.
func (c *Client) Inventory(ctx context.Context, id int64) (int, bool) {
	if c == nil || id <= 0 {
		return 0, false
	}

	if c.cache != nil {
		raw, err := c.cache.Get(ctx, c.cache.InventoryKey(strconv.FormatInt(id, 10)))
		if err == nil {
			if qty, convErr := strconv.Atoi(raw); convErr == nil {
				return qty, true
			}
		}
	}

	product, err := c.GetProduct(ctx, id)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "product_id", id), "inventory lookup failed, skipping clamp")
		}
		return 0, false
	}
	return product.Inventory, true
}

func (c *Client) storeInventory(ctx context.Context, id int64, qty int) {
	if c.cache == nil {
		return
	}
	key := c.cache.InventoryKey(strconv.FormatInt(id, 10))
	if err := c.cache.Set(ctx, key, strconv.Itoa(qty), c.cacheTTL); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "product_id", id), "failed to cache inventory")
	}
}
