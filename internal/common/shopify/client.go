// internal/common/shopify/client.go

// Package shopify is the order-lookup adapter over the Shopify Admin REST
// API. Lookups by customer email go through a short-lived Redis cache since
// the same customer often sends several messages in one conversation.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"support-inbox/internal/common/config"
	"support-inbox/internal/common/errors"
	commonhttp "support-inbox/internal/common/http"
	"support-inbox/internal/common/logger"
	"support-inbox/internal/models"
)

type Client struct {
	baseURL     string
	accessToken string
	apiVersion  string
	cacheTTL    time.Duration
	httpClient  *commonhttp.Client
	cache       *redis.Client
	logger      logger.Logger
}

// NewClient builds the adapter. cache may be nil; lookups then always hit
// the API.
func NewClient(cfg config.ShopifyConfig, cache *redis.Client, log logger.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-01"
	}

	baseURL := cfg.ShopDomain
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: cfg.AccessToken,
		apiVersion:  apiVersion,
		cacheTTL:    cacheTTL,
		httpClient:  commonhttp.NewClient(timeout),
		cache:       cache,
		logger: log.WithFields(map[string]interface{}{
			"component": "shopify",
		}),
	}
}

// apiOrder mirrors the slice of the Admin API order payload the pipeline
// cares about.
type apiOrder struct {
	Name              string `json:"name"`
	FulfillmentStatus string `json:"fulfillment_status"`
	FinancialStatus   string `json:"financial_status"`
	TotalPrice        string `json:"total_price"`
	LineItems         []struct {
		Quantity int    `json:"quantity"`
		Title    string `json:"title"`
	} `json:"line_items"`
	ShippingAddress *struct {
		City     string `json:"city"`
		Province string `json:"province"`
		Country  string `json:"country"`
	} `json:"shipping_address"`
	Fulfillments []struct {
		TrackingCompany     string   `json:"tracking_company"`
		TrackingNumbers     []string `json:"tracking_numbers"`
		EstimatedDeliveryAt string   `json:"estimated_delivery_at"`
	} `json:"fulfillments"`
}

// FindByEmail returns the customer's recent orders, newest first.
func (c *Client) FindByEmail(ctx context.Context, email string) ([]models.OrderSnapshot, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cacheKey := "shopify:orders:email:" + email

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			var orders []models.OrderSnapshot
			if err := json.Unmarshal([]byte(cached), &orders); err == nil {
				c.logger.Debug("order cache hit", map[string]interface{}{
					"email": email,
				})
				return orders, nil
			}
		}
	}

	params := url.Values{}
	params.Set("email", email)
	params.Set("status", "any")
	params.Set("limit", "5")

	orders, err := c.fetchOrders(ctx, params)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if data, err := json.Marshal(orders); err == nil {
			_ = c.cache.Set(ctx, cacheKey, data, c.cacheTTL).Err()
		}
	}

	return orders, nil
}

// FindByNumber looks up a single order by its customer-facing order number.
func (c *Client) FindByNumber(ctx context.Context, orderNumber string) ([]models.OrderSnapshot, error) {
	name := orderNumber
	if !strings.HasPrefix(name, "#") {
		name = "#" + name
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("status", "any")

	return c.fetchOrders(ctx, params)
}

func (c *Client) fetchOrders(ctx context.Context, params url.Values) ([]models.OrderSnapshot, error) {
	endpoint := fmt.Sprintf("%s/admin/api/%s/orders.json?%s",
		c.baseURL, c.apiVersion, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewOrderLookupFailedError(
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var result struct {
		Orders []apiOrder `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	orders := make([]models.OrderSnapshot, 0, len(result.Orders))
	for _, o := range result.Orders {
		orders = append(orders, toSnapshot(o))
	}

	return orders, nil
}

func toSnapshot(o apiOrder) models.OrderSnapshot {
	snap := models.OrderSnapshot{
		OrderNumber:       strings.TrimPrefix(o.Name, "#"),
		FulfillmentStatus: o.FulfillmentStatus,
		FinancialStatus:   o.FinancialStatus,
		TotalPrice:        o.TotalPrice,
	}

	for _, item := range o.LineItems {
		snap.Items = append(snap.Items, models.OrderItem{
			Quantity: item.Quantity,
			Title:    item.Title,
		})
	}

	if o.ShippingAddress != nil {
		snap.ShippingAddress = models.ShippingAddress{
			City:     o.ShippingAddress.City,
			Province: o.ShippingAddress.Province,
			Country:  o.ShippingAddress.Country,
		}
	}

	for _, f := range o.Fulfillments {
		snap.Fulfillments = append(snap.Fulfillments, models.Fulfillment{
			TrackingCompany:     f.TrackingCompany,
			TrackingNumbers:     f.TrackingNumbers,
			EstimatedDeliveryAt: f.EstimatedDeliveryAt,
		})
	}

	return snap
}
