package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client represents a fulfillment provider API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new fulfillment client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// ListProducts fetches one page of the store product listing.
func (c *Client) ListProducts(ctx context.Context, offset, limit int) ([]SyncProduct, Paging, error) {
	endpoint := fmt.Sprintf("store/products?%s", url.Values{
		"offset": {fmt.Sprint(offset)},
		"limit":  {fmt.Sprint(limit)},
	}.Encode())

	result, paging, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, Paging{}, fmt.Errorf("failed to list products: %w", err)
	}

	var products []SyncProduct
	if err := json.Unmarshal(result, &products); err != nil {
		return nil, Paging{}, fmt.Errorf("failed to unmarshal product list: %w", err)
	}

	if paging == nil {
		paging = &Paging{Total: len(products), Offset: offset, Limit: limit}
	}
	return products, *paging, nil
}

// GetProduct fetches a product with its full variant list.
func (c *Client) GetProduct(ctx context.Context, productID uint) (*ProductDetail, error) {
	endpoint := fmt.Sprintf("store/products/%d", productID)

	result, _, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}

	var detail ProductDetail
	if err := json.Unmarshal(result, &detail); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product detail: %w", err)
	}

	return &detail, nil
}

// ShippingRates quotes shipping services for the given destination and items.
// An empty rate list is a valid response, not an error.
func (c *Client) ShippingRates(ctx context.Context, req RateRequest) ([]Rate, error) {
	result, _, err := c.doRequest(ctx, http.MethodPost, "shipping/rates", req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shipping rates: %w", err)
	}

	var rates []Rate
	if err := json.Unmarshal(result, &rates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping rates: %w", err)
	}

	return rates, nil
}

// CreateOrder submits a fulfillment order. With confirm set the order goes
// straight to production instead of staying a draft.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest, confirm bool) (*Order, error) {
	endpoint := "orders"
	if confirm {
		endpoint = "orders?confirm=1"
	}

	result, _, err := c.doRequest(ctx, http.MethodPost, endpoint, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	var order Order
	if err := json.Unmarshal(result, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &order, nil
}

// doRequest performs an HTTP request against the provider API and unwraps the
// standard {code, result, paging, error} envelope.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload interface{}) (json.RawMessage, *Paging, error) {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(reqBody)
	}

	reqURL := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.config.StoreID != "" {
		req.Header.Set("X-PF-Store-Id", c.config.StoreID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal response envelope: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := ""
		if env.Error != nil {
			msg = env.Error.Message
		}
		errorMsg := fmt.Sprintf("provider API error - Status: %d, Message: %s", resp.StatusCode, msg)

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusNotFound:
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, errorMsg)
		case http.StatusBadRequest:
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, nil, fmt.Errorf("%w: %s", ErrRequestFailed, errorMsg)
		}
	}

	return env.Result, env.Paging, nil
}
