// Package backend is the HTTP client for the merchant ordering API. The
// backend wraps some responses in a {success,data:{...}} envelope and sends
// others bare; every response is normalized to one canonical shape here so
// no caller ever branches on shape.
package backend

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

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Locale supplies the current UI language; every request carries it as
	// a locale query parameter.
	Locale func() string
}

func NewClient(baseURL string, locale func() string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Locale: locale,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, dest interface{}) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("failed to build request URL: %w", err)
	}
	q := u.Query()
	if q.Get("locale") == "" && c.Locale != nil {
		q.Set("locale", c.Locale())
	}
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Menu fetches the category->items menu payload, unwrapping the optional
// {success,data:[...]} envelope.
func (c *Client) Menu(ctx context.Context) ([]RawCategory, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/menu", nil, &raw); err != nil {
		return nil, err
	}

	var env struct {
		Data []RawCategory `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var categories []RawCategory
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("unexpected menu response shape: %w", err)
	}
	return categories, nil
}

// MenuItem fetches one menu item. Returns nil (no error) when the payload
// carries no item id, matching a backend that 200s on unknown ids.
func (c *Client) MenuItem(ctx context.Context, id string) (*RawMenuItem, error) {
	var env struct {
		Success bool         `json:"success"`
		Data    *RawMenuItem `json:"data"`
		RawMenuItem
	}
	if err := c.do(ctx, http.MethodGet, "/api/menu/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}

	item := env.Data
	if item == nil || item.ID == "" {
		item = &env.RawMenuItem
	}
	if item.ID == "" {
		return nil, nil
	}
	return item, nil
}

// CreateOrder submits an order. The returned payload may still lack an id;
// the order service treats that as a failed creation.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*OrderPayload, error) {
	var env orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &env); err != nil {
		return nil, err
	}
	return env.payload(), nil
}

// OrderStatus polls the live status of one order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*StatusPayload, error) {
	var env statusEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID)+"/status", nil, &env); err != nil {
		return nil, err
	}
	return env.payload(), nil
}

// CustomerOrders lists the orders submitted under an anonymous customer id.
func (c *Client) CustomerOrders(ctx context.Context, customerID string) ([]OrderHistoryItem, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/orders/customer/"+url.PathEscape(customerID), nil, &raw); err != nil {
		return nil, err
	}

	var env struct {
		Data []OrderHistoryItem `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var orders []OrderHistoryItem
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("unexpected orders response shape: %w", err)
	}
	return orders, nil
}
