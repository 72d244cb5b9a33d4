package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// Client is the HTTP client for the inventory API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new inventory API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ============ Inventory ============

// CheckStock looks items up by sku, barcode or product name
func (c *Client) CheckStock(ctx context.Context, params map[string]any) (*domain.ActionResult, error) {
	var result domain.ActionResult
	if err := c.do(ctx, http.MethodPost, "/inventory/check-stock", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetStock looks a single SKU up
func (c *Client) GetStock(ctx context.Context, sku string) (*domain.ActionResult, error) {
	var result domain.ActionResult
	if err := c.do(ctx, http.MethodGet, "/inventory/stock/"+url.PathEscape(sku), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search runs a product search
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (*domain.ActionResult, error) {
	var result domain.ActionResult
	if err := c.do(ctx, http.MethodPost, "/inventory/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ============ History ============

// History lists recent webhook records, optionally for one event type
func (c *Client) History(ctx context.Context, eventType string, limit int) ([]*domain.ConversationRecord, error) {
	path := "/webhook-history"
	if eventType != "" {
		path += "/event/" + url.PathEscape(eventType)
	}
	path += "?limit=" + strconv.Itoa(limit)

	var result struct {
		Records []*domain.ConversationRecord `json:"records"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Records, nil
}

// ============ HTTP Helpers ============

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
