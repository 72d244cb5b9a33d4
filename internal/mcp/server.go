package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// InventoryServer exposes the inventory API as MCP tools
type InventoryServer struct {
	server *mcp.Server
	client *Client
	logger *zap.Logger
}

// NewInventoryServer creates the MCP server and registers its tools
func NewInventoryServer(client *Client, version string, logger *zap.Logger) *InventoryServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &InventoryServer{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "inventory-tools",
			Version: version,
		}, nil),
		client: client,
		logger: logger.Named("mcp"),
	}
	s.registerTools()
	return s
}

// Server returns the underlying MCP server
func (s *InventoryServer) Server() *mcp.Server {
	return s.server
}

// Run serves until the client disconnects
func (s *InventoryServer) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func (s *InventoryServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inventory_check_stock",
		Description: "Check stock levels by SKU (PNT-xxxx), barcode (BARxxx) or product name. Returns quantity and low-stock status.",
	}, s.handleCheckStock)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inventory_search_products",
		Description: "Search paint products by free text or by category, color, price range and status.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inventory_get_stock",
		Description: "Get the stock level of exactly one SKU.",
	}, s.handleGetStock)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "conversation_history",
		Description: "List recent Zalo webhook records, newest first. Optionally filter by event type such as user_send_text.",
	}, s.handleHistory)
}

// ============ Stock Tools ============

// CheckStockInput identifies the items to look up
type CheckStockInput struct {
	SKUs        []string `json:"skus,omitempty" jsonschema:"SKUs to look up"`
	Barcodes    []string `json:"barcodes,omitempty" jsonschema:"barcodes to look up"`
	ProductName string   `json:"product_name,omitempty" jsonschema:"product name, used when no SKU or barcode is given"`
}

func (s *InventoryServer) handleCheckStock(ctx context.Context, req *mcp.CallToolRequest, input CheckStockInput) (*mcp.CallToolResult, domain.ActionResult, error) {
	params := map[string]any{}
	if len(input.SKUs) > 0 {
		params["skus"] = toAny(input.SKUs)
	}
	if len(input.Barcodes) > 0 {
		params["barcodes"] = toAny(input.Barcodes)
	}
	if input.ProductName != "" {
		params["product_name"] = input.ProductName
	}
	if len(params) == 0 {
		return toolError("one of skus, barcodes or product_name is required"), domain.ActionResult{}, nil
	}

	result, err := s.client.CheckStock(ctx, params)
	if err != nil {
		s.logger.Warn("check stock failed", zap.Error(err))
		return toolError(err.Error()), domain.ActionResult{}, nil
	}
	return nil, *result, nil
}

// GetStockInput names one SKU
type GetStockInput struct {
	SKU string `json:"sku" jsonschema:"the SKU, for example PNT-0001"`
}

func (s *InventoryServer) handleGetStock(ctx context.Context, req *mcp.CallToolRequest, input GetStockInput) (*mcp.CallToolResult, domain.ActionResult, error) {
	if input.SKU == "" {
		return toolError("sku is required"), domain.ActionResult{}, nil
	}
	result, err := s.client.GetStock(ctx, input.SKU)
	if err != nil {
		return toolError(err.Error()), domain.ActionResult{}, nil
	}
	return nil, *result, nil
}

// ============ Search Tools ============

// SearchInput is a product search request
type SearchInput struct {
	Query    string  `json:"query,omitempty" jsonschema:"free text in Vietnamese, parsed into filters when no other filter is set"`
	Category string  `json:"category,omitempty" jsonschema:"category such as Sơn Nội Thất"`
	Color    string  `json:"color,omitempty" jsonschema:"color code or color name"`
	MinPrice float64 `json:"min_price,omitempty" jsonschema:"minimum price in VND"`
	MaxPrice float64 `json:"max_price,omitempty" jsonschema:"maximum price in VND"`
	Status   string  `json:"status,omitempty" jsonschema:"active or inactive"`
	Page     int     `json:"page,omitempty" jsonschema:"page number starting at 1"`
	Size     int     `json:"size,omitempty" jsonschema:"page size"`
}

func (s *InventoryServer) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, domain.ActionResult, error) {
	params := domain.SearchParams{
		Query:    input.Query,
		Category: input.Category,
		Color:    input.Color,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.Size,
	}
	if input.MinPrice > 0 || input.MaxPrice > 0 {
		params.PriceRange = &domain.PriceRange{}
		if input.MinPrice > 0 {
			params.PriceRange.Min = &input.MinPrice
		}
		if input.MaxPrice > 0 {
			params.PriceRange.Max = &input.MaxPrice
		}
	}

	result, err := s.client.Search(ctx, params)
	if err != nil {
		return toolError(err.Error()), domain.ActionResult{}, nil
	}
	return nil, *result, nil
}

// ============ History Tools ============

// HistoryInput filters webhook history
type HistoryInput struct {
	EventType string `json:"event_type,omitempty" jsonschema:"only return this event type"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of records (default 20)"`
}

// HistoryRecord is the tool view of a stored webhook
type HistoryRecord struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id,omitempty"`
	SenderID    string `json:"sender_id,omitempty"`
	EventType   string `json:"event_type"`
	MessageText string `json:"message_text,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// HistoryOutput holds the records
type HistoryOutput struct {
	Records []HistoryRecord `json:"records"`
}

func (s *InventoryServer) handleHistory(ctx context.Context, req *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, HistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	records, err := s.client.History(ctx, input.EventType, limit)
	if err != nil {
		return toolError(err.Error()), HistoryOutput{}, nil
	}
	out := HistoryOutput{Records: make([]HistoryRecord, 0, len(records))}
	for _, r := range records {
		out.Records = append(out.Records, HistoryRecord{
			ID:          r.ID,
			GroupID:     r.GroupID,
			SenderID:    r.SenderID,
			EventType:   r.EventType,
			MessageText: r.MessageText,
			CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
