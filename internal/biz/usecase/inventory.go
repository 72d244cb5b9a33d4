package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// stockCheckPageSize bounds a product-name stock lookup
const stockCheckPageSize = 100

// Vietnamese reply texts
const (
	msgStockHeader    = "Thông tin tồn kho:\n\n"
	msgSearchHeader   = "Kết quả tìm kiếm:\n"
	msgStockNotFound  = "Không tìm thấy sản phẩm nào"
	msgSearchNotFound = "Không tìm thấy sản phẩm phù hợp"
	msgStockError     = "Lỗi kiểm tra tồn kho: %v"
	msgSearchError    = "Lỗi tìm kiếm sản phẩm: %v"
)

var specLabels = map[string]string{
	"finish":    "Độ hoàn thiện",
	"coverage":  "Độ phủ",
	"dry_time":  "Thời gian khô",
	"base_type": "Loại gốc",
}

// InventoryUsecase implements the inventory intent handlers
type InventoryUsecase struct {
	itemRepo repo.ItemRepo
	index    repo.SearchIndex
	parser   *QueryParserUsecase
	logger   *zap.Logger
}

// NewInventoryUsecase creates a new inventory usecase
func NewInventoryUsecase(itemRepo repo.ItemRepo, index repo.SearchIndex, parser *QueryParserUsecase, logger *zap.Logger) *InventoryUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryUsecase{
		itemRepo: itemRepo,
		index:    index,
		parser:   parser,
		logger:   logger.Named("inventory"),
	}
}

// ========== Stock check ==========

// CheckStock looks up stock by sku(s), barcode(s) or product name
func (uc *InventoryUsecase) CheckStock(ctx context.Context, params map[string]any) domain.ActionResult {
	items, err := uc.lookupStock(ctx, params)
	if err != nil {
		uc.logger.Error("stock check failed", zap.Error(err))
		return domain.ActionResult{
			Action:  domain.ActionCheckStock,
			Status:  domain.ActionError,
			Message: fmt.Sprintf(msgStockError, err),
		}
	}

	if len(items) == 0 {
		return domain.ActionResult{
			Action:  domain.ActionCheckStock,
			Status:  domain.ActionSuccess,
			Message: msgStockNotFound,
			Items:   []domain.StockItem{},
		}
	}

	return domain.ActionResult{
		Action:  domain.ActionCheckStock,
		Status:  domain.ActionSuccess,
		Message: FormatStockMessage(items),
		Items:   items,
		Total:   len(items),
	}
}

func (uc *InventoryUsecase) lookupStock(ctx context.Context, params map[string]any) ([]domain.StockItem, error) {
	skus := NormalizeIdentifiers(params["skus"], params["sku"])
	barcodes := NormalizeIdentifiers(params["barcodes"], params["barcode"])

	var found []*domain.Item
	if len(skus) > 0 {
		items, err := uc.itemRepo.FindBySKUs(ctx, skus)
		if err != nil {
			return nil, err
		}
		found = append(found, items...)
	}
	if len(barcodes) > 0 {
		items, err := uc.itemRepo.FindByBarcodes(ctx, barcodes)
		if err != nil {
			return nil, err
		}
		found = append(found, items...)
	}

	if len(skus) > 0 || len(barcodes) > 0 {
		return stockItemsFromItems(found), nil
	}

	name, _ := params["product_name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	res, err := uc.index.Search(ctx, domain.SearchParams{Query: name, Page: 1, PageSize: stockCheckPageSize})
	if err != nil {
		return nil, err
	}
	out := make([]domain.StockItem, 0, len(res.Items))
	for _, h := range res.Items {
		out = append(out, domain.StockItem{
			Title:        h.Title,
			SKU:          h.SKU,
			Quantity:     h.Quantity,
			ReorderPoint: h.ReorderPoint,
			Status:       domain.StockStatus(h.Quantity, h.ReorderPoint),
			Price:        h.Price,
		})
	}
	return out, nil
}

func stockItemsFromItems(items []*domain.Item) []domain.StockItem {
	seen := make(map[string]bool, len(items))
	out := make([]domain.StockItem, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, domain.StockItem{
			Title:        it.Title,
			SKU:          it.SKU,
			Quantity:     it.Quantity,
			ReorderPoint: it.ReorderPoint,
			Status:       it.StockStatus(),
			Price:        it.Price,
		})
	}
	return out
}

// NormalizeIdentifiers collects trimmed, uppercased, de-duplicated identifiers.
// Each value may be a string, a comma separated string or a list.
func NormalizeIdentifiers(values ...any) []string {
	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		for _, part := range strings.Split(s, ",") {
			id := strings.ToUpper(strings.TrimSpace(part))
			if id != "" && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	for _, v := range values {
		switch val := v.(type) {
		case string:
			add(val)
		case []any:
			for _, e := range val {
				if s, ok := e.(string); ok {
					add(s)
				}
			}
		case []string:
			for _, s := range val {
				add(s)
			}
		}
	}
	return out
}

// ========== Product search ==========

// SearchProducts parses the free-text query and searches the index
func (uc *InventoryUsecase) SearchProducts(ctx context.Context, params map[string]any) domain.ActionResult {
	query := firstString(params, "query", "product_name", "title")

	var sp domain.SearchParams
	if uc.parser != nil && query != "" {
		sp = uc.parser.Parse(ctx, query)
	} else {
		sp = ParamsFromParsed(params)
		sp.Query = query
	}

	return uc.Search(ctx, sp)
}

// Search runs structured params against the index and formats the result
func (uc *InventoryUsecase) Search(ctx context.Context, sp domain.SearchParams) domain.ActionResult {
	sp.Normalize()
	res, err := uc.index.Search(ctx, sp)
	if err != nil {
		uc.logger.Error("product search failed", zap.Error(err))
		return domain.ActionResult{
			Action:  domain.ActionSearchProducts,
			Status:  domain.ActionError,
			Message: fmt.Sprintf(msgSearchError, err),
		}
	}

	if len(res.Items) == 0 {
		return domain.ActionResult{
			Action:  domain.ActionSearchProducts,
			Status:  domain.ActionSuccess,
			Message: msgSearchNotFound,
			Items:   []domain.SearchHit{},
		}
	}

	return domain.ActionResult{
		Action:  domain.ActionSearchProducts,
		Status:  domain.ActionSuccess,
		Message: FormatSearchMessage(res),
		Items:   res.Items,
		Total:   res.Total,
	}
}

// ========== Not yet implemented ==========

func notImplemented(action string, params map[string]any) domain.ActionResult {
	return domain.ActionResult{
		Action:         action,
		Status:         domain.ActionSuccess,
		Params:         params,
		NotImplemented: true,
	}
}

// CreateReceipt echoes params; receipts are not implemented
func (uc *InventoryUsecase) CreateReceipt(ctx context.Context, params map[string]any) domain.ActionResult {
	return notImplemented(domain.ActionCreateReceipt, params)
}

// UpdateStock echoes params; stock updates are not implemented
func (uc *InventoryUsecase) UpdateStock(ctx context.Context, params map[string]any) domain.ActionResult {
	return notImplemented(domain.ActionUpdateStock, params)
}

// AddItem echoes params; adding items by chat is not implemented
func (uc *InventoryUsecase) AddItem(ctx context.Context, params map[string]any) domain.ActionResult {
	return notImplemented(domain.ActionAddItem, params)
}

// UpdateItem echoes params; editing items by chat is not implemented
func (uc *InventoryUsecase) UpdateItem(ctx context.Context, params map[string]any) domain.ActionResult {
	return notImplemented(domain.ActionUpdateItem, params)
}

// ========== Formatting ==========

// FormatPrice renders a VND amount with thousands separators.
// Non-numeric input renders as "0 VND".
func FormatPrice(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return "0 VND"
	}
	return humanize.Comma(int64(f)) + " VND"
}

// FormatStockMessage builds the stock summary sent to the group
func FormatStockMessage(items []domain.StockItem) string {
	var b strings.Builder
	b.WriteString(msgStockHeader)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s:\n", it.Title)
		fmt.Fprintf(&b, "  Số lượng: %d\n", it.Quantity)
		fmt.Fprintf(&b, "  Trạng thái: %s\n", it.Status)
		fmt.Fprintf(&b, "  Giá: %s\n", FormatPrice(it.Price))
		fmt.Fprintf(&b, "  SKU: %s\n\n", it.SKU)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatSearchMessage builds the search summary sent to the group
func FormatSearchMessage(res *domain.SearchResult) string {
	var b strings.Builder
	b.WriteString(msgSearchHeader)
	fmt.Fprintf(&b, "Tìm thấy %d sản phẩm phù hợp:\n\n", res.Total)
	for _, h := range res.Items {
		fmt.Fprintf(&b, "- %s\n", h.Title)
		if h.Description != "" {
			fmt.Fprintf(&b, "  Mô tả: %s\n", h.Description)
		}
		if h.Category != "" {
			fmt.Fprintf(&b, "  Danh mục: %s\n", h.Category)
		}
		if h.Color != "" {
			fmt.Fprintf(&b, "  Màu sắc: %s\n", h.Color)
		}
		fmt.Fprintf(&b, "  Giá: %s\n", FormatPrice(h.Price))
		if specs := formatSpecifications(h.Specifications); specs != "" {
			fmt.Fprintf(&b, "  Thông số: %s\n", specs)
		}
		fmt.Fprintf(&b, "  Trạng thái: %s\n\n", domain.StockStatus(h.Quantity, h.ReorderPoint))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSpecifications(specs map[string]string) string {
	if len(specs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		label := specLabels[k]
		if label == "" {
			label = k
		}
		parts = append(parts, label+": "+specs[k])
	}
	return strings.Join(parts, ", ")
}
