package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

func sampleItems() []*domain.Item {
	return []*domain.Item{
		{ID: "1", Title: "Sơn Nội Thất Trắng", SKU: "PNT-0001", Barcode: "BAR001", Quantity: 5, ReorderPoint: 10, Price: 1234567},
		{ID: "2", Title: "Sơn Lót Chống Kiềm", SKU: "PNT-0002", Barcode: "BAR002", Quantity: 0, ReorderPoint: 5, Price: 450000},
		{ID: "3", Title: "Sơn Ngoại Thất Kem", SKU: "PNT-0003", Barcode: "BAR003", Quantity: 50, ReorderPoint: 10, Price: 800000},
	}
}

func TestCheckStock_BySKU(t *testing.T) {
	items := &mockItemRepo{items: sampleItems()}
	uc := NewInventoryUsecase(items, &mockSearchIndex{}, nil, nil)

	result := uc.CheckStock(context.Background(), map[string]any{"sku": " pnt-0001 "})

	require.Equal(t, domain.ActionSuccess, result.Status)
	assert.Equal(t, domain.ActionCheckStock, result.Action)
	assert.Equal(t, [][]string{{"PNT-0001"}}, items.queried)

	stock, ok := result.Items.([]domain.StockItem)
	require.True(t, ok)
	require.Len(t, stock, 1)
	assert.Equal(t, domain.StockLow, stock[0].Status)
	assert.Equal(t, 5, stock[0].Quantity)

	assert.True(t, strings.HasPrefix(result.Message, "Thông tin tồn kho:\n\n"))
	assert.Contains(t, result.Message, "- Sơn Nội Thất Trắng:\n  Số lượng: 5\n  Trạng thái: Sắp hết hàng\n  Giá: 1,234,567 VND\n  SKU: PNT-0001")
}

func TestCheckStock_MultipleIdentifiers(t *testing.T) {
	items := &mockItemRepo{items: sampleItems()}
	uc := NewInventoryUsecase(items, &mockSearchIndex{}, nil, nil)

	result := uc.CheckStock(context.Background(), map[string]any{
		"skus":     []any{"PNT-0001", "pnt-0002"},
		"barcodes": "bar003, BAR001",
	})

	stock := result.Items.([]domain.StockItem)
	assert.Len(t, stock, 3, "duplicates across sku and barcode lookups are merged")
	assert.Equal(t, domain.StockOutOfStock, stock[1].Status)
	assert.Equal(t, domain.StockInStock, stock[2].Status)
}

func TestCheckStock_ByProductNameUsesIndex(t *testing.T) {
	index := &mockSearchIndex{result: &domain.SearchResult{
		Total: 1,
		Items: []domain.SearchHit{{Title: "Sơn Ngoại Thất Kem", SKU: "PNT-0003", Quantity: 11, ReorderPoint: 10}},
	}}
	uc := NewInventoryUsecase(&mockItemRepo{}, index, nil, nil)

	result := uc.CheckStock(context.Background(), map[string]any{"product_name": "sơn kem"})

	require.Len(t, index.params, 1)
	assert.Equal(t, "sơn kem", index.params[0].Query)
	assert.Equal(t, 1, index.params[0].Page)
	assert.Equal(t, 100, index.params[0].PageSize)

	stock := result.Items.([]domain.StockItem)
	require.Len(t, stock, 1)
	assert.Equal(t, domain.StockInStock, stock[0].Status)
}

func TestCheckStock_NotFound(t *testing.T) {
	uc := NewInventoryUsecase(&mockItemRepo{items: sampleItems()}, &mockSearchIndex{}, nil, nil)

	for _, params := range []map[string]any{{"sku": "PNT-9999"}, {}} {
		result := uc.CheckStock(context.Background(), params)
		assert.Equal(t, domain.ActionSuccess, result.Status)
		assert.Equal(t, "Không tìm thấy sản phẩm nào", result.Message)
		assert.Empty(t, result.Items)
	}
}

func TestCheckStock_StoreErrorIsReported(t *testing.T) {
	uc := NewInventoryUsecase(&mockItemRepo{err: errBoom}, &mockSearchIndex{}, nil, nil)

	result := uc.CheckStock(context.Background(), map[string]any{"sku": "PNT-0001"})

	assert.Equal(t, domain.ActionError, result.Status)
	assert.Equal(t, "Lỗi kiểm tra tồn kho: boom", result.Message)
}

func TestSearchProducts(t *testing.T) {
	index := &mockSearchIndex{result: &domain.SearchResult{
		Total: 1, Page: 1, PageSize: 10,
		Items: []domain.SearchHit{{
			Title:          "Sơn Ngoại Thất Kem",
			Category:       "Sơn Ngoại Thất",
			Color:          "kem",
			Price:          380000,
			Quantity:       50,
			ReorderPoint:   10,
			Specifications: map[string]string{"finish": "bóng", "base_type": "Gốc Nước"},
		}},
	}}
	llm := &mockLLM{replies: []string{`{"search_parameters":{"category":"Sơn Ngoại Thất","price":{"operator":"<","value":400000}}}`}}
	uc := NewInventoryUsecase(&mockItemRepo{}, index, NewQueryParserUsecase(llm, QueryParserConfig{}, nil), nil)

	result := uc.SearchProducts(context.Background(), map[string]any{"query": "sơn ngoại thất dưới 400k"})

	require.Equal(t, domain.ActionSuccess, result.Status)
	assert.Equal(t, domain.ActionSearchProducts, result.Action)
	assert.Equal(t, 1, result.Total)

	require.Len(t, index.params, 1)
	assert.Equal(t, "Sơn Ngoại Thất", index.params[0].Category)
	assert.Equal(t, 400000.0, *index.params[0].PriceRange.Max)

	assert.True(t, strings.HasPrefix(result.Message, "Kết quả tìm kiếm:\n"))
	assert.Contains(t, result.Message, "Tìm thấy 1 sản phẩm phù hợp")
	assert.Contains(t, result.Message, "Giá: 380,000 VND")
	assert.Contains(t, result.Message, "Thông số: Loại gốc: Gốc Nước, Độ hoàn thiện: bóng")
	assert.Contains(t, result.Message, "Trạng thái: Còn hàng")
}

func TestSearchProducts_EmptyIsSuccess(t *testing.T) {
	uc := NewInventoryUsecase(&mockItemRepo{}, &mockSearchIndex{}, NewQueryParserUsecase(&mockLLM{err: errBoom}, QueryParserConfig{}, nil), nil)

	result := uc.SearchProducts(context.Background(), map[string]any{"query": "sơn tím"})

	assert.Equal(t, domain.ActionSuccess, result.Status)
	assert.Equal(t, "Không tìm thấy sản phẩm phù hợp", result.Message)
	assert.Empty(t, result.Items)
}

func TestSearchProducts_IndexError(t *testing.T) {
	uc := NewInventoryUsecase(&mockItemRepo{}, &mockSearchIndex{err: errBoom}, nil, nil)

	result := uc.SearchProducts(context.Background(), map[string]any{"query": "sơn"})

	assert.Equal(t, domain.ActionError, result.Status)
	assert.Equal(t, "Lỗi tìm kiếm sản phẩm: boom", result.Message)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1234567, "1,234,567 VND"},
		{0, "0 VND"},
		{1234567.89, "1,234,567 VND"},
		{"450000", "450,000 VND"},
		{"không rõ", "0 VND"},
		{nil, "0 VND"},
		{[]int{1}, "0 VND"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.in), "input %v", tt.in)
	}
}

func TestNormalizeIdentifiers(t *testing.T) {
	got := NormalizeIdentifiers([]any{" pnt-1", 3, "PNT-2"}, "pnt-1,pnt-3", nil, []string{""})
	assert.Equal(t, []string{"PNT-1", "PNT-2", "PNT-3"}, got)
}
