package domain

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestSearchParams_Normalize(t *testing.T) {
	p := SearchParams{Page: 0, PageSize: 500}
	p.Normalize()
	if p.Page != 1 || p.PageSize != MaxPageSize {
		t.Errorf("Expected page 1 size %d, got page %d size %d", MaxPageSize, p.Page, p.PageSize)
	}

	p = SearchParams{Page: 3}
	p.Normalize()
	if p.PageSize != DefaultPageSize {
		t.Errorf("Expected default size %d, got %d", DefaultPageSize, p.PageSize)
	}
	if p.Offset() != 20 {
		t.Errorf("Expected offset 20, got %d", p.Offset())
	}
}

func TestSearchParams_Matches(t *testing.T) {
	hit := SearchHit{
		Category:       "Sơn nội thất",
		Color:          "WHITE",
		Price:          150000,
		Status:         "active",
		Specifications: map[string]string{"finish": "matte"},
	}

	tests := []struct {
		name   string
		params SearchParams
		want   bool
	}{
		{"no filters", SearchParams{}, true},
		{"category case-insensitive", SearchParams{Category: "sơn nội thất"}, true},
		{"wrong color", SearchParams{Color: "RED"}, false},
		{"price under max", SearchParams{PriceRange: &PriceRange{Max: floatPtr(200000)}}, true},
		{"price over max", SearchParams{PriceRange: &PriceRange{Max: floatPtr(100000)}}, false},
		{"price below min", SearchParams{PriceRange: &PriceRange{Min: floatPtr(200000)}}, false},
		{"spec matches", SearchParams{Specifications: map[string]string{"finish": "MATTE"}}, true},
		{"spec missing", SearchParams{Specifications: map[string]string{"coverage": "10"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Matches(hit); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	hits := make([]SearchHit, 25)
	for i := range hits {
		hits[i] = SearchHit{ID: string(rune('a' + i))}
	}

	res := Paginate(hits, SearchParams{Page: 3, PageSize: 10})
	if res.Total != 25 {
		t.Errorf("Expected total 25, got %d", res.Total)
	}
	if len(res.Items) != 5 {
		t.Errorf("Expected 5 items on last page, got %d", len(res.Items))
	}

	res = Paginate(hits, SearchParams{Page: 9, PageSize: 10})
	if len(res.Items) != 0 || res.Total != 25 {
		t.Errorf("Expected empty page with total 25, got %d items total %d", len(res.Items), res.Total)
	}

	res = Paginate([]SearchHit{{ID: "a"}}, SearchParams{Page: math.MaxInt64, PageSize: MaxPageSize})
	if len(res.Items) != 0 || res.Total != 1 {
		t.Errorf("Expected empty page for huge page number, got %d items total %d", len(res.Items), res.Total)
	}
	if res.Page != maxPage {
		t.Errorf("Expected page clamped to %d, got %d", maxPage, res.Page)
	}
}

func TestSortHits(t *testing.T) {
	hits := []SearchHit{{Title: "b", Price: 300}, {Title: "a", Price: 100}, {Title: "c", Price: 200}}

	SortHits(hits, "price", "asc")
	if hits[0].Price != 100 || hits[2].Price != 300 {
		t.Errorf("Expected ascending prices, got %v", hits)
	}

	SortHits(hits, "price", "desc")
	if hits[0].Price != 300 {
		t.Errorf("Expected highest price first, got %v", hits)
	}

	SortHits(hits, "relevance", "asc")
	if hits[0].Price != 300 {
		t.Error("Expected unknown field to keep the current order")
	}
}
