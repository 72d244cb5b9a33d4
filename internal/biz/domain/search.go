package domain

import (
	"math"
	"sort"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// maxPage keeps (Page-1)*PageSize within int
	maxPage = math.MaxInt / MaxPageSize
)

// PriceRange bounds a price filter; nil ends are open
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains checks whether price falls in the range
func (r *PriceRange) Contains(price float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// SearchParams is a product search request
type SearchParams struct {
	Query          string            `json:"query,omitempty"`
	Category       string            `json:"category,omitempty"`
	Color          string            `json:"color,omitempty"`
	PriceRange     *PriceRange       `json:"price_range,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Status         string            `json:"status,omitempty"`
	SortField      string            `json:"sort_field,omitempty"` // price, title, quantity
	SortOrder      string            `json:"sort_order,omitempty"` // asc, desc
	Page           int               `json:"page"`
	PageSize       int               `json:"size"`
}

// Normalize clamps paging to valid values
func (p *SearchParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the number of hits to skip
func (p *SearchParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Matches applies the structured filters to a hit
func (p *SearchParams) Matches(h SearchHit) bool {
	if p.Category != "" && !strings.EqualFold(h.Category, p.Category) {
		return false
	}
	if p.Color != "" && !strings.EqualFold(h.Color, p.Color) {
		return false
	}
	if p.Status != "" && !strings.EqualFold(h.Status, p.Status) {
		return false
	}
	if !p.PriceRange.Contains(h.Price) {
		return false
	}
	for k, want := range p.Specifications {
		if got, ok := h.Specifications[k]; !ok || !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}

// SearchHit is a denormalized product projection
type SearchHit struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	SKU            string            `json:"sku,omitempty"`
	Barcode        string            `json:"barcode,omitempty"`
	Category       string            `json:"category,omitempty"`
	Color          string            `json:"color,omitempty"`
	Price          float64           `json:"price"`
	Quantity       int               `json:"quantity"`
	ReorderPoint   int               `json:"reorder_point"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Status         string            `json:"status,omitempty"`
	Score          float64           `json:"score"`
}

// SearchResult is one page of hits. Total is the count before paging over
// the candidates the index retrieved; each backend caps that candidate set.
type SearchResult struct {
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"size"`
	Items    []SearchHit `json:"items"`
}

// Paginate slices already-filtered hits into a result page
func Paginate(hits []SearchHit, p SearchParams) *SearchResult {
	p.Normalize()
	res := &SearchResult{Total: len(hits), Page: p.Page, PageSize: p.PageSize, Items: []SearchHit{}}
	start := p.Offset()
	if start >= len(hits) {
		return res
	}
	end := start + p.PageSize
	if end > len(hits) {
		end = len(hits)
	}
	res.Items = append(res.Items, hits[start:end]...)
	return res
}

// SortHits orders hits by the requested field; unknown fields keep relevance order
func SortHits(hits []SearchHit, field, order string) {
	desc := strings.EqualFold(order, "desc")
	var less func(a, b SearchHit) bool
	switch strings.ToLower(field) {
	case "price":
		less = func(a, b SearchHit) bool { return a.Price < b.Price }
	case "title":
		less = func(a, b SearchHit) bool { return a.Title < b.Title }
	case "quantity":
		less = func(a, b SearchHit) bool { return a.Quantity < b.Quantity }
	default:
		return
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if desc {
			return less(hits[j], hits[i])
		}
		return less(hits[i], hits[j])
	})
}
