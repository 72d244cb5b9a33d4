package domain

import "time"

// Item statuses
const (
	ItemStatusActive   = "active"
	ItemStatusInactive = "inactive"
)

// Stock statuses shown to users
const (
	StockOutOfStock = "Hết hàng"
	StockLow        = "Sắp hết hàng"
	StockInStock    = "Còn hàng"
)

// Item represents an inventory item
type Item struct {
	ID             string            `json:"id"`
	OwnerID        string            `json:"owner_id,omitempty"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	SKU            string            `json:"sku,omitempty"`
	Category       string            `json:"category,omitempty"`
	Price          float64           `json:"price"`
	Quantity       int               `json:"quantity"`
	Dimensions     string            `json:"dimensions,omitempty"`
	ColorCode      string            `json:"color_code,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Status         string            `json:"status"`
	Unit           string            `json:"unit,omitempty"`
	Barcode        string            `json:"barcode,omitempty"`
	SupplierID     string            `json:"supplier_id,omitempty"`
	ReorderPoint   int               `json:"reorder_point"`
	MaxStock       int               `json:"max_stock,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// StockStatus classifies a quantity against its reorder point
func StockStatus(quantity, reorderPoint int) string {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity <= reorderPoint:
		return StockLow
	default:
		return StockInStock
	}
}

// StockStatus returns the item's stock status
func (i *Item) StockStatus() string {
	return StockStatus(i.Quantity, i.ReorderPoint)
}

// IsActive checks if the item is listed
func (i *Item) IsActive() bool {
	return i.Status == "" || i.Status == ItemStatusActive
}

// Hit projects the item into a search hit
func (i *Item) Hit(score float64) SearchHit {
	return SearchHit{
		ID:             i.ID,
		Title:          i.Title,
		Description:    i.Description,
		SKU:            i.SKU,
		Barcode:        i.Barcode,
		Category:       i.Category,
		Color:          i.ColorCode,
		Price:          i.Price,
		Quantity:       i.Quantity,
		ReorderPoint:   i.ReorderPoint,
		Specifications: i.Specifications,
		Status:         i.Status,
		Score:          score,
	}
}
