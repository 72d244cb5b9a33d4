package repo

import (
	"context"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// ItemRepo is the item store
type ItemRepo interface {
	Create(ctx context.Context, item *domain.Item) error
	Get(ctx context.Context, id string) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error

	// List pages through items ordered by creation time
	List(ctx context.Context, limit, offset int) ([]*domain.Item, error)

	// FindBySKUs matches SKUs case-insensitively
	FindBySKUs(ctx context.Context, skus []string) ([]*domain.Item, error)

	// FindByBarcodes matches barcodes case-insensitively
	FindByBarcodes(ctx context.Context, barcodes []string) ([]*domain.Item, error)
}
