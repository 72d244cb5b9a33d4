package repo

import (
	"context"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// SearchIndex is the product search backend.
// One implementation is wired per deployment.
type SearchIndex interface {
	// Search returns ranked hits for the params
	Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)

	// Index adds or replaces items in the index
	Index(ctx context.Context, items []*domain.Item) error

	// Remove drops an item from the index
	Remove(ctx context.Context, id string) error
}
