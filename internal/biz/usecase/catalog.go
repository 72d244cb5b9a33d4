package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// ItemRequest is the create/update body for an item
type ItemRequest struct {
	OwnerID        string            `json:"owner_id"`
	Title          string            `json:"title" validate:"required,max=255"`
	Description    string            `json:"description"`
	SKU            string            `json:"sku" validate:"omitempty,startswith=PNT"`
	Category       string            `json:"category" validate:"max=100"`
	Price          float64           `json:"price" validate:"gte=0"`
	Quantity       int               `json:"quantity" validate:"gte=0"`
	Dimensions     string            `json:"dimensions"`
	ColorCode      string            `json:"color_code"`
	Specifications map[string]string `json:"specifications"`
	Tags           []string          `json:"tags"`
	Status         string            `json:"status" validate:"omitempty,oneof=active inactive"`
	Unit           string            `json:"unit"`
	Barcode        string            `json:"barcode" validate:"omitempty,startswith=BAR"`
	SupplierID     string            `json:"supplier_id"`
	ReorderPoint   int               `json:"reorder_point" validate:"gte=0"`
	MaxStock       int               `json:"max_stock" validate:"gte=0"`
}

// CatalogUsecase manages items and keeps the search index in step
type CatalogUsecase struct {
	items    repo.ItemRepo
	index    repo.SearchIndex
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewCatalogUsecase creates a new catalog usecase
func NewCatalogUsecase(items repo.ItemRepo, index repo.SearchIndex, logger *zap.Logger) *CatalogUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogUsecase{
		items:    items,
		index:    index,
		validate: validator.New(),
		logger:   logger.Named("catalog"),
		now:      time.Now,
	}
}

func (uc *CatalogUsecase) check(req *ItemRequest) error {
	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	req.Barcode = strings.ToUpper(strings.TrimSpace(req.Barcode))
	req.Title = strings.TrimSpace(req.Title)

	if err := uc.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return &domain.ValidationError{Message: strings.Join(msgs, "; ")}
		}
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

func applyRequest(item *domain.Item, req *ItemRequest) {
	item.OwnerID = req.OwnerID
	item.Title = req.Title
	item.Description = req.Description
	item.SKU = req.SKU
	item.Category = req.Category
	item.Price = req.Price
	item.Quantity = req.Quantity
	item.Dimensions = req.Dimensions
	item.ColorCode = req.ColorCode
	item.Specifications = req.Specifications
	item.Tags = req.Tags
	item.Status = req.Status
	if item.Status == "" {
		item.Status = domain.ItemStatusActive
	}
	item.Unit = req.Unit
	item.Barcode = req.Barcode
	item.SupplierID = req.SupplierID
	item.ReorderPoint = req.ReorderPoint
	item.MaxStock = req.MaxStock
}

// Create validates and stores a new item
func (uc *CatalogUsecase) Create(ctx context.Context, req ItemRequest) (*domain.Item, error) {
	if err := uc.check(&req); err != nil {
		return nil, err
	}

	now := uc.now()
	item := &domain.Item{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	applyRequest(item, &req)

	if err := uc.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	uc.reindex(ctx, item)
	return item, nil
}

// Get returns one item
func (uc *CatalogUsecase) Get(ctx context.Context, id string) (*domain.Item, error) {
	return uc.items.Get(ctx, id)
}

// List pages through items
func (uc *CatalogUsecase) List(ctx context.Context, limit, offset int) ([]*domain.Item, error) {
	if limit <= 0 || limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return uc.items.List(ctx, limit, offset)
}

// Update replaces an item's fields
func (uc *CatalogUsecase) Update(ctx context.Context, id string, req ItemRequest) (*domain.Item, error) {
	if err := uc.check(&req); err != nil {
		return nil, err
	}

	item, err := uc.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyRequest(item, &req)
	item.UpdatedAt = uc.now()

	if err := uc.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	uc.reindex(ctx, item)
	return item, nil
}

// Delete removes an item and its index entry
func (uc *CatalogUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.items.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.index.Remove(ctx, id); err != nil {
		uc.logger.Warn("failed to remove item from index", zap.String("id", id), zap.Error(err))
	}
	return nil
}

// reindex failures are logged; the next resync repairs the index
func (uc *CatalogUsecase) reindex(ctx context.Context, item *domain.Item) {
	if err := uc.index.Index(ctx, []*domain.Item{item}); err != nil {
		uc.logger.Warn("failed to index item", zap.String("id", item.ID), zap.Error(err))
	}
}
