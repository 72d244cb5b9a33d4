package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// itemRepo implements the item store
type itemRepo struct {
	db *sql.DB
}

// NewItemRepo creates an item repository on an open database
func NewItemRepo(db *sql.DB) repo.ItemRepo {
	return &itemRepo{db: db}
}

const itemColumns = `id, owner_id, title, description, sku, category, price, quantity,
	dimensions, color_code, specifications, tags, status, unit, barcode, supplier_id,
	reorder_point, max_stock, created_at, updated_at`

func (r *itemRepo) Create(ctx context.Context, item *domain.Item) error {
	specs, tags, err := encodeItemJSON(item)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID, item.OwnerID, item.Title, item.Description, item.SKU, item.Category, item.Price, item.Quantity,
		item.Dimensions, item.ColorCode, specs, tags, statusOrActive(item.Status), item.Unit, item.Barcode, item.SupplierID,
		item.ReorderPoint, item.MaxStock, item.CreatedAt.Unix(), item.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (r *itemRepo) Get(ctx context.Context, id string) (*domain.Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *domain.Item) error {
	specs, tags, err := encodeItemJSON(item)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE items SET
			owner_id = ?, title = ?, description = ?, sku = ?, category = ?, price = ?, quantity = ?,
			dimensions = ?, color_code = ?, specifications = ?, tags = ?, status = ?, unit = ?,
			barcode = ?, supplier_id = ?, reorder_point = ?, max_stock = ?, updated_at = ?
		WHERE id = ?
	`,
		item.OwnerID, item.Title, item.Description, item.SKU, item.Category, item.Price, item.Quantity,
		item.Dimensions, item.ColorCode, specs, tags, statusOrActive(item.Status), item.Unit,
		item.Barcode, item.SupplierID, item.ReorderPoint, item.MaxStock, item.UpdatedAt.Unix(),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepo) List(ctx context.Context, limit, offset int) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		ORDER BY seq
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *itemRepo) FindBySKUs(ctx context.Context, skus []string) ([]*domain.Item, error) {
	return r.findBy(ctx, "sku", skus)
}

func (r *itemRepo) FindByBarcodes(ctx context.Context, barcodes []string) ([]*domain.Item, error) {
	return r.findBy(ctx, "barcode", barcodes)
}

// findBy matches column against keys, case-insensitively
func (r *itemRepo) findBy(ctx context.Context, column string, keys []string) ([]*domain.Item, error) {
	if len(keys) == 0 {
		return []*domain.Item{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE `+column+` COLLATE NOCASE IN (`+placeholders+`)
		ORDER BY seq
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find items by %s: %w", column, err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var ownerID, description, sku, category, dimensions, colorCode sql.NullString
	var specs, tags, unit, barcode, supplierID sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(&item.ID, &ownerID, &item.Title, &description, &sku, &category, &item.Price, &item.Quantity,
		&dimensions, &colorCode, &specs, &tags, &item.Status, &unit, &barcode, &supplierID,
		&item.ReorderPoint, &item.MaxStock, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	item.OwnerID = ownerID.String
	item.Description = description.String
	item.SKU = sku.String
	item.Category = category.String
	item.Dimensions = dimensions.String
	item.ColorCode = colorCode.String
	item.Unit = unit.String
	item.Barcode = barcode.String
	item.SupplierID = supplierID.String
	if specs.String != "" {
		_ = json.Unmarshal([]byte(specs.String), &item.Specifications)
	}
	if tags.String != "" {
		_ = json.Unmarshal([]byte(tags.String), &item.Tags)
	}
	item.CreatedAt = time.Unix(createdAt, 0)
	item.UpdatedAt = time.Unix(updatedAt, 0)
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]*domain.Item, error) {
	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func encodeItemJSON(item *domain.Item) (specs, tags any, err error) {
	if len(item.Specifications) > 0 {
		b, err := json.Marshal(item.Specifications)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode specifications: %w", err)
		}
		specs = string(b)
	}
	if len(item.Tags) > 0 {
		b, err := json.Marshal(item.Tags)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		tags = string(b)
	}
	return specs, tags, nil
}

func statusOrActive(status string) string {
	if status == "" {
		return domain.ItemStatusActive
	}
	return status
}
