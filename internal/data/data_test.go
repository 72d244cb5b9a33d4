package data

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedItems(t *testing.T, db *sql.DB) []*domain.Item {
	t.Helper()
	now := time.Unix(1700000000, 0)
	items := []*domain.Item{
		{
			ID: "i1", Title: "Sơn Nội Thất Trắng Sứ", SKU: "PNT-0001", Barcode: "BAR001",
			Category: "Sơn Nội Thất", ColorCode: "trắng", Price: 250000, Quantity: 5, ReorderPoint: 10,
			Specifications: map[string]string{"finish": "Mờ", "base_type": "Gốc Nước"},
			Tags:           []string{"nội thất"},
		},
		{
			ID: "i2", Title: "Sơn Ngoại Thất Kem", SKU: "PNT-0002", Barcode: "BAR002",
			Category: "Sơn Ngoại Thất", ColorCode: "kem", Price: 380000, Quantity: 50, ReorderPoint: 10,
			Specifications: map[string]string{"finish": "Bóng", "base_type": "Gốc Nước"},
		},
		{
			ID: "i3", Title: "Sơn Ngoại Thất Xám", SKU: "PNT-0003", Barcode: "BAR003",
			Category: "Sơn Ngoại Thất", ColorCode: "xám", Price: 520000, Quantity: 0, ReorderPoint: 5,
			Specifications: map[string]string{"finish": "Bóng", "base_type": "Gốc Dầu"},
		},
	}
	r := NewItemRepo(db)
	for i, it := range items {
		it.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		it.UpdatedAt = it.CreatedAt
		require.NoError(t, r.Create(context.Background(), it))
	}
	return items
}

func TestOpenDB_CreatesSchemaObjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.db")
	db, err := OpenDB(path)
	require.NoError(t, err)

	for _, name := range []string{
		"conversations", "items", "items_fts",
		"conversations_no_update", "items_ai", "items_ad", "items_au",
		"idx_conversations_event_type", "idx_items_sku", "idx_items_barcode",
	} {
		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name).Scan(&count))
		require.Equal(t, 1, count, "missing schema object %s", name)
	}
	require.NoError(t, db.Close())

	// re-running the migration on an existing file is a no-op
	db, err = OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestConversations_UpdateRejected(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO conversations (id, event_type, created_at) VALUES ('c1', 'user_send_text', 0)`)
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE conversations SET message_text = 'x' WHERE id = 'c1'`)
	require.ErrorContains(t, err, "append-only")
}
