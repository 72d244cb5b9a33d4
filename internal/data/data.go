package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
	"github.com/tridentdigital/zalo-inventory-bot/internal/conf"

	_ "modernc.org/sqlite"
)

// Repositories contains all repositories
type Repositories struct {
	Conversation repo.ConversationRepo
	Item         repo.ItemRepo
	Search       repo.SearchIndex
	LLM          repo.LanguageModel
	OAuth        repo.OAuthRepo
	Messenger    repo.MessengerRepo
	Credential   repo.CredentialRepo

	db *sql.DB
}

// NewRepositories creates all repositories from configuration
func NewRepositories(cfg *conf.Config, logger *zap.Logger) (*Repositories, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := OpenDB(cfg.Store.DBPath)
	if err != nil {
		return nil, err
	}

	llm := NewOpenAIClient(cfg.LLM, logger)

	var search repo.SearchIndex
	switch cfg.Search.Backend {
	case conf.SearchBackendVector:
		search, err = NewVectorSearchIndex(cfg.Search.VectorDir, cfg.Search.SimilarityThreshold, llm, NewFTSSearchIndex(db, logger), logger)
		if err != nil {
			db.Close()
			return nil, err
		}
	default:
		search = NewFTSSearchIndex(db, logger)
	}

	credential, err := NewCredentialRepo(cfg.Credential.TokenFile, cfg.Credential.EncryptionKey, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	zalo := NewZaloClient(cfg.Zalo, logger)

	return &Repositories{
		Conversation: NewConversationRepo(db),
		Item:         NewItemRepo(db),
		Search:       search,
		LLM:          llm,
		OAuth:        zalo,
		Messenger:    zalo,
		Credential:   credential,
		db:           db,
	}, nil
}

// Close releases the database
func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// OpenDB opens the SQLite database and creates the schema
func OpenDB(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; avoids SQLITE_BUSY under concurrent webhooks
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			conversation_id TEXT,
			group_id TEXT,
			sender_id TEXT,
			event_type TEXT NOT NULL,
			message_text TEXT,
			file_url TEXT,
			file_name TEXT,
			file_type TEXT,
			sticker_id TEXT,
			sticker_url TEXT,
			image_url TEXT,
			thumbnail_url TEXT,
			llm_analysis TEXT,
			raw_payload TEXT,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create conversations table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_conversations_event_type ON conversations(event_type)`); err != nil {
		return fmt.Errorf("failed to create conversations event index: %w", err)
	}

	// Append-only: reject updates at the storage level
	if _, err := db.Exec(`
		CREATE TRIGGER IF NOT EXISTS conversations_no_update BEFORE UPDATE ON conversations BEGIN
			SELECT RAISE(ABORT, 'conversations are append-only');
		END
	`); err != nil {
		return fmt.Errorf("failed to create append-only trigger: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			owner_id TEXT,
			title TEXT NOT NULL,
			description TEXT,
			sku TEXT,
			category TEXT,
			price REAL NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 0,
			dimensions TEXT,
			color_code TEXT,
			specifications TEXT,
			tags TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			unit TEXT,
			barcode TEXT,
			supplier_id TEXT,
			reorder_point INTEGER NOT NULL DEFAULT 0,
			max_stock INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_sku ON items(sku COLLATE NOCASE)`); err != nil {
		return fmt.Errorf("failed to create items sku index: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_barcode ON items(barcode COLLATE NOCASE)`); err != nil {
		return fmt.Errorf("failed to create items barcode index: %w", err)
	}

	// Full-text index; diacritics folded so "son" matches "sơn"
	if _, err := db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			title,
			description,
			sku,
			category,
			color_code,
			content='items',
			content_rowid='seq',
			tokenize='unicode61 remove_diacritics 2'
		)
	`); err != nil {
		return fmt.Errorf("failed to create items_fts table: %w", err)
	}

	// Triggers keep the FTS table in sync
	if _, err := db.Exec(`
		CREATE TRIGGER IF NOT EXISTS items_ai AFTER INSERT ON items BEGIN
			INSERT INTO items_fts(rowid, title, description, sku, category, color_code)
			VALUES (new.seq, new.title, new.description, new.sku, new.category, new.color_code);
		END
	`); err != nil {
		return fmt.Errorf("failed to create items_ai trigger: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TRIGGER IF NOT EXISTS items_ad AFTER DELETE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, title, description, sku, category, color_code)
			VALUES ('delete', old.seq, old.title, old.description, old.sku, old.category, old.color_code);
		END
	`); err != nil {
		return fmt.Errorf("failed to create items_ad trigger: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TRIGGER IF NOT EXISTS items_au AFTER UPDATE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, title, description, sku, category, color_code)
			VALUES ('delete', old.seq, old.title, old.description, old.sku, old.category, old.color_code);
			INSERT INTO items_fts(rowid, title, description, sku, category, color_code)
			VALUES (new.seq, new.title, new.description, new.sku, new.category, new.color_code);
		END
	`); err != nil {
		return fmt.Errorf("failed to create items_au trigger: %w", err)
	}

	return nil
}
