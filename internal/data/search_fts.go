package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// ftsCandidateLimit bounds the rows pulled before structured filtering
const ftsCandidateLimit = 1000

// ftsSearchIndex searches items through the SQLite FTS5 table
type ftsSearchIndex struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFTSSearchIndex creates a search index over the items table
func NewFTSSearchIndex(db *sql.DB, logger *zap.Logger) repo.SearchIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ftsSearchIndex{db: db, logger: logger.Named("fts")}
}

func (s *ftsSearchIndex) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	params.Normalize()

	candidates, err := s.candidates(ctx, params.Query)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.SearchHit, 0, len(candidates))
	for _, c := range candidates {
		hit := c.item.Hit(c.score)
		if params.Matches(hit) {
			hits = append(hits, hit)
		}
	}
	domain.SortHits(hits, params.SortField, params.SortOrder)
	return domain.Paginate(hits, params), nil
}

type ftsCandidate struct {
	item  *domain.Item
	score float64
}

func (s *ftsSearchIndex) candidates(ctx context.Context, query string) ([]ftsCandidate, error) {
	match := ftsMatchExpr(query)
	if match == "" {
		items, err := s.scan(ctx, `SELECT `+itemColumns+` FROM items ORDER BY seq LIMIT ?`, ftsCandidateLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}
		return withScore(items, 0), nil
	}

	// Try FTS search first, fall back to LIKE if FTS table doesn't exist
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.owner_id, i.title, i.description, i.sku, i.category, i.price, i.quantity,
			i.dimensions, i.color_code, i.specifications, i.tags, i.status, i.unit, i.barcode, i.supplier_id,
			i.reorder_point, i.max_stock, i.created_at, i.updated_at, bm25(items_fts)
		FROM items i
		JOIN items_fts f ON i.seq = f.rowid
		WHERE items_fts MATCH ?
		ORDER BY bm25(items_fts)
		LIMIT ?
	`, match, ftsCandidateLimit)
	if err != nil {
		s.logger.Debug("fts query failed, falling back to LIKE", zap.Error(err))
		like := "%" + strings.TrimSpace(query) + "%"
		items, err := s.scan(ctx, `
			SELECT `+itemColumns+` FROM items
			WHERE title LIKE ? OR description LIKE ? OR sku LIKE ? OR category LIKE ?
			ORDER BY seq
			LIMIT ?
		`, like, like, like, like, ftsCandidateLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to search items: %w", err)
		}
		return withScore(items, 0), nil
	}
	defer rows.Close()

	var out []ftsCandidate
	for rows.Next() {
		var rank float64
		item, err := scanItem(scanFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &rank)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		// bm25 is negative, lower is better
		out = append(out, ftsCandidate{item: item, score: -rank})
	}
	return out, rows.Err()
}

func (s *ftsSearchIndex) scan(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// Index is a no-op: triggers keep items_fts in step with items
func (s *ftsSearchIndex) Index(ctx context.Context, items []*domain.Item) error {
	return nil
}

// Remove is a no-op for the same reason
func (s *ftsSearchIndex) Remove(ctx context.Context, id string) error {
	return nil
}

// Rebuild regenerates the FTS table from the items table
func (s *ftsSearchIndex) Rebuild(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO items_fts(items_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("failed to rebuild fts index: %w", err)
	}
	return nil
}

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

func withScore(items []*domain.Item, score float64) []ftsCandidate {
	out := make([]ftsCandidate, 0, len(items))
	for _, it := range items {
		out = append(out, ftsCandidate{item: it, score: score})
	}
	return out
}

// ftsMatchExpr turns free text into an OR of quoted prefix terms.
// Quoting keeps FTS5 operators in user text from being interpreted.
func ftsMatchExpr(query string) string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " OR ")
}
