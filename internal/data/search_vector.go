package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

const (
	vectorCollection     = "items"
	vectorCandidateLimit = 100
	vectorIndexWorkers   = 4
	hitMetadataKey       = "hit"
)

// Embedder produces embedding vectors
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// vectorSearchIndex ranks items by embedding similarity with chromem-go.
// Queries without text are delegated to the fallback index.
type vectorSearchIndex struct {
	mu        sync.RWMutex
	db        *chromem.DB
	col       *chromem.Collection
	threshold float32
	fallback  repo.SearchIndex
	logger    *zap.Logger
}

// NewVectorSearchIndex opens (or creates) the persistent vector store at dir
func NewVectorSearchIndex(dir string, threshold float32, embedder Embedder, fallback repo.SearchIndex, logger *zap.Logger) (repo.SearchIndex, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create vector dir: %w", err)
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	return newVectorSearchIndex(db, threshold, embedder, fallback, logger)
}

func newVectorSearchIndex(db *chromem.DB, threshold float32, embedder Embedder, fallback repo.SearchIndex, logger *zap.Logger) (*vectorSearchIndex, error) {
	col, err := db.GetOrCreateCollection(vectorCollection, nil, embedder.Embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector collection: %w", err)
	}
	return &vectorSearchIndex{
		db:        db,
		col:       col,
		threshold: threshold,
		fallback:  fallback,
		logger:    logger.Named("vector"),
	}, nil
}

func (s *vectorSearchIndex) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	params.Normalize()
	if strings.TrimSpace(params.Query) == "" {
		if s.fallback == nil {
			return domain.Paginate(nil, params), nil
		}
		return s.fallback.Search(ctx, params)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.col.Count()
	if n == 0 {
		return domain.Paginate(nil, params), nil
	}
	if n > vectorCandidateLimit {
		n = vectorCandidateLimit
	}

	results, err := s.col.Query(ctx, params.Query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(results))
	for _, r := range results {
		if r.Similarity < s.threshold {
			continue
		}
		var hit domain.SearchHit
		if err := json.Unmarshal([]byte(r.Metadata[hitMetadataKey]), &hit); err != nil {
			s.logger.Warn("skipping document with bad metadata", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		hit.Score = float64(r.Similarity)
		if params.Matches(hit) {
			hits = append(hits, hit)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	domain.SortHits(hits, params.SortField, params.SortOrder)
	return domain.Paginate(hits, params), nil
}

func (s *vectorSearchIndex) Index(ctx context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(items))
	for _, it := range items {
		meta, err := json.Marshal(it.Hit(0))
		if err != nil {
			return fmt.Errorf("failed to encode item %s: %w", it.ID, err)
		}
		docs = append(docs, chromem.Document{
			ID:       it.ID,
			Content:  documentText(it),
			Metadata: map[string]string{hitMetadataKey: string(meta)},
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.col.AddDocuments(ctx, docs, vectorIndexWorkers); err != nil {
		return fmt.Errorf("failed to index items: %w", err)
	}
	return nil
}

func (s *vectorSearchIndex) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.col.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", id, err)
	}
	return nil
}

// documentText is the text embedded for an item
func documentText(it *domain.Item) string {
	parts := []string{it.Title}
	for _, s := range []string{it.Description, it.Category, it.ColorCode, it.SKU} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	keys := make([]string, 0, len(it.Specifications))
	for k := range it.Specifications {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+": "+it.Specifications[k])
	}
	return strings.Join(parts, "\n")
}
