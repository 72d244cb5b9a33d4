package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

const (
	resyncBatchSize   = 50
	resyncConcurrency = 4
)

// rebuilder is implemented by indexes that regenerate themselves from storage
type rebuilder interface {
	Rebuild(ctx context.Context) error
}

// IndexSyncUsecase rebuilds the search index from the item store
type IndexSyncUsecase struct {
	items  repo.ItemRepo
	index  repo.SearchIndex
	logger *zap.Logger
}

// NewIndexSyncUsecase creates a new index sync usecase
func NewIndexSyncUsecase(items repo.ItemRepo, index repo.SearchIndex, logger *zap.Logger) *IndexSyncUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexSyncUsecase{items: items, index: index, logger: logger.Named("index_sync")}
}

// Resync indexes every item in batches and returns the number indexed
func (uc *IndexSyncUsecase) Resync(ctx context.Context) (int, error) {
	if rb, ok := uc.index.(rebuilder); ok {
		if err := rb.Rebuild(ctx); err != nil {
			return 0, err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resyncConcurrency)

	var indexed atomic.Int64
	for offset := 0; ; offset += resyncBatchSize {
		if gctx.Err() != nil {
			break
		}
		batch, err := uc.items.List(gctx, resyncBatchSize, offset)
		if err != nil {
			_ = g.Wait()
			return int(indexed.Load()), fmt.Errorf("failed to list items: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		batch = append([]*domain.Item(nil), batch...)
		g.Go(func() error {
			if err := uc.index.Index(gctx, batch); err != nil {
				return fmt.Errorf("failed to index batch: %w", err)
			}
			indexed.Add(int64(len(batch)))
			return nil
		})

		if len(batch) < resyncBatchSize {
			break
		}
	}

	if err := g.Wait(); err != nil {
		return int(indexed.Load()), err
	}

	n := int(indexed.Load())
	uc.logger.Info("search index resynced", zap.Int("items", n))
	return n, nil
}
