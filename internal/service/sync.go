package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
)

// resyncTimeout bounds one scheduled resync
const resyncTimeout = 10 * time.Minute

// IndexSyncService resynchronizes the search index on a cron schedule
type IndexSyncService struct {
	syncUC   *usecase.IndexSyncUsecase
	schedule string
	logger   *zap.Logger

	cron    *cron.Cron
	running bool
	mu      sync.Mutex // guards cron and running
	runMu   sync.Mutex // serializes resyncs
}

// NewIndexSyncService creates a new index sync service
func NewIndexSyncService(syncUC *usecase.IndexSyncUsecase, schedule string, logger *zap.Logger) *IndexSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexSyncService{
		syncUC:   syncUC,
		schedule: schedule,
		logger:   logger.Named("index_sync"),
	}
}

// Start registers the schedule and starts the cron runner.
// An empty schedule leaves the service idle.
func (s *IndexSyncService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.schedule == "" {
		s.logger.Info("index resync disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.runScheduled); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	s.running = true
	s.logger.Info("index resync scheduled", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the runner and waits for a running resync
func (s *IndexSyncService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("index resync stopped")
}

// RunNow resyncs immediately; concurrent calls wait for each other
func (s *IndexSyncService) RunNow(ctx context.Context) (int, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	n, err := s.syncUC.Resync(ctx)
	if err != nil {
		s.logger.Error("index resync failed", zap.Int("indexed", n), zap.Error(err))
		return n, err
	}
	s.logger.Info("index resync finished", zap.Int("indexed", n), zap.Duration("elapsed", time.Since(start)))
	return n, nil
}

func (s *IndexSyncService) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
	defer cancel()
	_, _ = s.RunNow(ctx)
}
