package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs the sync and history jobs on fixed intervals. There is
// no overlap locking: each job runs in its own single goroutine, so a
// slow pass simply delays that job's next tick.
type Scheduler struct {
	service         *Service
	syncInterval    time.Duration
	historyInterval time.Duration
	logger          *zap.Logger
}

// NewScheduler builds a Scheduler with the given cadences.
func NewScheduler(service *Service, syncInterval, historyInterval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		service:         service,
		syncInterval:    syncInterval,
		historyInterval: historyInterval,
		logger:          logger,
	}
}

// Run blocks until the context is cancelled, syncing immediately and
// then on every tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler start",
		zap.Duration("sync_interval", s.syncInterval),
		zap.Duration("history_interval", s.historyInterval),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.runSync(ctx)
		ticker := time.NewTicker(s.syncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runSync(ctx)
			}
		}
	}()

	historyTicker := time.NewTicker(s.historyInterval)
	defer historyTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			<-done
			return ctx.Err()
		case <-historyTicker.C:
			if _, err := s.service.RecordPoolHistory(ctx); err != nil {
				s.logger.Error("history recording failed", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.service.SyncPools(ctx); err != nil {
		s.logger.Error("pool sync failed", zap.Error(err))
	}
}
