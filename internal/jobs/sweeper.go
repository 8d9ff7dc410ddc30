package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

type staleRequeuer interface {
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Sweeper periodically returns jobs abandoned by a crashed worker to the queue.
type Sweeper struct {
	store      staleRequeuer
	staleAfter time.Duration
	cron       *cron.Cron
}

func NewSweeper(store staleRequeuer, spec string, staleAfter time.Duration) (*Sweeper, error) {
	s := &Sweeper{store: store, staleAfter: staleAfter, cron: cron.New()}
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, _ = s.Sweep(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return s, nil
}

// Sweep runs one requeue pass.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.store.RequeueStale(ctx, s.staleAfter)
	log := logging.FromContext(ctx)
	if err != nil {
		log.LogError("jobs.sweep", err)
		return 0, err
	}
	if n > 0 {
		log.LogWarnf("jobs.sweep", "requeued %d stale jobs", n)
	}
	return n, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule; the returned context is done once a running
// sweep has finished.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}
