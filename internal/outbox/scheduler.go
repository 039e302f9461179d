package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs drain ticks on a fixed interval. Ticks never overlap.
type Scheduler struct {
	drainer  *Drainer
	interval time.Duration
	log      *zap.Logger
}

func newScheduler(drainer *Drainer, conf Config, log *zap.Logger) *Scheduler {
	return &Scheduler{
		drainer:  drainer,
		interval: conf.Interval,
		log:      log.With(zap.String("component", "outbox-scheduler")),
	}
}

// Run drains once immediately and then on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("outbox drain loop started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.drainer.Tick(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error("outbox drain tick failed", zap.Error(err))
	}
}
