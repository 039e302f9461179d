package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Bulkhead caps the number of in-flight store calls.
type Bulkhead struct {
	semaphore *semaphore.Weighted
	timeout   time.Duration
	log       *zap.Logger
}

func NewBulkhead(limit int, timeout time.Duration, log *zap.Logger) *Bulkhead {
	log.Info("bulkhead initialized",
		zap.Int("limit", limit),
		zap.Duration("timeout", timeout),
	)
	return &Bulkhead{
		semaphore: semaphore.NewWeighted(int64(limit)),
		timeout:   timeout,
		log:       log,
	}
}

// Execute runs fn once a slot is free. Waiting is bounded by the bulkhead
// timeout; fn itself runs with the caller's ctx.
func (b *Bulkhead) Execute(ctx context.Context, fn func(context.Context) error) error {
	acquireCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.semaphore.Acquire(acquireCtx, 1); err != nil {
		b.log.Warn("bulkhead acquisition failed", zap.Duration("timeout", b.timeout), zap.Error(err))
		return fmt.Errorf("%w: %w", persistence.ErrBulkheadFull, err)
	}
	defer b.semaphore.Release(1)

	return fn(ctx)
}
