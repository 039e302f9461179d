package consumer

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryExecutor runs an operation with retries and panic recovery.
type RetryExecutor interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type retryExecutor struct {
	maxAttempts       int
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	processingTimeout time.Duration
	log               *zap.Logger
}

func newRetryExecutor(maxAttempts int, initialBackoff, maxBackoff, processingTimeout time.Duration, log *zap.Logger) RetryExecutor {
	return &retryExecutor{
		maxAttempts:       maxAttempts,
		initialBackoff:    initialBackoff,
		maxBackoff:        maxBackoff,
		processingTimeout: processingTimeout,
		log:               log,
	}
}

func (r *retryExecutor) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialBackoff
	b.MaxInterval = r.maxBackoff
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxAttempts-1)), ctx)
}

func (r *retryExecutor) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := r.executeWithPanicRecovery(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSkipMessage) || errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		r.logError(err, attempt)
		return err
	}

	err := backoff.Retry(operation, r.newBackOff(ctx))
	if err == nil || errors.Is(err, ErrSkipMessage) || errors.Is(err, ErrPermanent) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("max retry attempts reached: %w", err)
}

func (r *retryExecutor) executeWithPanicRecovery(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %w", ErrPermanent, &PanicError{
				Panic: rec,
				Stack: debug.Stack(),
			})
		}
	}()

	if r.processingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.processingTimeout)
		defer cancel()
	}
	return fn(ctx)
}

func (r *retryExecutor) logError(err error, attempt int) {
	r.log.Warn("failed to process message",
		zap.Int("attempt", attempt),
		zap.Int("max_attempts", r.maxAttempts),
		zap.Error(err),
	)
}
