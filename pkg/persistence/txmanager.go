package persistence

import "context"

// TxManager runs fn as one unit of work. Repositories must use txCtx for
// every call that belongs to the unit.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error)
}

// NoopTxManager runs fn directly. Writes inside fn are applied one by one and
// are not rolled back when a later step fails.
type NoopTxManager struct{}

func (NoopTxManager) WithTransaction(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error) {
	return fn(ctx)
}

// RunInTx runs fn through tm and returns its result typed.
func RunInTx[T any](ctx context.Context, tm TxManager, fn func(txCtx context.Context) (T, error)) (T, error) {
	var zero T
	res, err := tm.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		return fn(txCtx)
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, nil
	}
	return v, nil
}
