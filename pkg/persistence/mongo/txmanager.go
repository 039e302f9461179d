package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

const maxTxAttempts = 3

type sessionStarter interface {
	StartSession() (*mongodriver.Session, error)
}

type mongoTxManager struct {
	admin sessionStarter
	log   *zap.Logger
}

func newTxManager(admin Admin, log *zap.Logger) persistence.TxManager {
	return &mongoTxManager{
		admin: admin,
		log:   log.With(zap.String("component", "mongo-tx")),
	}
}

func isTransientError(err error) bool {
	var se mongodriver.ServerError
	if errors.As(err, &se) {
		return se.HasErrorLabel("TransientTransactionError")
	}
	return false
}

func (t *mongoTxManager) WithTransaction(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error) {
	var (
		result any
		err    error
	)
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		if attempt > 1 {
			t.log.Warn("retrying transaction", zap.Int("attempt", attempt), zap.Error(err))
		}

		result, err = t.run(ctx, fn)
		if err == nil {
			return result, nil
		}
		if !isTransientError(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("transaction failed after %d attempts: %w", maxTxAttempts, err)
}

func (t *mongoTxManager) run(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error) {
	session, err := t.admin.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, fn)
}
