package mongo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// fakeCollection records the contexts it was called with.
type fakeCollection struct {
	Collection

	mu        sync.Mutex
	deadlines []bool
	countErr  error
	block     chan struct{}
}

func (f *fakeCollection) record(ctx context.Context) {
	_, ok := ctx.Deadline()
	f.mu.Lock()
	f.deadlines = append(f.deadlines, ok)
	f.mu.Unlock()
}

func (f *fakeCollection) CountDocuments(ctx context.Context, _ any, _ ...options.Lister[options.CountOptions]) (int64, error) {
	f.record(ctx)
	if f.block != nil {
		<-f.block
	}
	return 7, f.countErr
}

func (f *fakeCollection) FindOne(ctx context.Context, _ any, _ ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult {
	f.record(ctx)
	return mongodriver.NewSingleResultFromDocument(bson.D{{Key: "name", Value: "found"}}, nil, nil)
}

func (f *fakeCollection) Name() string { return "fake" }

func TestCollectionWrapper_Timeout(t *testing.T) {
	fake := &fakeCollection{}
	w := newCollectionWrapper(fake, WithTimeout(time.Second))

	n, err := w.CountDocuments(context.Background(), bson.D{})

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, []bool{true}, fake.deadlines)
	assert.Equal(t, "fake", w.Name())
}

func TestCollectionWrapper_ZeroTimeout(t *testing.T) {
	fake := &fakeCollection{}
	w := newCollectionWrapper(fake, WithTimeout(0))

	_, err := w.CountDocuments(context.Background(), bson.D{})

	require.NoError(t, err)
	assert.Equal(t, []bool{false}, fake.deadlines)
}

func TestCollectionWrapper_PropagatesError(t *testing.T) {
	fake := &fakeCollection{countErr: errors.New("boom")}
	w := newCollectionWrapper(fake)

	_, err := w.CountDocuments(context.Background(), bson.D{})

	assert.EqualError(t, err, "boom")
}

func TestCollectionWrapper_MiddlewareOrder(t *testing.T) {
	var calls []string
	mw := func(name string) Middleware {
		return func(ctx context.Context, next func(context.Context) error) error {
			calls = append(calls, name+":before")
			err := next(ctx)
			calls = append(calls, name+":after")
			return err
		}
	}
	w := newCollectionWrapper(&fakeCollection{}, WithMiddleware(mw("outer")), WithMiddleware(mw("inner")))

	_, err := w.CountDocuments(context.Background(), bson.D{})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, calls)
}

func TestCollectionWrapper_FindOne(t *testing.T) {
	w := newCollectionWrapper(&fakeCollection{}, WithTimeout(time.Second))

	var doc struct {
		Name string `bson:"name"`
	}
	require.NoError(t, w.FindOne(context.Background(), bson.D{}).Decode(&doc))
	assert.Equal(t, "found", doc.Name)
}

func TestCollectionWrapper_NilCollectionPanics(t *testing.T) {
	assert.Panics(t, func() { newCollectionWrapper(nil) })
}

func TestBulkhead(t *testing.T) {
	t.Run("rejects when full", func(t *testing.T) {
		block := make(chan struct{})
		fake := &fakeCollection{block: block}
		w := newCollectionWrapper(fake, WithBulkhead(NewBulkhead(1, 50*time.Millisecond, zap.NewNop())))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = w.CountDocuments(context.Background(), bson.D{})
		}()
		require.Eventually(t, func() bool {
			fake.mu.Lock()
			defer fake.mu.Unlock()
			return len(fake.deadlines) == 1
		}, time.Second, 5*time.Millisecond)

		_, err := w.CountDocuments(context.Background(), bson.D{})
		assert.ErrorIs(t, err, persistence.ErrBulkheadFull)

		close(block)
		<-done
	})

	t.Run("releases slot", func(t *testing.T) {
		b := NewBulkhead(1, 50*time.Millisecond, zap.NewNop())
		for range 3 {
			err := b.Execute(context.Background(), func(context.Context) error { return nil })
			require.NoError(t, err)
		}
	})

	t.Run("nil bulkhead is ignored", func(t *testing.T) {
		w := newCollectionWrapper(&fakeCollection{}, WithBulkhead(nil))
		_, err := w.CountDocuments(context.Background(), bson.D{})
		assert.NoError(t, err)
	})
}
