package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Middleware wraps a single collection call.
type Middleware func(ctx context.Context, next func(context.Context) error) error

// WrapperOption configures a collection wrapper.
type WrapperOption func(*collectionWrapper)

// WithTimeout bounds every call with d. Zero disables it.
func WithTimeout(d time.Duration) WrapperOption {
	return WithMiddleware(func(ctx context.Context, next func(context.Context) error) error {
		if d <= 0 {
			return next(ctx)
		}
		timeoutCtx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(timeoutCtx)
	})
}

// WithBulkhead limits concurrent calls through b. A nil b is ignored.
func WithBulkhead(b *Bulkhead) WrapperOption {
	if b == nil {
		return func(*collectionWrapper) {}
	}
	return WithMiddleware(b.Execute)
}

func WithMiddleware(mw Middleware) WrapperOption {
	return func(w *collectionWrapper) {
		w.middlewares = append(w.middlewares, mw)
	}
}

type collectionWrapper struct {
	coll        Collection
	middlewares []Middleware
	middleware  Middleware
}

func newCollectionWrapper(coll Collection, opts ...WrapperOption) *collectionWrapper {
	if coll == nil {
		panic("mongo: collection is nil")
	}
	w := &collectionWrapper{coll: coll}
	for _, opt := range opts {
		opt(w)
	}
	w.middleware = chain(w.middlewares...)
	return w
}

// chain composes middlewares so the first one is outermost.
func chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, next func(context.Context) error) error {
		call := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw, inner := mws[i], call
			call = func(ctx context.Context) error { return mw(ctx, inner) }
		}
		return call(ctx)
	}
}

func (w *collectionWrapper) FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult {
	var res *mongodriver.SingleResult
	err := w.middleware(ctx, func(ctx context.Context) error {
		res = w.coll.FindOne(ctx, filter, opts...)
		return nil
	})
	if err != nil {
		return mongodriver.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	return res
}

func (w *collectionWrapper) Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongodriver.Cursor, error) {
	var cur *mongodriver.Cursor
	err := w.middleware(ctx, func(ctx context.Context) (err error) {
		cur, err = w.coll.Find(ctx, filter, opts...)
		return err
	})
	return cur, err
}

func (w *collectionWrapper) InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error) {
	var res *mongodriver.InsertOneResult
	err := w.middleware(ctx, func(ctx context.Context) (err error) {
		res, err = w.coll.InsertOne(ctx, document, opts...)
		return err
	})
	return res, err
}

func (w *collectionWrapper) UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongodriver.UpdateResult, error) {
	var res *mongodriver.UpdateResult
	err := w.middleware(ctx, func(ctx context.Context) (err error) {
		res, err = w.coll.UpdateOne(ctx, filter, update, opts...)
		return err
	})
	return res, err
}

func (w *collectionWrapper) ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongodriver.UpdateResult, error) {
	var res *mongodriver.UpdateResult
	err := w.middleware(ctx, func(ctx context.Context) (err error) {
		res, err = w.coll.ReplaceOne(ctx, filter, replacement, opts...)
		return err
	})
	return res, err
}

func (w *collectionWrapper) DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongodriver.DeleteResult, error) {
	var res *mongodriver.DeleteResult
	err := w.middleware(ctx, func(ctx context.Context) (err error) {
		res, err = w.coll.DeleteOne(ctx, filter, opts...)
		return err
	})
	return res, err
}

func (w *collectionWrapper) FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult {
	var res *mongodriver.SingleResult
	err := w.middleware(ctx, func(ctx context.Context) error {
		res = w.coll.FindOneAndUpdate(ctx, filter, update, opts...)
		return nil
	})
	if err != nil {
		return mongodriver.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	return res
}

func (w *collectionWrapper) CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error) {
	var n int64
	err := w.middleware(ctx, func(ctx context.Context) (err error) {
		n, err = w.coll.CountDocuments(ctx, filter, opts...)
		return err
	})
	return n, err
}

func (w *collectionWrapper) Indexes() mongodriver.IndexView {
	return w.coll.Indexes()
}

func (w *collectionWrapper) Name() string {
	return w.coll.Name()
}
