package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
	"github.com/Sokol111/device-catalogue-service/pkg/persistence/mongo"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	idxProcessedEventTime = "outbox_processed_eventTime"
	idxExpireAtTTL        = "outbox_expireAt_ttl"
)

// Store is the durable log of outbox messages.
type Store interface {
	// Save inserts or replaces the message with the same id.
	Save(ctx context.Context, msg *Message) error

	// ListUnprocessed returns up to batchSize unprocessed messages in ascending event time.
	ListUnprocessed(ctx context.Context, batchSize int) ([]*Message, error)

	// MarkAsProcessed is a no-op when the message no longer exists.
	MarkAsProcessed(ctx context.Context, id string) error

	// MarkAsFailed is a no-op when the message no longer exists.
	MarkAsFailed(ctx context.Context, id string, reason string) error
}

type store struct {
	coll      mongo.Collection
	retention time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func newStore(m mongo.Mongo, conf Config, log *zap.Logger) *store {
	return &store{
		coll:      m.GetCollection(conf.Collection),
		retention: conf.Retention,
		now:       time.Now,
		log:       log.With(zap.String("component", "outbox-store")),
	}
}

func (s *store) Save(ctx context.Context, msg *Message) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": msg.ID},
		msg,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save outbox message %s: %w", msg.ID, err)
	}
	return nil
}

func (s *store) ListUnprocessed(ctx context.Context, batchSize int) ([]*Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "eventTime", Value: 1}}).
		SetLimit(int64(batchSize))

	cursor, err := s.coll.Find(ctx, bson.M{"processed": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed outbox messages: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	messages := make([]*Message, 0, batchSize)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode unprocessed outbox messages: %w", err)
	}
	return messages, nil
}

func (s *store) MarkAsProcessed(ctx context.Context, id string) error {
	return s.update(ctx, id, "mark outbox message as processed", func(msg *Message) {
		msg.markProcessed(s.now(), s.retention)
	})
}

func (s *store) MarkAsFailed(ctx context.Context, id string, reason string) error {
	return s.update(ctx, id, "mark outbox message as failed", func(msg *Message) {
		msg.markFailed(reason)
	})
}

// update reads the message, applies mutate and writes it back guarded by the
// version read.
func (s *store) update(ctx context.Context, id string, op string, mutate func(*Message)) error {
	var msg Message
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		s.log.Warn("outbox message not found, skipping", zap.String("id", id), zap.String("operation", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to %s %s: %w", op, id, err)
	}

	version := msg.Version
	mutate(&msg)
	msg.Version = version + 1

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id, "version": version}, &msg)
	if err != nil {
		return fmt.Errorf("failed to %s %s: %w", op, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to %s %s: %w", op, id, persistence.ErrOptimisticLocking)
	}
	return nil
}

// EnsureIndexes creates the outbox indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, m mongo.Mongo, conf Config) error {
	conf.applyDefaults()
	coll := m.GetCollection(conf.Collection)

	indexes := []mongodriver.IndexModel{
		{
			Keys: bson.D{
				{Key: "processed", Value: 1},
				{Key: "eventTime", Value: 1},
			},
			Options: options.Index().SetName(idxProcessedEventTime),
		},
		{
			// Only processed messages have expireAt.
			Keys: bson.D{{Key: "expireAt", Value: 1}},
			Options: options.Index().
				SetName(idxExpireAtTTL).
				SetExpireAfterSeconds(0),
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create outbox indexes: %w", err)
	}
	return nil
}
