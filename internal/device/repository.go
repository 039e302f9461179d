package device

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
)

const (
	devicesCollection = "devices"
	modelsCollection  = "device_models"

	idxDeviceModelID = "devices_modelId"
	idxDeviceSerial  = "devices_serialNumber_unique"
)

// Repository stores devices. GetByID returns an error wrapping
// persistence.ErrEntityNotFound when the device does not exist.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Device, error)
	Insert(ctx context.Context, d *Device) error
	// Save replaces the device if its version is unchanged and increments
	// d.Version on success.
	Save(ctx context.Context, d *Device) error
	Delete(ctx context.Context, id string) error
	CountByModel(ctx context.Context, modelID string) (int64, error)
}

type ModelRepository interface {
	GetByID(ctx context.Context, id string) (*Model, error)
	Insert(ctx context.Context, m *Model) error
	Save(ctx context.Context, m *Model) error
	Delete(ctx context.Context, id string) error
}

type deviceEntity struct {
	ID               string     `bson:"_id"`
	ModelID          string     `bson:"modelId"`
	SerialNumber     string     `bson:"serialNumber"`
	Status           string     `bson:"status"`
	StatusSourceTime *time.Time `bson:"statusSourceTime,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt"`
	Version          int64      `bson:"version"`
}

func toDeviceEntity(d *Device) deviceEntity {
	return deviceEntity{
		ID:               d.ID,
		ModelID:          d.ModelID,
		SerialNumber:     d.SerialNumber,
		Status:           string(d.Status),
		StatusSourceTime: d.StatusSourceTime,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		Version:          d.Version,
	}
}

func (e deviceEntity) toDomain() *Device {
	return &Device{
		ID:               e.ID,
		ModelID:          e.ModelID,
		SerialNumber:     e.SerialNumber,
		Status:           Status(e.Status),
		StatusSourceTime: e.StatusSourceTime,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		Version:          e.Version,
	}
}

type modelEntity struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Brand       string    `bson:"brand,omitempty"`
	Category    string    `bson:"category,omitempty"`
	Description string    `bson:"description,omitempty"`
	LoanDays    int       `bson:"loanDays"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
	Version     int64     `bson:"version"`
}

func toModelEntity(m *Model) modelEntity {
	return modelEntity{
		ID:          m.ID,
		Name:        m.Name,
		Brand:       m.Brand,
		Category:    m.Category,
		Description: m.Description,
		LoanDays:    m.LoanDays,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Version:     m.Version,
	}
}

func (e modelEntity) toDomain() *Model {
	return &Model{
		ID:          e.ID,
		Name:        e.Name,
		Brand:       e.Brand,
		Category:    e.Category,
		Description: e.Description,
		LoanDays:    e.LoanDays,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
}

type deviceRepository struct {
	coll mongo.Collection
}

func newDeviceRepository(m mongo.Mongo) Repository {
	return &deviceRepository{coll: m.GetCollection(devicesCollection)}
}

func (r *deviceRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	var e deviceEntity
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to get device %s: %w", id, persistence.ErrEntityNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device %s: %w", id, err)
	}
	return e.toDomain(), nil
}

func (r *deviceRepository) Insert(ctx context.Context, d *Device) error {
	if _, err := r.coll.InsertOne(ctx, toDeviceEntity(d)); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to insert device %s: %w", d.ID, ErrDuplicateSerial)
		}
		return fmt.Errorf("failed to insert device %s: %w", d.ID, err)
	}
	return nil
}

func (r *deviceRepository) Save(ctx context.Context, d *Device) error {
	e := toDeviceEntity(d)
	e.Version = d.Version + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": d.ID, "version": d.Version}, e)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to save device %s: %w", d.ID, ErrDuplicateSerial)
		}
		return fmt.Errorf("failed to save device %s: %w", d.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to save device %s: %w", d.ID, r.missOrConflict(ctx, d.ID))
	}
	d.Version = e.Version
	return nil
}

func (r *deviceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete device %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete device %s: %w", id, persistence.ErrEntityNotFound)
	}
	return nil
}

func (r *deviceRepository) CountByModel(ctx context.Context, modelID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"modelId": modelID})
	if err != nil {
		return 0, fmt.Errorf("failed to count devices of model %s: %w", modelID, err)
	}
	return n, nil
}

// missOrConflict tells a missing document from a version conflict after a
// guarded write matched nothing.
func (r *deviceRepository) missOrConflict(ctx context.Context, id string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return persistence.ErrEntityNotFound
	}
	return persistence.ErrOptimisticLocking
}

type modelRepository struct {
	coll mongo.Collection
}

func newModelRepository(m mongo.Mongo) ModelRepository {
	return &modelRepository{coll: m.GetCollection(modelsCollection)}
}

func (r *modelRepository) GetByID(ctx context.Context, id string) (*Model, error) {
	var e modelEntity
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to get device model %s: %w", id, persistence.ErrEntityNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device model %s: %w", id, err)
	}
	return e.toDomain(), nil
}

func (r *modelRepository) Insert(ctx context.Context, m *Model) error {
	if _, err := r.coll.InsertOne(ctx, toModelEntity(m)); err != nil {
		return fmt.Errorf("failed to insert device model %s: %w", m.ID, err)
	}
	return nil
}

func (r *modelRepository) Save(ctx context.Context, m *Model) error {
	e := toModelEntity(m)
	e.Version = m.Version + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": m.ID, "version": m.Version}, e)
	if err != nil {
		return fmt.Errorf("failed to save device model %s: %w", m.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to save device model %s: %w", m.ID, persistence.ErrOptimisticLocking)
	}
	m.Version = e.Version
	return nil
}

func (r *modelRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete device model %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete device model %s: %w", id, persistence.ErrEntityNotFound)
	}
	return nil
}

// EnsureIndexes creates the device indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, m mongo.Mongo) error {
	indexes := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "modelId", Value: 1}},
			Options: options.Index().SetName(idxDeviceModelID),
		},
		{
			Keys: bson.D{{Key: "serialNumber", Value: 1}},
			Options: options.Index().
				SetName(idxDeviceSerial).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"serialNumber": bson.M{"$gt": ""}}),
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := m.GetCollection(devicesCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create device indexes: %w", err)
	}
	return nil
}
