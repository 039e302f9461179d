package device

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateDeviceCommand struct {
	ModelID      string
	SerialNumber string
	// Status defaults to Available.
	Status Status
}

// UpdateDeviceCommand changes the non-nil fields.
type UpdateDeviceCommand struct {
	ID           string
	ModelID      *string
	SerialNumber *string
	Status       *Status
}

type CreateModelCommand struct {
	Name        string
	Brand       string
	Category    string
	Description string
	LoanDays    int
}

type UpdateModelCommand struct {
	ID          string
	Name        *string
	Brand       *string
	Category    *string
	Description *string
	LoanDays    *int
}

// Service runs the catalogue write use cases. Every use case writes the
// aggregate and appends its events in one unit of work.
type Service struct {
	devices   Repository
	models    ModelRepository
	tx        persistence.TxManager
	publisher event.Publisher
	now       func() time.Time
	newID     func() string
}

func NewService(devices Repository, models ModelRepository, tx persistence.TxManager, publisher event.Publisher) *Service {
	return &Service{
		devices:   devices,
		models:    models,
		tx:        tx,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) GetDevice(ctx context.Context, id string) (*Device, error) {
	return s.devices.GetByID(ctx, id)
}

func (s *Service) GetModel(ctx context.Context, id string) (*Model, error) {
	return s.models.GetByID(ctx, id)
}

func (s *Service) CreateDevice(ctx context.Context, cmd CreateDeviceCommand) (*Device, error) {
	status := cmd.Status
	if status == "" {
		status = StatusAvailable
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidDevice, status)
	}
	if strings.TrimSpace(cmd.ModelID) == "" {
		return nil, fmt.Errorf("%w: model id is required", ErrInvalidDevice)
	}

	return persistence.RunInTx(ctx, s.tx, func(txCtx context.Context) (*Device, error) {
		if _, err := s.models.GetByID(txCtx, cmd.ModelID); err != nil {
			return nil, err
		}

		now := s.now().UTC()
		d := &Device{
			ID:           s.newID(),
			ModelID:      cmd.ModelID,
			SerialNumber: strings.TrimSpace(cmd.SerialNumber),
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.devices.Insert(txCtx, d); err != nil {
			return nil, err
		}
		if err := s.publish(txCtx, event.TopicDevice, event.DeviceCreated, d.ID, deviceData(d)); err != nil {
			return nil, err
		}

		logger.Get(ctx).Info("device created", zap.String("device_id", d.ID), zap.String("model_id", d.ModelID))
		return d, nil
	})
}

func (s *Service) UpdateDevice(ctx context.Context, cmd UpdateDeviceCommand) (*Device, error) {
	if cmd.Status != nil && !cmd.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidDevice, *cmd.Status)
	}

	return persistence.RunInTx(ctx, s.tx, func(txCtx context.Context) (*Device, error) {
		d, err := s.devices.GetByID(txCtx, cmd.ID)
		if err != nil {
			return nil, err
		}

		now := s.now().UTC()
		if cmd.ModelID != nil && *cmd.ModelID != d.ModelID {
			if _, err := s.models.GetByID(txCtx, *cmd.ModelID); err != nil {
				return nil, err
			}
			d.ModelID = *cmd.ModelID
		}
		if cmd.SerialNumber != nil {
			d.SerialNumber = strings.TrimSpace(*cmd.SerialNumber)
		}

		var events []event.Envelope
		if cmd.Status != nil {
			if previous, changed := d.ChangeStatus(*cmd.Status, nil, now); changed {
				e, err := event.New(event.TopicDevice, event.DeviceStatusChanged, d.ID, event.StatusChangedData{
					DeviceID:       d.ID,
					PreviousStatus: previous.String(),
					NewStatus:      d.Status.String(),
					Timestamp:      now,
				})
				if err != nil {
					return nil, err
				}
				events = append(events, e)
			}
		}
		d.UpdatedAt = now

		updated, err := event.New(event.TopicDevice, event.DeviceUpdated, d.ID, deviceData(d))
		if err != nil {
			return nil, err
		}
		events = append([]event.Envelope{updated}, events...)

		if err := s.devices.Save(txCtx, d); err != nil {
			return nil, err
		}
		if err := s.publisher.PublishBatch(txCtx, events); err != nil {
			return nil, err
		}
		return d, nil
	})
}

func (s *Service) DeleteDevice(ctx context.Context, id string) error {
	_, err := persistence.RunInTx(ctx, s.tx, func(txCtx context.Context) (struct{}, error) {
		if err := s.devices.Delete(txCtx, id); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.publish(txCtx, event.TopicDevice, event.DeviceDeleted, id, event.DeviceDeletedData{DeviceID: id})
	})
	return err
}

func (s *Service) CreateModel(ctx context.Context, cmd CreateModelCommand) (*Model, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidModel)
	}
	if cmd.LoanDays < 0 {
		return nil, fmt.Errorf("%w: loan days must not be negative", ErrInvalidModel)
	}

	return persistence.RunInTx(ctx, s.tx, func(txCtx context.Context) (*Model, error) {
		now := s.now().UTC()
		m := &Model{
			ID:          s.newID(),
			Name:        strings.TrimSpace(cmd.Name),
			Brand:       cmd.Brand,
			Category:    cmd.Category,
			Description: cmd.Description,
			LoanDays:    cmd.LoanDays,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.models.Insert(txCtx, m); err != nil {
			return nil, err
		}
		if err := s.publish(txCtx, event.TopicDeviceModel, event.DeviceModelCreated, m.ID, modelData(m)); err != nil {
			return nil, err
		}
		return m, nil
	})
}

func (s *Service) UpdateModel(ctx context.Context, cmd UpdateModelCommand) (*Model, error) {
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidModel)
	}
	if cmd.LoanDays != nil && *cmd.LoanDays < 0 {
		return nil, fmt.Errorf("%w: loan days must not be negative", ErrInvalidModel)
	}

	return persistence.RunInTx(ctx, s.tx, func(txCtx context.Context) (*Model, error) {
		m, err := s.models.GetByID(txCtx, cmd.ID)
		if err != nil {
			return nil, err
		}
		if cmd.Name != nil {
			m.Name = strings.TrimSpace(*cmd.Name)
		}
		if cmd.Brand != nil {
			m.Brand = *cmd.Brand
		}
		if cmd.Category != nil {
			m.Category = *cmd.Category
		}
		if cmd.Description != nil {
			m.Description = *cmd.Description
		}
		if cmd.LoanDays != nil {
			m.LoanDays = *cmd.LoanDays
		}
		m.UpdatedAt = s.now().UTC()

		if err := s.models.Save(txCtx, m); err != nil {
			return nil, err
		}
		if err := s.publish(txCtx, event.TopicDeviceModel, event.DeviceModelUpdated, m.ID, modelData(m)); err != nil {
			return nil, err
		}
		return m, nil
	})
}

func (s *Service) DeleteModel(ctx context.Context, id string) error {
	_, err := persistence.RunInTx(ctx, s.tx, func(txCtx context.Context) (struct{}, error) {
		n, err := s.devices.CountByModel(txCtx, id)
		if err != nil {
			return struct{}{}, err
		}
		if n > 0 {
			return struct{}{}, fmt.Errorf("%w: %d devices", ErrModelInUse, n)
		}
		if err := s.models.Delete(txCtx, id); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.publish(txCtx, event.TopicDeviceModel, event.DeviceModelDeleted, id, event.DeviceModelDeletedData{ModelID: id})
	})
	return err
}

func (s *Service) publish(ctx context.Context, topic, eventType, subject string, data any) error {
	e, err := event.New(topic, eventType, subject, data)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, e)
}

func deviceData(d *Device) event.DeviceData {
	return event.DeviceData{
		DeviceID:     d.ID,
		ModelID:      d.ModelID,
		SerialNumber: d.SerialNumber,
		Status:       d.Status.String(),
	}
}

func modelData(m *Model) event.DeviceModelData {
	return event.DeviceModelData{
		ModelID:     m.ID,
		Name:        m.Name,
		Brand:       m.Brand,
		Category:    m.Category,
		LoanDays:    m.LoanDays,
		Description: m.Description,
	}
}
