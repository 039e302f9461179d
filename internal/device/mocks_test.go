package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
)

type mockDeviceRepository struct {
	mu        sync.Mutex
	devices   map[string]Device
	saveErr   error
	saveCalls int
}

func newMockDeviceRepository(devices ...Device) *mockDeviceRepository {
	r := &mockDeviceRepository{devices: make(map[string]Device)}
	for _, d := range devices {
		r.devices[d.ID] = d
	}
	return r
}

func (r *mockDeviceRepository) GetByID(_ context.Context, id string) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return nil, fmt.Errorf("failed to get device %s: %w", id, persistence.ErrEntityNotFound)
	}
	return &d, nil
}

func (r *mockDeviceRepository) Insert(_ context.Context, d *Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.devices {
		if d.SerialNumber != "" && existing.SerialNumber == d.SerialNumber {
			return ErrDuplicateSerial
		}
	}
	r.devices[d.ID] = *d
	return nil
}

func (r *mockDeviceRepository) Save(_ context.Context, d *Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, ok := r.devices[d.ID]
	if !ok {
		return persistence.ErrEntityNotFound
	}
	if stored.Version != d.Version {
		return persistence.ErrOptimisticLocking
	}
	d.Version++
	r.devices[d.ID] = *d
	return nil
}

func (r *mockDeviceRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[id]; !ok {
		return persistence.ErrEntityNotFound
	}
	delete(r.devices, id)
	return nil
}

func (r *mockDeviceRepository) CountByModel(_ context.Context, modelID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.devices {
		if d.ModelID == modelID {
			n++
		}
	}
	return n, nil
}

type mockModelRepository struct {
	mu     sync.Mutex
	models map[string]Model
}

func newMockModelRepository(models ...Model) *mockModelRepository {
	r := &mockModelRepository{models: make(map[string]Model)}
	for _, m := range models {
		r.models[m.ID] = m
	}
	return r
}

func (r *mockModelRepository) GetByID(_ context.Context, id string) (*Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[id]
	if !ok {
		return nil, fmt.Errorf("failed to get device model %s: %w", id, persistence.ErrEntityNotFound)
	}
	return &m, nil
}

func (r *mockModelRepository) Insert(_ context.Context, m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.ID] = *m
	return nil
}

func (r *mockModelRepository) Save(_ context.Context, m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.Version++
	r.models[m.ID] = *m
	return nil
}

func (r *mockModelRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[id]; !ok {
		return persistence.ErrEntityNotFound
	}
	delete(r.models, id)
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []event.Envelope
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, e event.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *mockPublisher) PublishBatch(ctx context.Context, events []event.Envelope) error {
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (p *mockPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType)
	}
	return types
}
