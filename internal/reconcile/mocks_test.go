package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sokol111/device-catalogue-service/internal/device"
	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
)

type mockDeviceStore struct {
	mu        sync.Mutex
	devices   map[string]device.Device
	getErr    error
	saveErr   error
	saveCalls int
}

func newMockDeviceStore(devices ...device.Device) *mockDeviceStore {
	s := &mockDeviceStore{devices: make(map[string]device.Device)}
	for _, d := range devices {
		s.devices[d.ID] = d
	}
	return s
}

func (s *mockDeviceStore) GetByID(_ context.Context, id string) (*device.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	d, ok := s.devices[id]
	if !ok {
		return nil, fmt.Errorf("failed to get device %s: %w", id, persistence.ErrEntityNotFound)
	}
	return &d, nil
}

func (s *mockDeviceStore) Save(_ context.Context, d *device.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	d.Version++
	s.devices[d.ID] = *d
	return nil
}

func (s *mockDeviceStore) get(id string) device.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices[id]
}

func (s *mockDeviceStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
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

func (p *mockPublisher) published() []event.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Envelope(nil), p.events...)
}
