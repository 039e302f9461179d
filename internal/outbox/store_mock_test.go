package outbox

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/event"
)

// mockStore is an in-memory Store with the same ordering rules as the Mongo one.
type mockStore struct {
	mu        sync.Mutex
	messages  map[string]*Message
	saveErr   error
	listErr   error
	markErr   error
	saveCalls int
	now       func() time.Time
}

func newMockStore() *mockStore {
	return &mockStore{
		messages: make(map[string]*Message),
		now:      time.Now,
	}
}

func (m *mockStore) Save(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *msg
	m.messages[msg.ID] = &cp
	return nil
}

func (m *mockStore) ListUnprocessed(_ context.Context, batchSize int) ([]*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	var out []*Message
	for _, msg := range m.messages {
		if !msg.Processed {
			cp := *msg
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EventTime.Before(out[j].EventTime)
	})
	if len(out) > batchSize {
		out = out[:batchSize]
	}
	return out, nil
}

func (m *mockStore) MarkAsProcessed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.markErr != nil {
		return m.markErr
	}
	if msg, ok := m.messages[id]; ok {
		msg.markProcessed(m.now(), time.Hour)
		msg.Version++
	}
	return nil
}

func (m *mockStore) MarkAsFailed(_ context.Context, id string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.markErr != nil {
		return m.markErr
	}
	if msg, ok := m.messages[id]; ok {
		msg.markFailed(reason)
		msg.Version++
	}
	return nil
}

func (m *mockStore) get(id string) Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.messages[id]
}

func (m *mockStore) add(id string, eventTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[id] = &Message{
		ID:          id,
		Topic:       event.TopicDevice,
		EventType:   event.DeviceStatusChanged,
		Subject:     "device-" + id,
		Data:        []byte(`{}`),
		DataVersion: event.DefaultDataVersion,
		EventTime:   eventTime,
	}
}

// mockLivePublisher records published envelopes and fails for selected ids.
type mockLivePublisher struct {
	mu        sync.Mutex
	published []event.Envelope
	failIDs   map[string]error
	disabled  bool
}

func newMockLivePublisher() *mockLivePublisher {
	return &mockLivePublisher{failIDs: make(map[string]error)}
}

func (p *mockLivePublisher) Publish(_ context.Context, e event.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err, ok := p.failIDs[e.ID]; ok {
		return err
	}
	p.published = append(p.published, e)
	return nil
}

func (p *mockLivePublisher) PublishBatch(ctx context.Context, events []event.Envelope) error {
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (p *mockLivePublisher) Enabled() bool {
	return !p.disabled
}

func (p *mockLivePublisher) fail(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failIDs[id] = err
}

func (p *mockLivePublisher) recover(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failIDs, id)
}

func (p *mockLivePublisher) publishedIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.published))
	for _, e := range p.published {
		ids = append(ids, e.ID)
	}
	return ids
}
