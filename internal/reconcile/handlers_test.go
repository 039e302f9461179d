package reconcile

import (
	"context"
	"testing"

	"github.com/Sokol111/device-catalogue-service/internal/device"
	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationTarget(t *testing.T) {
	tests := []struct {
		eventType string
		want      device.Status
		wantOK    bool
	}{
		{ReservationCreated, device.StatusUnavailable, true},
		{ReservationCollected, device.StatusUnavailable, true},
		{ReservationReturned, device.StatusAvailable, true},
		{ReservationCancelled, device.StatusAvailable, true},
		{ReservationExpired, device.StatusAvailable, true},
		{"Created", device.StatusUnavailable, true},
		{"Reservation.Extended", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			got, ok := ReservationTarget(tt.eventType)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Len(t, ReservationEventTypes(), 5)
}

func TestReservationHandler(t *testing.T) {
	t.Run("created makes available device unavailable", func(t *testing.T) {
		store := newMockDeviceStore(device.Device{ID: "d1", Status: device.StatusAvailable})
		pub := &mockPublisher{}
		h := NewReservationHandler(newTestReconciler(store, pub, Config{}))

		outcome, err := h.Handle(context.Background(), ReservationEvent{EventType: ReservationCreated, DeviceID: "d1"})

		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, outcome)
		assert.Equal(t, device.StatusUnavailable, store.get("d1").Status)

		events := pub.published()
		require.Len(t, events, 1)
		data := statusChanged(t, events[0])
		assert.Equal(t, "Available", data.PreviousStatus)
		assert.Equal(t, "Unavailable", data.NewStatus)
	})

	t.Run("same event twice writes once", func(t *testing.T) {
		store := newMockDeviceStore(device.Device{ID: "d1", Status: device.StatusAvailable})
		pub := &mockPublisher{}
		h := NewReservationHandler(newTestReconciler(store, pub, Config{}))
		e := ReservationEvent{EventType: ReservationCreated, DeviceID: "d1"}

		_, err := h.Handle(context.Background(), e)
		require.NoError(t, err)
		writes, events := store.writes(), len(pub.published())

		outcome, err := h.Handle(context.Background(), e)

		require.NoError(t, err)
		assert.Equal(t, OutcomeUnchanged, outcome)
		assert.Equal(t, writes, store.writes())
		assert.Len(t, pub.published(), events)
	})

	t.Run("unknown event type is ignored", func(t *testing.T) {
		store := newMockDeviceStore(device.Device{ID: "d1", Status: device.StatusAvailable})
		pub := &mockPublisher{}
		h := NewReservationHandler(newTestReconciler(store, pub, Config{}))

		outcome, err := h.Handle(context.Background(), ReservationEvent{EventType: "Reservation.Extended", DeviceID: "d1"})

		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, outcome)
		assert.Zero(t, store.writes())
	})

	t.Run("returned makes device available", func(t *testing.T) {
		store := newMockDeviceStore(device.Device{ID: "d1", Status: device.StatusUnavailable})
		h := NewReservationHandler(newTestReconciler(store, &mockPublisher{}, Config{}))

		_, err := h.Handle(context.Background(), ReservationEvent{EventType: ReservationReturned, DeviceID: "d1"})

		require.NoError(t, err)
		assert.Equal(t, device.StatusAvailable, store.get("d1").Status)
	})
}

func TestAvailabilityHandler(t *testing.T) {
	t.Run("applies supplied status", func(t *testing.T) {
		store := newMockDeviceStore(device.Device{ID: "d1", Status: device.StatusAvailable})
		pub := &mockPublisher{}
		h := NewAvailabilityHandler(newTestReconciler(store, pub, Config{}))

		outcome, err := h.Handle(context.Background(), AvailabilityEvent{EventType: AvailabilityChanged, DeviceID: "d1", NewStatus: "Maintenance"})

		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, outcome)
		assert.Equal(t, device.StatusMaintenance, store.get("d1").Status)
		require.Len(t, pub.published(), 1)
		assert.Equal(t, event.DeviceStatusChanged, pub.published()[0].EventType)
	})

	t.Run("bogus status changes nothing", func(t *testing.T) {
		store := newMockDeviceStore(device.Device{ID: "d1", Status: device.StatusAvailable})
		pub := &mockPublisher{}
		h := NewAvailabilityHandler(newTestReconciler(store, pub, Config{}))

		outcome, err := h.Handle(context.Background(), AvailabilityEvent{EventType: AvailabilityChanged, DeviceID: "d1", NewStatus: "Bogus"})

		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, outcome)
		assert.Equal(t, device.StatusAvailable, store.get("d1").Status)
		assert.Zero(t, store.writes())
		assert.Empty(t, pub.published())
	})

	t.Run("other event type is ignored", func(t *testing.T) {
		store := newMockDeviceStore(device.Device{ID: "d1", Status: device.StatusAvailable})
		h := NewAvailabilityHandler(newTestReconciler(store, &mockPublisher{}, Config{}))

		outcome, err := h.Handle(context.Background(), AvailabilityEvent{EventType: "Availability.Audited", DeviceID: "d1", NewStatus: "Lost"})

		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, outcome)
	})
}
