package reconcile

import (
	"strings"

	"github.com/Sokol111/device-catalogue-service/internal/device"
	"github.com/samber/lo"
)

const (
	ReservationCreated   = "Reservation.Created"
	ReservationCollected = "Reservation.Collected"
	ReservationReturned  = "Reservation.Returned"
	ReservationCancelled = "Reservation.Cancelled"
	ReservationExpired   = "Reservation.Expired"

	AvailabilityChanged = "Availability.Changed"
)

var reservationTargets = map[string]device.Status{
	ReservationCreated:   device.StatusUnavailable,
	ReservationCollected: device.StatusUnavailable,
	ReservationReturned:  device.StatusAvailable,
	ReservationCancelled: device.StatusAvailable,
	ReservationExpired:   device.StatusAvailable,
}

// ReservationTarget maps a reservation event type to the device status it
// implies. The "Reservation." prefix is optional.
func ReservationTarget(eventType string) (device.Status, bool) {
	eventType = strings.TrimSpace(eventType)
	if !strings.HasPrefix(eventType, "Reservation.") {
		eventType = "Reservation." + eventType
	}
	target, ok := reservationTargets[eventType]
	return target, ok
}

// ReservationEventTypes lists the reservation event types that change status.
func ReservationEventTypes() []string {
	return lo.Keys(reservationTargets)
}

// AvailabilityTarget maps the status reported by the availability service.
func AvailabilityTarget(status string) (device.Status, bool) {
	return device.ParseStatus(status)
}
