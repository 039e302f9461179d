package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMalformedEvent = errors.New("malformed event")

// ReservationEvent is published by the reservation service.
type ReservationEvent struct {
	EventType     string     `json:"eventType"`
	DeviceID      string     `json:"deviceId"`
	ReservationID string     `json:"reservationId,omitempty"`
	EventTime     *time.Time `json:"eventTime,omitempty"`
}

// AvailabilityEvent is published by the availability service.
type AvailabilityEvent struct {
	EventType string     `json:"eventType"`
	DeviceID  string     `json:"deviceId"`
	NewStatus string     `json:"newStatus"`
	Reason    string     `json:"reason,omitempty"`
	EventTime *time.Time `json:"eventTime,omitempty"`
}

// DecodeReservationEvent decodes a JSON payload. headerType, when set, wins
// over the eventType field.
func DecodeReservationEvent(data []byte, headerType string) (ReservationEvent, error) {
	var e ReservationEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if headerType != "" {
		e.EventType = headerType
	}
	e.DeviceID = strings.TrimSpace(e.DeviceID)
	if e.EventType == "" {
		return e, fmt.Errorf("%w: event type is missing", ErrMalformedEvent)
	}
	return e, nil
}

func DecodeAvailabilityEvent(data []byte, headerType string) (AvailabilityEvent, error) {
	var e AvailabilityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if headerType != "" {
		e.EventType = headerType
	}
	e.DeviceID = strings.TrimSpace(e.DeviceID)
	if e.EventType == "" {
		e.EventType = AvailabilityChanged
	}
	return e, nil
}
