// Package device holds the catalogue aggregates, their Mongo repositories and
// the write-side use cases.
package device

import (
	"errors"
	"time"
)

var (
	ErrInvalidDevice   = errors.New("invalid device")
	ErrInvalidModel    = errors.New("invalid device model")
	ErrDuplicateSerial = errors.New("serial number already registered")
	ErrModelInUse      = errors.New("device model is referenced by devices")
)

// Device is a physical loanable unit.
type Device struct {
	ID           string
	ModelID      string
	SerialNumber string
	Status       Status
	// StatusSourceTime is the event time of the newest inbound event that set
	// or confirmed Status. Nil when the status was set locally or by an event
	// without time.
	StatusSourceTime *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

// ChangeStatus sets target and refreshes UpdatedAt. StatusSourceTime becomes
// sourceTime, so a local change or an event without time clears it. It
// returns the previous status and false when target equals the current
// status, leaving d untouched.
func (d *Device) ChangeStatus(target Status, sourceTime *time.Time, now time.Time) (Status, bool) {
	previous := d.Status
	if previous == target {
		return previous, false
	}
	d.Status = target
	d.UpdatedAt = now.UTC()
	d.StatusSourceTime = nil
	if sourceTime != nil {
		t := sourceTime.UTC()
		d.StatusSourceTime = &t
	}
	return previous, true
}

// ObserveSourceTime advances StatusSourceTime to sourceTime when the status
// is already current but sourceTime is newer than the stored one. Status and
// UpdatedAt are left alone. It reports whether d changed.
func (d *Device) ObserveSourceTime(sourceTime *time.Time) bool {
	if sourceTime == nil {
		return false
	}
	if d.StatusSourceTime != nil && !sourceTime.After(*d.StatusSourceTime) {
		return false
	}
	t := sourceTime.UTC()
	d.StatusSourceTime = &t
	return true
}

// IsStale reports whether an event that happened at sourceTime is older than
// the one that last set or confirmed the status.
func (d *Device) IsStale(sourceTime *time.Time) bool {
	if sourceTime == nil || d.StatusSourceTime == nil {
		return false
	}
	return sourceTime.Before(*d.StatusSourceTime)
}

// Model is a rental model shared by devices, e.g. "15 inch laptop".
type Model struct {
	ID          string
	Name        string
	Brand       string
	Category    string
	Description string
	LoanDays    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}
