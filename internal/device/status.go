package device

import (
	"strings"

	"github.com/samber/lo"
)

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusUnavailable Status = "Unavailable"
	StatusMaintenance Status = "Maintenance"
	StatusRetired     Status = "Retired"
	StatusLost        Status = "Lost"
)

var statuses = []Status{
	StatusAvailable,
	StatusUnavailable,
	StatusMaintenance,
	StatusRetired,
	StatusLost,
}

// Statuses returns every known status.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

// ParseStatus matches s against the known statuses, ignoring surrounding
// whitespace. Matching is case sensitive.
func ParseStatus(s string) (Status, bool) {
	return lo.Find(statuses, func(st Status) bool {
		return string(st) == strings.TrimSpace(s)
	})
}

func (s Status) Valid() bool {
	return lo.Contains(statuses, s)
}

func (s Status) String() string {
	return string(s)
}
