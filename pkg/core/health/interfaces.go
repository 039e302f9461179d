package health

import (
	"context"
	"time"
)

type ComponentStatus struct {
	Name      string    `json:"name"`
	Ready     bool      `json:"ready"`
	StartedAt time.Time `json:"started_at"`
	ReadyAt   time.Time `json:"ready_at,omitzero"`
}

type ReadinessStatus struct {
	Ready        bool              `json:"ready"`
	TrafficReady bool              `json:"traffic_ready"`
	Components   []ComponentStatus `json:"components"`
	ReadyAt      time.Time         `json:"ready_at,omitzero"`
}

// ComponentManager registers components that must become ready before the
// service is.
type ComponentManager interface {
	// AddComponent registers a component and returns the func that marks it ready.
	AddComponent(name string) func()
}

type ReadinessChecker interface {
	IsReady() bool
	GetStatus() ReadinessStatus
}

type ReadinessWaiter interface {
	// WaitReady blocks until every registered component is ready.
	WaitReady(ctx context.Context) error
	// WaitForTrafficReady blocks until the service may receive traffic.
	WaitForTrafficReady(ctx context.Context) error
}

// TrafficController flips the service to traffic-ready. Outside Kubernetes
// this happens as soon as all components are ready; inside it happens on the
// first successful readiness probe.
type TrafficController interface {
	MarkTrafficReady()
}
