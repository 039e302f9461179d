package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

type component struct {
	name      string
	ready     bool
	startedAt time.Time
	readyAt   time.Time
}

type readiness struct {
	mu               sync.RWMutex
	components       map[string]*component
	readyChan        chan struct{}
	readyOnce        sync.Once
	trafficReadyChan chan struct{}
	trafficReadyOnce sync.Once
	inKubernetes     bool
	log              *zap.Logger
}

func newReadiness(log *zap.Logger, inKubernetes bool) *readiness {
	return &readiness{
		components:       make(map[string]*component),
		readyChan:        make(chan struct{}),
		trafficReadyChan: make(chan struct{}),
		inKubernetes:     inKubernetes,
		log:              log,
	}
}

func (r *readiness) AddComponent(name string) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[name]; !exists {
		r.components[name] = &component{name: name, startedAt: time.Now()}
	}
	return func() { r.markReady(name) }
}

func (r *readiness) markReady(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comp, exists := r.components[name]
	if !exists || comp.ready {
		return
	}
	comp.ready = true
	comp.readyAt = time.Now()
	r.log.Debug("component ready", zap.String("component", name))

	for _, c := range r.components {
		if !c.ready {
			return
		}
	}

	r.readyOnce.Do(func() {
		close(r.readyChan)
		r.log.Info("all components are ready", zap.Int("component_count", len(r.components)))
		if !r.inKubernetes {
			r.markTrafficReadyLocked()
		}
	})
}

func (r *readiness) IsReady() bool {
	select {
	case <-r.readyChan:
		return true
	default:
		return false
	}
}

func (r *readiness) isTrafficReady() bool {
	select {
	case <-r.trafficReadyChan:
		return true
	default:
		return false
	}
}

func (r *readiness) GetStatus() ReadinessStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := ReadinessStatus{
		Ready:        r.IsReady(),
		TrafficReady: r.isTrafficReady(),
		Components:   make([]ComponentStatus, 0, len(r.components)),
	}
	for _, comp := range r.components {
		if status.Ready && comp.readyAt.After(status.ReadyAt) {
			status.ReadyAt = comp.readyAt
		}
		status.Components = append(status.Components, ComponentStatus{
			Name:      comp.name,
			Ready:     comp.ready,
			StartedAt: comp.startedAt,
			ReadyAt:   comp.readyAt,
		})
	}
	sort.Slice(status.Components, func(i, j int) bool {
		return status.Components[i].Name < status.Components[j].Name
	})
	return status
}

// MarkTrafficReady is a no-op until all components are ready.
func (r *readiness) MarkTrafficReady() {
	if !r.IsReady() {
		return
	}
	r.markTrafficReadyLocked()
}

func (r *readiness) markTrafficReadyLocked() {
	r.trafficReadyOnce.Do(func() {
		close(r.trafficReadyChan)
		r.log.Info("service is ready for traffic")
	})
}

func (r *readiness) WaitReady(ctx context.Context) error {
	select {
	case <-r.readyChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *readiness) WaitForTrafficReady(ctx context.Context) error {
	select {
	case <-r.trafficReadyChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
