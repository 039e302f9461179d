package health

import (
	"encoding/json"
	"net/http"

	coreHealth "github.com/Sokol111/device-catalogue-service/pkg/core/health"
)

type healthHandler struct {
	readiness      coreHealth.ReadinessChecker
	trafficControl coreHealth.TrafficController
}

func newHealthHandler(r coreHealth.ReadinessChecker, t coreHealth.TrafficController) *healthHandler {
	return &healthHandler{readiness: r, trafficControl: t}
}

// IsReady answers the readiness probe. The first 200 flips the service to
// traffic-ready, which releases workers waiting for traffic.
func (h *healthHandler) IsReady(w http.ResponseWriter, r *http.Request) {
	ready := h.readiness.IsReady()
	if ready {
		h.trafficControl.MarkTrafficReady()
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}

	if r.URL.Query().Get("format") == "json" || r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(h.readiness.GetStatus())
		return
	}

	w.WriteHeader(code)
	if ready {
		_, _ = w.Write([]byte("ready"))
	} else {
		_, _ = w.Write([]byte("not ready"))
	}
}

func (h *healthHandler) IsLive(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
