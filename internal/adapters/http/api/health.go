package api

import (
	"net/http"

	"github.com/okian/navne/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessProvider reports whether the service can answer predictions.
type ReadinessProvider interface {
	Ready() bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps ReadinessProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps ReadinessProvider) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz. It answers 503 until the name lists are loaded.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if !h.deps.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// newMetricsHandler serves the service registry in the Prometheus exposition format.
func newMetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
