// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/navne/internal/app"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PredictDependencies
	StatsProvider

	// Ready reports whether the name lists have been loaded.
	Ready() bool
}

// Prediction mirrors the read shape returned by predictions.
type Prediction = service.Prediction

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	predictHandler *PredictHandler
	metricsHandler http.Handler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxBatchSize int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		predictHandler: NewPredictHandler(deps, maxBatchSize),
		metricsHandler: newMetricsHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", chain(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", chain(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", chain(s.predictHandler.HandlePredict, "predict"))
	mux.Handle("/metrics", s.metricsHandler)
}

func chain(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(next, endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
