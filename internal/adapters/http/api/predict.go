package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/navne/internal/app"
)

// maxBodyBytes bounds POST /predict request bodies.
const maxBodyBytes = 1 << 20

// PredictDependencies defines the interface for prediction operations.
type PredictDependencies interface {
	Predict(ctx context.Context, name string) (Prediction, error)
	PredictBatch(ctx context.Context, names []string) ([]Prediction, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps         PredictDependencies
	maxBatchSize int
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies, maxBatchSize int) *PredictHandler {
	return &PredictHandler{deps: deps, maxBatchSize: maxBatchSize}
}

type batchRequest struct {
	Names []string `json:"names"`
}

type batchResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// HandlePredict serves GET /predict?name=... and POST /predict {"names": [...]}.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *PredictHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("name") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing name", ErrBadRequest))
		return
	}
	p, err := h.deps.Predict(r.Context(), q.Get("name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PredictHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if req.Names == nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing names", ErrBadRequest))
		return
	}
	if len(req.Names) > h.maxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large",
			fmt.Errorf("%w: %d names exceeds limit of %d", ErrBadRequest, len(req.Names), h.maxBatchSize))
		return
	}
	ps, err := h.deps.PredictBatch(r.Context(), req.Names)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Predictions: ps})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotStarted) {
		writeError(w, http.StatusServiceUnavailable, "not_ready", ErrNotReady)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
