package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/model"
)

// SimulateDependencies defines the interface for what-if projections.
type SimulateDependencies interface {
	// Params returns the parameters of the stored run.
	Params(ctx context.Context) (elasticity.Params, error)
	// Simulate reprojects the stored baselines under p.
	Simulate(ctx context.Context, p elasticity.Params) ([]model.YearSummary, error)
}

// SimulateHandler handles what-if projection requests.
type SimulateHandler struct {
	deps SimulateDependencies
}

// NewSimulateHandler creates a new simulate handler.
func NewSimulateHandler(deps SimulateDependencies) *SimulateHandler {
	return &SimulateHandler{deps: deps}
}

// HandleSimulate handles GET /simulate?fee=&elasticity= requests. Omitted
// parameters keep the stored run's values; the baseline fee never changes.
func (h *SimulateHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.simulate"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, err := h.deps.Params(r.Context())
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}

	q := r.URL.Query()
	if v := q.Get("fee"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil || fee <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, fmt.Errorf("fee must be a positive number, got %q", v)))
			return
		}
		p.TargetFee = fee
	}
	if v := q.Get("elasticity"); v != "" {
		e, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, fmt.Errorf("elasticity must be a number, got %q", v)))
			return
		}
		p.Elasticity = e
	}

	years, err := h.deps.Simulate(r.Context(), p)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, simulationResponse{
		Params:    p,
		FeeChange: p.FeeChange(),
		ChangePct: p.ChangePct(),
		Impact:    p.Impact(),
		Years:     years,
	})
}
