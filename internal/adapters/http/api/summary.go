package api

import (
	"context"
	"net/http"

	"github.com/okian/feeshock/internal/domain/model"
)

// SummaryDependencies defines the interface for summary table reads.
type SummaryDependencies interface {
	Years(ctx context.Context) ([]model.YearSummary, error)
	Sectors(ctx context.Context) ([]model.SectorSummary, error)
}

// SummaryHandler serves the derived tables of the last run.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleYears handles GET /summary/years requests.
func (h *SummaryHandler) HandleYears(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_years"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	years, err := h.deps.Years(r.Context())
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, years)
}

// HandleSectors handles GET /summary/sectors requests.
func (h *SummaryHandler) HandleSectors(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_sectors"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sectors, err := h.deps.Sectors(r.Context())
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sectors)
}
