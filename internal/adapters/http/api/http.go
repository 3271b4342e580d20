// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/feeshock/internal/adapters/repository"
	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SummaryDependencies
	EmployerDependencies
	SimulateDependencies
}

// Entry mirrors the read shape returned by employer queries.
type Entry = repository.Entry

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	summaryHandler   *SummaryHandler
	employersHandler *EmployersHandler
	simulateHandler  *SimulateHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// GET /employers?limit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		summaryHandler:   NewSummaryHandler(deps),
		employersHandler: NewEmployersHandler(deps, maxLimit),
		simulateHandler:  NewSimulateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/summary/years", MetricsMiddleware(s.summaryHandler.HandleYears, "summary_years"))
	mux.HandleFunc("/summary/sectors", MetricsMiddleware(s.summaryHandler.HandleSectors, "summary_sectors"))
	mux.HandleFunc("/employers", MetricsMiddleware(s.employersHandler.HandleList, "employers"))
	mux.HandleFunc("/employers/", MetricsMiddleware(s.employersHandler.HandleGet, "employer"))
	mux.HandleFunc("/simulate", MetricsMiddleware(s.simulateHandler.HandleSimulate, "simulate"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// simulationResponse is the body of GET /simulate.
type simulationResponse struct {
	elasticity.Params
	FeeChange float64             `json:"fee_change"`
	ChangePct float64             `json:"change_pct"`
	Impact    elasticity.Impact   `json:"impact"`
	Years     []model.YearSummary `json:"years"`
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

// writeUpstreamError maps store and projection errors to HTTP statuses.
func writeUpstreamError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "not_ready", WrapKind(op, ErrNotReady, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, elasticity.ErrInvalidParams):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
