package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultEmployerLimit = 10

// EmployerDependencies defines the interface for employer reads.
type EmployerDependencies interface {
	TopEmployers(ctx context.Context, n int) ([]Entry, error)
	Employer(ctx context.Context, name string) (Entry, error)
}

// EmployersHandler handles employer ranking and lookup requests.
type EmployersHandler struct {
	deps     EmployerDependencies
	maxLimit int
}

// NewEmployersHandler creates a new employers handler.
func NewEmployersHandler(deps EmployerDependencies, maxLimit int) *EmployersHandler {
	return &EmployersHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleList handles GET /employers?limit=N requests. limit defaults to 10.
func (h *EmployersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_employers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := defaultEmployerLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopEmployers(r.Context(), n)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGet handles GET /employers/{name} requests. Any spelling that
// normalizes to the employer's key matches.
func (h *EmployersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_employer"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/employers/")
	name, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(name) == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Employer(r.Context(), name)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
