package api

import (
	"maps"
	"net/http"
	"time"
)

// StatsProvider exposes run counters and the last run's headline numbers.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
	started  time.Time
	now      func() time.Time
}

// NewStatsHandler creates a stats handler; uptime counts from this call.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, started: time.Now(), now: time.Now}
}

// HandleStats writes the provider's stats plus the server uptime.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := make(map[string]interface{})
	if h.provider != nil {
		maps.Copy(stats, h.provider.GetStats())
	}
	stats["uptimeSeconds"] = int64(h.now().Sub(h.started).Seconds())
	writeJSON(w, http.StatusOK, stats)
}
