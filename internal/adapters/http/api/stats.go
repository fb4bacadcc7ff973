package api

import (
	"net/http"

	"github.com/okian/binsight/internal/domain/stats"
)

// StatsHandler serves the aggregated kiosk statistics.
type StatsHandler struct {
	reader Reader
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{reader: deps}
}

// HandleStats handles GET /stats requests. The summary is recomputed from
// the stored collections on every call; nothing is cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}

	users, err := h.reader.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	records, err := h.reader.ListRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}

	writeJSON(w, http.StatusOK, stats.Compute(users, records))
}
