package api

import (
	"net/http"

	"github.com/okian/binsight/internal/export"
)

// RecordsHandler serves the classification record list and its CSV export.
type RecordsHandler struct {
	reader Reader
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps Dependencies) *RecordsHandler {
	return &RecordsHandler{reader: deps}
}

// HandleGetRecords handles GET /records requests. Records come back most
// recent first.
func (h *RecordsHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	records, err := h.reader.ListRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleExport handles GET /records/export requests, returning the record
// table as a downloadable CSV.
func (h *RecordsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	records, err := h.reader.ListRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="waste_segregation_records.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.RecordsCSV(records)))
}
