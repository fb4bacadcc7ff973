package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/binsight/internal/adapters/repository"
	model "github.com/okian/binsight/internal/domain/model"
)

// SettingsHandler manages the remote-vision service credentials.
type SettingsHandler struct {
	reader Reader
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps Dependencies) *SettingsHandler {
	return &SettingsHandler{reader: deps}
}

// maskedSuffixLen is how many trailing secret characters stay visible.
const maskedSuffixLen = 4

// HandleSettings handles GET /settings and PUT /settings requests.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
	}
}

func (h *SettingsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	creds, err := h.reader.Credentials(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrCredentialsNotSet) {
			writeError(w, http.StatusNotFound, "not_configured", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	creds.SecretKey = maskSecret(creds.SecretKey)
	writeJSON(w, http.StatusOK, creds)
}

func (h *SettingsHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if err := h.reader.SaveCredentials(r.Context(), creds); err != nil {
		if errors.Is(err, repository.ErrValidation) {
			writeError(w, http.StatusBadRequest, "validation", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// connectionTestResponse reports the simulated connectivity check.
type connectionTestResponse struct {
	Status string `json:"status"`
	Region string `json:"region,omitempty"`
}

// HandleTest handles POST /settings/test requests. The check is simulated:
// it verifies credentials exist and are well formed, not that the remote
// service is reachable.
func (h *SettingsHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}

	creds, err := h.reader.Credentials(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrCredentialsNotSet) {
			writeError(w, http.StatusConflict, "not_configured", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}

	writeJSON(w, http.StatusOK, connectionTestResponse{
		Status: "ok",
		Region: creds.Region,
	})
}

func maskSecret(secret string) string {
	if len(secret) <= maskedSuffixLen {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-maskedSuffixLen) + secret[len(secret)-maskedSuffixLen:]
}
