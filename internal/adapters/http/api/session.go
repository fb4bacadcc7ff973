package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/binsight/internal/adapters/repository"
	"github.com/okian/binsight/internal/session"
)

// SessionHandler drives the session state machine over HTTP.
type SessionHandler struct {
	commands SessionCommands
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{commands: deps}
}

// selectRequest carries the scanned or manually entered user id.
type selectRequest struct {
	UserID string `json:"userId"`
}

// HandleGetSession handles GET /session requests.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.commands.Snapshot())
}

// HandleSelect handles POST /session/select requests.
func (h *SessionHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	snap, err := h.commands.SelectUser(r.Context(), strings.TrimSpace(req.UserID))
	if err != nil {
		writeSessionError(w, snap, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleRecord handles POST /session/record requests.
func (h *SessionHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	snap, err := h.commands.StartRecording(r.Context())
	if err != nil {
		writeSessionError(w, snap, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleStop handles POST /session/stop requests.
func (h *SessionHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	snap, err := h.commands.StopRecording(r.Context())
	if err != nil {
		writeSessionError(w, snap, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// writeSessionError maps session command failures to HTTP statuses. The
// snapshot is discarded; clients re-poll GET /session for current state.
func writeSessionError(w http.ResponseWriter, _ session.Snapshot, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err)
	case errors.Is(err, session.ErrNoUser):
		writeError(w, http.StatusConflict, "no_user", err)
	case errors.Is(err, session.ErrNotCancellable):
		writeError(w, http.StatusConflict, "not_cancellable", err)
	case errors.Is(err, session.ErrInvalidPhase):
		writeError(w, http.StatusConflict, "invalid_phase", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", nil)
	}
}
