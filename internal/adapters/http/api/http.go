// Package api declares HTTP contracts and route registration helpers for
// the kiosk service.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	model "github.com/okian/binsight/internal/domain/model"
	"github.com/okian/binsight/internal/registrar"
	"github.com/okian/binsight/internal/session"
)

// SessionCommands is the slice of the session controller the handlers
// drive.
type SessionCommands interface {
	Snapshot() session.Snapshot
	SelectUser(ctx context.Context, id string) (session.Snapshot, error)
	StartRecording(ctx context.Context) (session.Snapshot, error)
	StopRecording(ctx context.Context) (session.Snapshot, error)
}

// Enroller registers new users.
type Enroller interface {
	Register(ctx context.Context, user model.User) (registrar.Registration, error)
}

// Reader exposes the persisted kiosk state the read endpoints need.
type Reader interface {
	FindUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListRecords(ctx context.Context) ([]model.Record, error)
	SaveCredentials(ctx context.Context, creds model.Credentials) error
	Credentials(ctx context.Context) (model.Credentials, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionCommands
	Enroller
	Reader
}

// Server wires HTTP routes for the kiosk API.
type Server struct {
	usersHandler    *UsersHandler
	sessionHandler  *SessionHandler
	recordsHandler  *RecordsHandler
	statsHandler    *StatsHandler
	settingsHandler *SettingsHandler
	healthHandler   *HealthHandler
	kioskHandler    *kioskHandler
	qrDir           string
}

// NewServer creates an API server serving QR badges from qrDir.
func NewServer(deps Dependencies, qrDir string) *Server {
	return &Server{
		usersHandler:    NewUsersHandler(deps),
		sessionHandler:  NewSessionHandler(deps),
		recordsHandler:  NewRecordsHandler(deps),
		statsHandler:    NewStatsHandler(deps),
		settingsHandler: NewSettingsHandler(deps),
		healthHandler:   NewHealthHandler(),
		kioskHandler:    newKioskHandler(),
		qrDir:           qrDir,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/kiosk", s.kioskHandler.HandleKiosk)
	mux.HandleFunc("/users", MetricsMiddleware(s.usersHandler.HandleUsers, "users"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleGetUser, "users_by_id"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleGetSession, "session"))
	mux.HandleFunc("/session/select", MetricsMiddleware(s.sessionHandler.HandleSelect, "session_select"))
	mux.HandleFunc("/session/record", MetricsMiddleware(s.sessionHandler.HandleRecord, "session_record"))
	mux.HandleFunc("/session/stop", MetricsMiddleware(s.sessionHandler.HandleStop, "session_stop"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandleGetRecords, "records"))
	mux.HandleFunc("/records/export", MetricsMiddleware(s.recordsHandler.HandleExport, "records_export"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/settings", MetricsMiddleware(s.settingsHandler.HandleSettings, "settings"))
	mux.HandleFunc("/settings/test", MetricsMiddleware(s.settingsHandler.HandleTest, "settings_test"))
	mux.Handle("/static/qr/",
		http.StripPrefix("/static/qr/", http.FileServer(http.Dir(s.qrDir))))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
