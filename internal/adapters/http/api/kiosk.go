package api

import (
	"net/http"
)

// kioskHandler serves the operator-facing kiosk page.
type kioskHandler struct{}

// newKioskHandler creates a new kiosk handler.
func newKioskHandler() *kioskHandler {
	return &kioskHandler{}
}

// HandleKiosk handles GET /kiosk requests.
// Returns an HTML page that polls /session and drives the kiosk flow
// through the session endpoints.
func (h *kioskHandler) HandleKiosk(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, kioskFS, "kiosk.html")
}
