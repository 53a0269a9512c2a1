package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"reportkit/internal/capture"
	"reportkit/internal/infrastructure"
)

// HealthStatus is the body of GET /api/health
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Renderer  bool      `json:"rendererAvailable"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthHandler reports service liveness and renderer availability
type HealthHandler struct {
	capture *capture.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(captureSvc *capture.Service) *HealthHandler {
	return &HealthHandler{capture: captureSvc}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Health)
	return r
}

// Health handles GET /api/health. A missing renderer degrades PNG and PDF
// output but does not fail the service, so the status stays "ok".
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthStatus{
		Status:    "ok",
		Version:   infrastructure.ServiceVersion,
		Renderer:  h.capture != nil && h.capture.Available(),
		CheckedAt: time.Now().UTC(),
	})
}
