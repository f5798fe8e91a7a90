// Package health provides the liveness and readiness endpoints. The full
// check also reports whether the DeepHydro service is reachable; the app
// itself stays "ok" when it is not, since uploads and exports still work
// without it.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger checks reachability of the forecast service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler provides health check endpoints.
type Handler struct {
	remote Pinger
	logger *zap.Logger
}

// NewHandler creates a health Handler. remote may be nil when no
// reachability check is wanted.
func NewHandler(remote Pinger, logger *zap.Logger) *Handler {
	return &Handler{remote: remote, logger: logger}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the Kubernetes-style probe paths directly on the
// root router.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// Check reports overall status plus per-service detail. A DeepHydro outage
// degrades the report without failing it.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Status:   "ok",
		Services: make(map[string]string),
	}

	if h.remote != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.remote.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Services["deephydro"] = "unavailable"
			h.logger.Warn("health check: deephydro unreachable", zap.Error(err))
		} else {
			resp.Services["deephydro"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Ready reports whether the service can accept requests. All state is
// in-process, so readiness does not depend on the forecast service.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ready"}`))
}

// Live reports that the process is alive.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"alive"}`))
}
