package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/pkg/metrics"
)

// StatusProvider reports per-board freshness.
type StatusProvider interface {
	Status(ctx context.Context) []service.BoardStatus
}

// HealthHandler handles health and status requests.
type HealthHandler struct {
	status  StatusProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(status StatusProvider) *HealthHandler {
	return &HealthHandler{
		status:  status,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests by serving the metrics registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// HandleStatus handles GET /api/status requests.
func (h *HealthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.Status(r.Context()))
}
