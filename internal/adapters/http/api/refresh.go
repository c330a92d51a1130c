package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/skillboard/internal/adapters/mq/queue"
)

// RefreshDependencies defines the interface for manual refresh triggers.
type RefreshDependencies interface {
	Trigger(ctx context.Context, board string, reason queue.Reason) error
}

// RefreshHandler handles manual refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type ackResponse struct {
	Board  string `json:"board"`
	Status string `json:"status"`
}

// HandleRefresh handles POST /api/refresh/{board}. A refresh already waiting
// for the board absorbs the request.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	board := chi.URLParam(r, "board")
	err := h.deps.Trigger(r.Context(), board, queue.ReasonManual)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, ackResponse{Board: board, Status: "accepted"})
	case errors.Is(err, queue.ErrPending):
		writeJSON(w, http.StatusAccepted, ackResponse{Board: board, Status: "pending"})
	case errors.Is(err, queue.ErrFull):
		writeErr(w, WrapKind(op, ErrBackpressure, err))
	default:
		writeErr(w, err)
	}
}
