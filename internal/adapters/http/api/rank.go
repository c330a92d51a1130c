package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/skillboard/internal/domain/model"
)

// RankDependencies defines the interface for single participant lookups.
type RankDependencies interface {
	Participant(ctx context.Context, email string) (model.Participant, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

type rankParams struct {
	Email string `validate:"required,email"`
}

// HandleGetRank handles GET /api/leaderboard/rank/{email} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p := rankParams{Email: strings.TrimSpace(email)}
	if err := validateQuery(p); err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	entry, err := h.deps.Participant(r.Context(), p.Email)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
