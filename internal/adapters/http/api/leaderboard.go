package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/skillboard/internal/adapters/repository"
	service "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/view"
)

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	ParticipantState() *repository.State[model.Participant]
	Leaderboard(vs view.State) []model.Participant
	TopParticipants(ctx context.Context, vs view.State, limit int) ([]model.Participant, error)
	ExportParticipants(ctx context.Context, w io.Writer, vs view.State, limit int) error
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
	now  func() time.Time
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, now: time.Now}
}

type leaderboardQuery struct {
	Query  string `validate:"max=200"`
	Filter string `validate:"omitempty,oneof=all beginner advanced complete proof-sent"`
	Sort   string `validate:"omitempty,oneof=rank name completion badges"`
	Limit  int    `validate:"omitempty,min=1,max=10000"`
}

// leaderboardResponse is the JSON body of GET /api/leaderboard.
type leaderboardResponse struct {
	Board     string              `json:"board"`
	Version   uint64              `json:"version"`
	UpdatedAt time.Time           `json:"updatedAt,omitzero"`
	FromCache bool                `json:"fromCache"`
	Total     int                 `json:"total"`
	Count     int                 `json:"count"`
	Entries   []model.Participant `json:"entries"`
}

// viewState turns q, filter and sort parameters into a view.State and
// returns the optional limit, zero when absent.
func viewState(op string, r *http.Request) (view.State, int, error) {
	params := r.URL.Query()
	q := leaderboardQuery{
		Query:  params.Get("q"),
		Filter: params.Get("filter"),
		Sort:   params.Get("sort"),
	}
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return view.State{}, 0, WrapKind(op, ErrBadRequest, fmt.Errorf("%w: %q", repository.ErrInvalidLimit, raw))
		}
		q.Limit = n
	}
	if err := validateQuery(q); err != nil {
		return view.State{}, 0, WrapKind(op, ErrBadRequest, err)
	}
	category, err := view.ParseCategory(q.Filter)
	if err != nil {
		return view.State{}, 0, WrapKind(op, ErrBadRequest, err)
	}
	sort, err := view.ParseSort(q.Sort)
	if err != nil {
		return view.State{}, 0, WrapKind(op, ErrBadRequest, err)
	}
	return view.Reduce(view.Initial(),
		view.SetQuery{Query: q.Query},
		view.SetCategory{Category: category},
		view.SetSort{Sort: sort},
	), q.Limit, nil
}

// HandleGetLeaderboard handles GET /api/leaderboard?q=&filter=&sort=&limit=
// requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	vs, limit, err := viewState(op, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	resp := leaderboardResponse{Board: service.BoardParticipants}
	if limit > 0 {
		if resp.Entries, err = h.deps.TopParticipants(r.Context(), vs, limit); err != nil {
			writeErr(w, err)
			return
		}
	} else {
		resp.Entries = h.deps.Leaderboard(vs)
	}
	if st := h.deps.ParticipantState(); st != nil {
		resp.Version = st.Version
		resp.UpdatedAt = st.UpdatedAt
		resp.FromCache = st.FromCache
		resp.Total = st.Len()
	}
	resp.Count = len(resp.Entries)
	writeJSON(w, http.StatusOK, resp)
}

// HandleExport handles GET /api/leaderboard/export.csv with the same
// parameters as the JSON view.
func (h *LeaderboardHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_leaderboard"
	vs, limit, err := viewState(op, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if h.deps.ParticipantState() == nil {
		writeErr(w, NewKind(op, ErrUnavailable))
		return
	}
	var buf bytes.Buffer
	if err := h.deps.ExportParticipants(r.Context(), &buf, vs, limit); err != nil {
		writeErr(w, err)
		return
	}
	writeCSV(w, "leaderboard", h.now(), &buf)
}
