// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/skillboard/internal/adapters/mq/queue"
	"github.com/okian/skillboard/internal/adapters/repository"
	service "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/internal/domain/view"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service.
type Dependencies interface {
	LeaderboardDependencies
	RankDependencies
	VolunteerDependencies
	StatsProvider
	RefreshDependencies
	StatusProvider
}

var _ Dependencies = (*service.Service)(nil)

// Server wires HTTP routes for the read-only feed.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	refreshHandler     *RefreshHandler
	leaderboardHandler *LeaderboardHandler
	volunteerHandler   *VolunteerHandler
	rankHandler        *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(deps),
		statsHandler:       NewStatsHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		volunteerHandler:   NewVolunteerHandler(deps),
		rankHandler:        NewRankHandler(deps),
	}
}

// Routes returns the router serving every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", MetricsMiddleware(s.healthHandler.HandleStatus, "status"))
		r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

		r.Route("/leaderboard", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
			r.Get("/export.csv", MetricsMiddleware(s.leaderboardHandler.HandleExport, "leaderboard_export"))
			r.Get("/rank/{email}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
		})

		r.Route("/volunteers", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.volunteerHandler.HandleGetVolunteers, "volunteers"))
			r.Get("/export.csv", MetricsMiddleware(s.volunteerHandler.HandleExport, "volunteers_export"))
		})

		r.Post("/refresh/{board}", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
	})
	return r
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

// statusFor maps service and adapter sentinels to a status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, view.ErrUnknownCategory),
		errors.Is(err, view.ErrUnknownSort),
		errors.Is(err, view.ErrUnknownStatus),
		errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrUnknownBoard):
		return http.StatusNotFound, "unknown_board"
	case errors.Is(err, queue.ErrFull),
		errors.Is(err, service.ErrRefreshInProgress),
		errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, service.ErrStopped),
		errors.Is(err, queue.ErrClosed),
		errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeErr(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
