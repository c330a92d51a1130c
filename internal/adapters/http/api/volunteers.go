package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/okian/skillboard/internal/adapters/repository"
	service "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/view"
)

// VolunteerDependencies defines the interface for volunteer reads.
type VolunteerDependencies interface {
	HasBoard(board string) bool
	VolunteerState() *repository.State[model.Volunteer]
	Volunteers(query string, status view.VolunteerStatus) []model.Volunteer
	ExportVolunteers(w io.Writer, query string, status view.VolunteerStatus) error
}

// VolunteerHandler handles volunteer board requests.
type VolunteerHandler struct {
	deps VolunteerDependencies
	now  func() time.Time
}

// NewVolunteerHandler creates a new volunteer handler.
func NewVolunteerHandler(deps VolunteerDependencies) *VolunteerHandler {
	return &VolunteerHandler{deps: deps, now: time.Now}
}

type volunteerQuery struct {
	Query  string `validate:"max=200"`
	Status string `validate:"omitempty,oneof=all active inactive core-team"`
}

type volunteersResponse struct {
	Board     string            `json:"board"`
	Version   uint64            `json:"version"`
	UpdatedAt time.Time         `json:"updatedAt,omitzero"`
	FromCache bool              `json:"fromCache"`
	Total     int               `json:"total"`
	Count     int               `json:"count"`
	Entries   []model.Volunteer `json:"entries"`
}

func (h *VolunteerHandler) params(op string, r *http.Request) (string, view.VolunteerStatus, error) {
	if !h.deps.HasBoard(service.BoardVolunteers) {
		return "", "", WrapKind(op, service.ErrUnknownBoard, nil)
	}
	q := volunteerQuery{Query: r.URL.Query().Get("q"), Status: r.URL.Query().Get("status")}
	if err := validateQuery(q); err != nil {
		return "", "", WrapKind(op, ErrBadRequest, err)
	}
	st, err := view.ParseVolunteerStatus(q.Status)
	if err != nil {
		return "", "", WrapKind(op, ErrBadRequest, err)
	}
	return q.Query, st, nil
}

// HandleGetVolunteers handles GET /api/volunteers?q=&status= requests.
func (h *VolunteerHandler) HandleGetVolunteers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_volunteers"
	query, status, err := h.params(op, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	resp := volunteersResponse{Board: service.BoardVolunteers, Entries: h.deps.Volunteers(query, status)}
	if st := h.deps.VolunteerState(); st != nil {
		resp.Version = st.Version
		resp.UpdatedAt = st.UpdatedAt
		resp.FromCache = st.FromCache
		resp.Total = st.Len()
	}
	resp.Count = len(resp.Entries)
	writeJSON(w, http.StatusOK, resp)
}

// HandleExport handles GET /api/volunteers/export.csv.
func (h *VolunteerHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_volunteers"
	query, status, err := h.params(op, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if h.deps.VolunteerState() == nil {
		writeErr(w, NewKind(op, ErrUnavailable))
		return
	}
	var buf bytes.Buffer
	if err := h.deps.ExportVolunteers(&buf, query, status); err != nil {
		writeErr(w, err)
		return
	}
	writeCSV(w, "volunteers", h.now(), &buf)
}
