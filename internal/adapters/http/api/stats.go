package api

import (
	"net/http"

	service "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/internal/domain/stats"
)

// StatsProvider defines the interface for board summaries.
type StatsProvider interface {
	HasBoard(board string) bool
	ParticipantStats() stats.Participants
	VolunteerStats() stats.Volunteers
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

type statsResponse struct {
	Participants stats.Participants `json:"participants"`
	Volunteers   *stats.Volunteers  `json:"volunteers,omitempty"`
}

// HandleStats handles GET /api/stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	resp := statsResponse{Participants: h.statsProvider.ParticipantStats()}
	if h.statsProvider.HasBoard(service.BoardVolunteers) {
		v := h.statsProvider.VolunteerStats()
		resp.Volunteers = &v
	}
	writeJSON(w, http.StatusOK, resp)
}
