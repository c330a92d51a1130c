package view

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/skillboard/internal/domain/model"
)

// VolunteerStatus selects volunteers by status.
type VolunteerStatus string

// Volunteer status filters.
const (
	StatusAll      VolunteerStatus = "all"
	StatusActive   VolunteerStatus = "active"
	StatusInactive VolunteerStatus = "inactive"
	StatusCoreTeam VolunteerStatus = "core-team"
)

// ParseVolunteerStatus validates a status filter; empty means all.
func ParseVolunteerStatus(s string) (VolunteerStatus, error) {
	switch v := VolunteerStatus(strings.TrimSpace(s)); v {
	case "":
		return StatusAll, nil
	case StatusAll, StatusActive, StatusInactive, StatusCoreTeam:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

func volunteerIn(v model.Volunteer, st VolunteerStatus) bool {
	switch st {
	case StatusActive:
		return v.Active()
	case StatusInactive:
		return !v.Active()
	case StatusCoreTeam:
		return v.Status == model.StatusCoreTeamEligible
	default:
		return true
	}
}

// FilterVolunteers keeps volunteers whose name or account owners contain
// query and whose status matches. Input order is preserved.
func FilterVolunteers(in []model.Volunteer, query string, st VolunteerStatus) []model.Volunteer {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	out := make([]model.Volunteer, 0, len(in))
	for _, v := range in {
		if q != "" && !strings.Contains(fold.String(v.Name), q) && !strings.Contains(fold.String(v.AccountOwners), q) {
			continue
		}
		if volunteerIn(v, st) {
			out = append(out, v)
		}
	}
	return out
}
