package model

import (
	"github.com/okian/skillboard/internal/domain/names"
)

// Volunteer statuses.
const (
	StatusActive           = "Active"
	StatusInactive         = "Inactive"
	StatusCoreTeamEligible = "Core Team Eligible"
)

// Volunteer is a normalized, ranked volunteer entry.
type Volunteer struct {
	Name             string     `json:"name"`
	CoursesCompleted int        `json:"coursesCompleted"`
	CredentialsUsed  int        `json:"credentialsUsed"`
	StudentsHelped   int        `json:"studentsHelped"`
	AccountOwners    string     `json:"accountOwners"`
	StudentsURLs     string     `json:"studentsUrls"`
	TotalImpact      int        `json:"totalImpact"`
	Status           string     `json:"status"`
	Rank             int        `json:"rank"`
	RankChange       RankChange `json:"rankChange,omitempty"`
	RankDiff         int        `json:"rankDiff"`
}

// Key is the identity used to match a volunteer across refreshes.
func (v Volunteer) Key() string {
	return names.Key(v.Name)
}

// Active reports whether the volunteer has any impact.
func (v Volunteer) Active() bool {
	return v.TotalImpact > 0
}
