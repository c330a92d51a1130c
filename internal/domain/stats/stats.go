// Package stats aggregates a projected set into the summary shown above the
// board.
package stats

import (
	"cmp"
	"slices"

	"github.com/okian/skillboard/internal/domain/model"
)

const (
	noName             = "-"
	avgTimePerBadge    = "2-4 hrs"
	avgTimeUnknown     = "N/A"
	aboveHalfFrom      = 50
	needHelpBelow      = 25
	todayShareDivisor  = 20 // 5%
	defaultTier1Target = 100
)

// Participants is the participant summary.
type Participants struct {
	TotalParticipants      int    `json:"totalParticipants"`
	TotalBadges            int    `json:"totalBadges"`
	AverageCompletion      int    `json:"averageCompletion"`
	TopPerformer           string `json:"topPerformer"`
	Tier1Count             int    `json:"tier1Count"`
	Tier1Limit             int    `json:"tier1Limit"`
	Tier1Progress          int    `json:"tier1Progress"`
	SwagWinnersCount       int    `json:"swagWinnersCount"`
	ActiveParticipants     int    `json:"activeParticipants"`
	CompletionRate         int    `json:"completionRate"`
	AvgTimePerBadge        string `json:"avgTimePerBadge"`
	AverageBadgesPerPerson int    `json:"averageBadgesPerPerson"`
	MostImprovedStudent    string `json:"mostImprovedStudent"`
	StudentsAbove50        int    `json:"studentsAbove50"`
	TodayCompletions       int    `json:"todayCompletions"`
	StudentsNeedHelp       int    `json:"studentsNeedHelp"`
}

// Volunteers is the volunteer summary.
type Volunteers struct {
	TotalVolunteers     int    `json:"totalVolunteers"`
	ActiveVolunteers    int    `json:"activeVolunteers"`
	TotalCourses        int    `json:"totalCourses"`
	TotalCredentials    int    `json:"totalCredentials"`
	TotalStudentsHelped int    `json:"totalStudentsHelped"`
	TotalImpact         int    `json:"totalImpact"`
	TopVolunteer        string `json:"topVolunteer"`
	CoreTeamCount       int    `json:"coreTeamCount"`
}

// roundDiv returns round(a/b) for non-negative a and positive b, halves up.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}

// ForParticipants summarizes a projected participant set. tier1Limit is the
// tier-1 target used for Tier1Progress; non-positive means 100.
func ForParticipants(list []model.Participant, tier1Limit int) Participants {
	if tier1Limit <= 0 {
		tier1Limit = defaultTier1Target
	}
	s := Participants{
		TopPerformer:        noName,
		MostImprovedStudent: noName,
		AvgTimePerBadge:     avgTimeUnknown,
		Tier1Limit:          tier1Limit,
	}
	n := len(list)
	if n == 0 {
		return s
	}

	var sumCompletion, sumCompleted, possible int
	for _, p := range list {
		s.TotalBadges += p.BadgesEarned
		sumCompletion += p.CompletionPercentage
		sumCompleted += p.CompletedCourses
		possible += p.TotalCourses
		if p.Rank == 1 {
			s.TopPerformer = p.Name
		}
		if p.CompletionPercentage == 100 {
			s.Tier1Count++
		}
		if p.Confirmed {
			s.SwagWinnersCount++
		}
		if p.CompletedCourses > 0 {
			s.ActiveParticipants++
		}
		if p.CompletionPercentage >= aboveHalfFrom {
			s.StudentsAbove50++
		}
		if p.CompletionPercentage > 0 && p.CompletionPercentage < needHelpBelow {
			s.StudentsNeedHelp++
		}
	}

	s.TotalParticipants = n
	s.AverageCompletion = roundDiv(sumCompletion, n)
	if possible > 0 {
		s.CompletionRate = roundDiv(100*sumCompleted, possible)
	}
	s.AvgTimePerBadge = avgTimePerBadge
	s.AverageBadgesPerPerson = roundDiv(s.TotalBadges, n)
	s.TodayCompletions = min(s.TotalBadges, roundDiv(s.TotalBadges, todayShareDivisor))
	s.Tier1Progress = min(100, roundDiv(100*s.Tier1Count, tier1Limit))

	// Highest completion still in progress; stable so ties go to the better rank.
	byCompletion := slices.Clone(list)
	slices.SortStableFunc(byCompletion, func(a, b model.Participant) int {
		return cmp.Compare(b.CompletionPercentage, a.CompletionPercentage)
	})
	s.MostImprovedStudent = s.TopPerformer
	for _, p := range byCompletion {
		if p.CompletionPercentage > 0 && p.CompletionPercentage < 100 {
			s.MostImprovedStudent = p.Name
			break
		}
	}
	return s
}

// ForVolunteers summarizes a ranked volunteer set.
func ForVolunteers(list []model.Volunteer) Volunteers {
	s := Volunteers{TotalVolunteers: len(list), TopVolunteer: noName}
	for _, v := range list {
		if v.Active() {
			s.ActiveVolunteers++
		}
		if v.Status == model.StatusCoreTeamEligible {
			s.CoreTeamCount++
		}
		if v.Rank == 1 && v.Active() {
			s.TopVolunteer = v.Name
		}
		s.TotalCourses += v.CoursesCompleted
		s.TotalCredentials += v.CredentialsUsed
		s.TotalStudentsHelped += v.StudentsHelped
		s.TotalImpact += v.TotalImpact
	}
	return s
}
