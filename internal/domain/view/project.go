// Package view derives what consumers see from a ranked set: the confirmed
// projection, text and category filters, display sorting and the view state
// reducer. Nothing here re-ranks.
package view

import (
	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/names"
	"github.com/okian/skillboard/internal/domain/scoring"
)

// Project returns a copy of in where every confirmed participant is shown as
// complete: completion 100, all but one course as badges plus one arcade
// game, tiers recomputed. Ranks are not touched. Stats, filters and export
// read the projected set.
func Project(in []model.Participant, confirmed names.Set, s *scoring.Scorer) []model.Participant {
	out := make([]model.Participant, len(in))
	total := s.TotalCourses()
	for i, p := range in {
		if !confirmed.Has(p.Name) {
			out[i] = p
			continue
		}
		p = p.Clone()
		p.Confirmed = true
		p.BadgesEarned = max(total-1, 0)
		p.ArcadeGames = 1
		p.CompletedCourses = total
		p.CompletionPercentage = 100
		p.BadgeTypes = s.Tiers(p.BadgesEarned)
		out[i] = p
	}
	return out
}
