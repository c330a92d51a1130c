// Package ranking orders normalized entities and assigns dense ranks.
//
// Participants: pinned names first (by pinned position), then badges
// descending, then arcade games descending. Volunteers: total impact
// descending. Both sorts are stable, so ties keep input order, and ranks are
// always 1..N with no gaps.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/names"
)

const defaultCoreTeamThreshold = 3

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithOverrides pins names to fixed positions ahead of everyone else.
func WithOverrides(o names.RankOverrides) Option {
	return func(r *Ranker) {
		r.overrides = o
	}
}

// WithCoreTeamThreshold sets how many top active volunteers become core team eligible.
func WithCoreTeamThreshold(k int) Option {
	return func(r *Ranker) {
		if k >= 0 {
			r.coreTeam = k
		}
	}
}

// Ranker is immutable after New and safe for concurrent use.
type Ranker struct {
	overrides names.RankOverrides
	coreTeam  int
}

// New creates a Ranker with configuration options.
func New(opts ...Option) *Ranker {
	r := &Ranker{coreTeam: defaultCoreTeamThreshold}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type pinned struct {
	p   model.Participant
	pos int
	ok  bool
}

// Participants returns a ranked copy of in. The input is not modified.
func (r *Ranker) Participants(in []model.Participant) []model.Participant {
	tmp := make([]pinned, len(in))
	for i, p := range in {
		pos, ok := r.overrides.Position(p.Name)
		tmp[i] = pinned{p: p.Clone(), pos: pos, ok: ok}
	}

	slices.SortStableFunc(tmp, func(a, b pinned) int {
		switch {
		case a.ok && b.ok:
			return cmp.Compare(a.pos, b.pos)
		case a.ok:
			return -1
		case b.ok:
			return 1
		}
		if c := cmp.Compare(b.p.BadgesEarned, a.p.BadgesEarned); c != 0 {
			return c
		}
		return cmp.Compare(b.p.ArcadeGames, a.p.ArcadeGames)
	})

	out := make([]model.Participant, len(tmp))
	for i := range tmp {
		p := tmp[i].p
		p.Rank = i + 1
		p.RankChange, p.RankDiff = model.RankUnknown, 0
		out[i] = p
	}
	return out
}

// Volunteers returns a ranked copy of in with statuses recomputed: the top
// coreTeam ranks with impact above zero are core team eligible.
func (r *Ranker) Volunteers(in []model.Volunteer) []model.Volunteer {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b model.Volunteer) int {
		return cmp.Compare(b.TotalImpact, a.TotalImpact)
	})

	for i := range out {
		v := &out[i]
		v.Rank = i + 1
		v.RankChange, v.RankDiff = model.RankUnknown, 0
		switch {
		case !v.Active():
			v.Status = model.StatusInactive
		case v.Rank <= r.coreTeam:
			v.Status = model.StatusCoreTeamEligible
		default:
			v.Status = model.StatusActive
		}
	}
	return out
}
