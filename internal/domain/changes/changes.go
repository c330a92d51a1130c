// Package changes annotates a freshly ranked set with rank movement against
// the previous set, matching entities by identity key.
package changes

import (
	"slices"

	"github.com/okian/skillboard/internal/domain/model"
)

// Delta is the movement of one entity.
type Delta struct {
	Change model.RankChange
	Diff   int
}

// Detect returns one Delta per element of next. Entities are matched by key;
// if prev repeats a key the first occurrence is used.
func Detect[T any](next, prev []T, key func(T) string, rank func(T) int) []Delta {
	index := make(map[string]int, len(prev))
	for _, e := range prev {
		k := key(e)
		if _, dup := index[k]; !dup {
			index[k] = rank(e)
		}
	}

	out := make([]Delta, len(next))
	for i, e := range next {
		before, ok := index[key(e)]
		if !ok {
			out[i] = Delta{Change: model.RankNew}
			continue
		}
		switch d := before - rank(e); {
		case d > 0:
			out[i] = Delta{Change: model.RankUp, Diff: d}
		case d < 0:
			out[i] = Delta{Change: model.RankDown, Diff: -d}
		default:
			out[i] = Delta{Change: model.RankSame}
		}
	}
	return out
}

// Participants returns a copy of next annotated against prev.
func Participants(next, prev []model.Participant) []model.Participant {
	deltas := Detect(next, prev, model.Participant.Key, func(p model.Participant) int { return p.Rank })
	out := slices.Clone(next)
	for i, d := range deltas {
		out[i].RankChange, out[i].RankDiff = d.Change, d.Diff
	}
	return out
}

// Volunteers returns a copy of next annotated against prev.
func Volunteers(next, prev []model.Volunteer) []model.Volunteer {
	deltas := Detect(next, prev, model.Volunteer.Key, func(v model.Volunteer) int { return v.Rank })
	out := slices.Clone(next)
	for i, d := range deltas {
		out[i].RankChange, out[i].RankDiff = d.Change, d.Diff
	}
	return out
}
