package view

import (
	"github.com/okian/skillboard/internal/domain/model"
)

// State is the consumer's current view selection. It is a value; reducers
// return a new State.
type State struct {
	Query    string   `json:"query"`
	Category Category `json:"category"`
	Sort     SortMode `json:"sort"`
}

// Initial returns the default view: everyone, by rank.
func Initial() State {
	return State{Category: CategoryAll, Sort: SortRank}
}

// Action changes a State.
type Action interface {
	apply(State) State
}

// SetQuery replaces the search text.
type SetQuery struct{ Query string }

// SetCategory replaces the category filter.
type SetCategory struct{ Category Category }

// SetSort replaces the display order.
type SetSort struct{ Sort SortMode }

// Reset returns to Initial.
type Reset struct{}

func (a SetQuery) apply(s State) State {
	s.Query = a.Query
	return s
}

func (a SetCategory) apply(s State) State {
	s.Category = a.Category
	return s
}

func (a SetSort) apply(s State) State {
	s.Sort = a.Sort
	return s
}

func (Reset) apply(State) State { return Initial() }

// Reduce applies actions in order.
func Reduce(s State, actions ...Action) State {
	for _, a := range actions {
		if a != nil {
			s = a.apply(s)
		}
	}
	return s
}

// Apply filters then sorts a projected set for s.
func Apply(projected []model.Participant, s State) []model.Participant {
	return Sort(Filter(projected, s.Query, s.Category), s.Sort)
}
