package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/names"
)

// Category selects a completion bucket.
type Category string

// Categories. Thresholds are on the projected completion percentage.
const (
	CategoryAll       Category = "all"
	CategoryBeginner  Category = "beginner"   // below 30, not confirmed
	CategoryAdvanced  Category = "advanced"   // 30 to 99, not confirmed
	CategoryComplete  Category = "complete"   // 100 or confirmed
	CategoryProofSent Category = "proof-sent" // confirmed
)

const advancedFrom = 30

// SortMode is a display ordering.
type SortMode string

// Sort modes.
const (
	SortRank       SortMode = "rank"
	SortName       SortMode = "name"
	SortCompletion SortMode = "completion"
	SortBadges     SortMode = "badges"
)

// ParseCategory validates a category selector; empty means all.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.TrimSpace(s)); c {
	case "":
		return CategoryAll, nil
	case CategoryAll, CategoryBeginner, CategoryAdvanced, CategoryComplete, CategoryProofSent:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// ParseSort validates a sort mode; empty means rank.
func ParseSort(s string) (SortMode, error) {
	switch m := SortMode(strings.TrimSpace(s)); m {
	case "":
		return SortRank, nil
	case SortRank, SortName, SortCompletion, SortBadges:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
}

// InCategory reports whether a projected participant falls in c.
func InCategory(p model.Participant, c Category) bool {
	switch c {
	case CategoryBeginner:
		return p.CompletionPercentage < advancedFrom && !p.Confirmed
	case CategoryAdvanced:
		return p.CompletionPercentage >= advancedFrom && p.CompletionPercentage < 100 && !p.Confirmed
	case CategoryComplete:
		return p.CompletionPercentage == 100 || p.Confirmed
	case CategoryProofSent:
		return p.Confirmed
	default:
		return true
	}
}

// Filter keeps participants whose name or email contains query (case-folded)
// and who fall in c. Input order is preserved.
func Filter(in []model.Participant, query string, c Category) []model.Participant {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	out := make([]model.Participant, 0, len(in))
	for _, p := range in {
		if q != "" && !strings.Contains(fold.String(p.Name), q) && !strings.Contains(fold.String(p.Email), q) {
			continue
		}
		if !InCategory(p, c) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort returns a stably sorted copy of in.
func Sort(in []model.Participant, m SortMode) []model.Participant {
	out := slices.Clone(in)
	switch m {
	case SortName:
		col := names.NewCollator()
		slices.SortStableFunc(out, func(a, b model.Participant) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortCompletion:
		slices.SortStableFunc(out, func(a, b model.Participant) int {
			return cmp.Compare(b.CompletionPercentage, a.CompletionPercentage)
		})
	case SortBadges:
		slices.SortStableFunc(out, func(a, b model.Participant) int {
			return cmp.Compare(b.BadgesEarned, a.BadgesEarned)
		})
	default:
		slices.SortStableFunc(out, func(a, b model.Participant) int {
			return cmp.Compare(a.Rank, b.Rank)
		})
	}
	return out
}
