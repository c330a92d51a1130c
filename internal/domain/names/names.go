// Package names normalizes display names and holds the name-keyed override
// lists (pinned rank positions and the confirmed set).
package names

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Key normalizes a name for lookups: trimmed and lower-cased.
// Every override lookup goes through Key.
func Key(name string) string {
	// cases.Caser carries state, so one per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// Set is an immutable set of normalized names.
type Set struct {
	m map[string]struct{}
}

// NewSet builds a Set; blank names are ignored.
func NewSet(list ...string) Set {
	m := make(map[string]struct{}, len(list))
	for _, n := range list {
		if k := Key(n); k != "" {
			m[k] = struct{}{}
		}
	}
	return Set{m: m}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s.m[Key(name)]
	return ok
}

// Len returns the number of distinct names.
func (s Set) Len() int { return len(s.m) }

// RankOverrides maps normalized names to forced rank positions.
type RankOverrides struct {
	m map[string]int
}

// NewRankOverrides normalizes the keys of pins. Non-positive positions are dropped.
func NewRankOverrides(pins map[string]int) RankOverrides {
	m := make(map[string]int, len(pins))
	for n, pos := range pins {
		if k := Key(n); k != "" && pos > 0 {
			m[k] = pos
		}
	}
	return RankOverrides{m: m}
}

// Position returns the forced position for name, if any.
func (o RankOverrides) Position(name string) (int, bool) {
	pos, ok := o.m[Key(name)]
	return pos, ok
}

// Len returns the number of pinned names.
func (o RankOverrides) Len() int { return len(o.m) }

// NewCollator returns a case-insensitive collator for display sorting.
// Collators are not safe for concurrent use.
func NewCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

var avatarGradients = [...]string{
	"linear-gradient(135deg, #4285f4, #5e9cff)",
	"linear-gradient(135deg, #ea4335, #ff6b6b)",
	"linear-gradient(135deg, #fbbc04, #ffd93d)",
	"linear-gradient(135deg, #34a853, #6bcf7f)",
	"linear-gradient(135deg, #9c27b0, #ba68c8)",
	"linear-gradient(135deg, #ff6f00, #ffa726)",
}

// AvatarColor picks a gradient from the first character of name.
func AvatarColor(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return avatarGradients[0]
	}
	return avatarGradients[int(r)%len(avatarGradients)]
}

// Initials returns the first letters of the first and last words, or the
// first two characters of a single-word name, upper-cased.
func Initials(name string) string {
	parts := strings.Fields(name)
	var out []rune
	switch len(parts) {
	case 0:
		return ""
	case 1:
		for _, r := range parts[0] {
			if len(out) == 2 {
				break
			}
			out = append(out, r)
		}
	default:
		first, _ := utf8.DecodeRuneInString(parts[0])
		last, _ := utf8.DecodeRuneInString(parts[len(parts)-1])
		out = []rune{first, last}
	}
	return cases.Upper(language.Und).String(string(out))
}
