// Package normalize maps parsed CSV rows to typed participants and volunteers.
// It is a pure transform: rows in, records and a Report out.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/okian/skillboard/internal/domain/csvparse"
	"github.com/okian/skillboard/internal/domain/dedupe"
	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/names"
	"github.com/okian/skillboard/internal/domain/scoring"
)

const (
	yes         = "Yes"
	placeholder = "-"
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithScorer sets the scorer used for derived fields.
func WithScorer(s *scoring.Scorer) Option {
	return func(n *Normalizer) {
		if s != nil {
			n.scorer = s
		}
	}
}

// Normalizer converts rows to records.
type Normalizer struct {
	scorer *scoring.Scorer
}

// New creates a Normalizer. Without WithScorer it uses scoring defaults.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{scorer: scoring.New()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Participants normalizes participant rows. Rows without a name or email are
// skipped, as are later rows repeating an email. at stamps LastUpdated.
func (n *Normalizer) Participants(rows []csvparse.Row, at time.Time) ([]model.Participant, Report) {
	rep := newReport()
	out := make([]model.Participant, 0, len(rows))
	stamp := at.UTC()

	for i, row := range rows {
		name := clean(row[HeaderUserName])
		email := clean(row[HeaderUserEmail])
		if name == "" || email == "" {
			rep.Skipped[SkipMissingIdentity]++
			continue
		}

		badges := n.count(&rep, i+1, email, HeaderBadgesCompleted, row[HeaderBadgesCompleted])
		arcade := n.count(&rep, i+1, email, HeaderArcadeCompleted, row[HeaderArcadeCompleted])

		out = append(out, model.Participant{
			Name:                 name,
			Email:                email,
			ProfileURL:           clean(row[HeaderProfileURL]),
			TotalCourses:         n.scorer.TotalCourses(),
			CompletedCourses:     badges + arcade,
			CompletionPercentage: n.scorer.Completion(badges, arcade),
			BadgesEarned:         badges,
			ArcadeGames:          arcade,
			BadgeTypes:           n.scorer.Tiers(badges),
			BadgeNames:           clean(row[HeaderBadgeNames]),
			AccessCodeRedeemed:   clean(row[HeaderAccessCode]) == yes,
			AllCompleted:         clean(row[HeaderAllCompleted]) == yes,
			LastUpdated:          stamp,
			AvatarColor:          names.AvatarColor(name),
			Initials:             names.Initials(name),
		})
	}

	out, dup := dedupe.Unique(out, model.Participant.Key)
	if dup > 0 {
		rep.Skipped[SkipDuplicate] += dup
	}
	return out, rep
}

// Volunteers normalizes volunteer rows. Rows without a name are skipped, as
// are later rows repeating a name. Status is Active or Inactive here; the
// ranker promotes the core team.
func (n *Normalizer) Volunteers(rows []csvparse.Row) ([]model.Volunteer, Report) {
	rep := newReport()
	out := make([]model.Volunteer, 0, len(rows))

	for i, row := range rows {
		name := clean(row[HeaderName])
		if name == "" {
			rep.Skipped[SkipMissingIdentity]++
			continue
		}

		courses := n.count(&rep, i+1, name, HeaderCoursesCompleted, row[HeaderCoursesCompleted])
		creds := n.count(&rep, i+1, name, HeaderCredentialsUsed, row[HeaderCredentialsUsed])
		students := n.count(&rep, i+1, name, HeaderStudentsHelped, row[HeaderStudentsHelped])
		impact := n.scorer.Impact(courses, students)

		status := model.StatusInactive
		if impact > 0 {
			status = model.StatusActive
		}

		out = append(out, model.Volunteer{
			Name:             name,
			CoursesCompleted: courses,
			CredentialsUsed:  creds,
			StudentsHelped:   students,
			AccountOwners:    orPlaceholder(clean(row[HeaderAccountOwner])),
			StudentsURLs:     orPlaceholder(clean(row[HeaderStudentsURL])),
			TotalImpact:      impact,
			Status:           status,
		})
	}

	out, dup := dedupe.Unique(out, model.Volunteer.Key)
	if dup > 0 {
		rep.Skipped[SkipDuplicate] += dup
	}
	return out, rep
}

func (n *Normalizer) count(rep *Report, row int, key, field, raw string) int {
	v, ok := ParseCount(raw)
	if !ok {
		rep.Defaults = append(rep.Defaults, NumericDefault{Row: row, Key: key, Field: field, Value: raw})
	}
	return v
}

// ParseCount reads a non-negative count the way parseInt does: optional
// sign, then leading digits, trailing garbage ignored. Anything else,
// negatives and overflow included, yields 0 and false.
func ParseCount(raw string) (int, bool) {
	s := clean(raw)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	if neg && v != 0 {
		return 0, false
	}
	return v, true
}

// clean strips quote characters and surrounding whitespace.
func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
