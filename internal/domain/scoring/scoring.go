// Package scoring computes the derived metrics of leaderboard entities.
// Derived values are always recomputed from counts, never read from input.
package scoring

// Default scoring configuration constants.
const (
	defaultTotalCourses      = 20
	defaultStudentMultiplier = 2
	maxCompletion            = 100
)

// Tier labels, from lowest to highest.
const (
	TierBeginner     = "beginner"
	TierIntermediate = "intermediate"
	TierAdvanced     = "advanced"
	TierExpert       = "expert"
)

var tierLabels = [...]string{TierBeginner, TierIntermediate, TierAdvanced, TierExpert}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithTotalCourses sets the completion denominator.
func WithTotalCourses(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.totalCourses = n
		}
	}
}

// WithTierThresholds sets the badge counts for the four tiers in order.
// Anything other than four non-negative values is ignored.
func WithTierThresholds(t []int) Option {
	return func(s *Scorer) {
		if len(t) != len(s.thresholds) {
			return
		}
		for _, v := range t {
			if v < 0 {
				return
			}
		}
		copy(s.thresholds[:], t)
	}
}

// WithStudentMultiplier sets the weight of one helped student in total impact.
func WithStudentMultiplier(m int) Option {
	return func(s *Scorer) {
		if m >= 0 {
			s.multiplier = m
		}
	}
}

// Scorer holds the scoring configuration. It is immutable after New.
type Scorer struct {
	totalCourses int
	thresholds   [4]int
	multiplier   int
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		totalCourses: defaultTotalCourses,
		thresholds:   [4]int{1, 7, 13, 19},
		multiplier:   defaultStudentMultiplier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TotalCourses returns the completion denominator.
func (s *Scorer) TotalCourses() int { return s.totalCourses }

// Completion returns round(100 * (badges+arcade) / totalCourses) in [0,100].
// Halves round up.
func (s *Scorer) Completion(badges, arcade int) int {
	done := max(badges, 0) + max(arcade, 0)
	pct := (200*done + s.totalCourses) / (2 * s.totalCourses)
	return min(pct, maxCompletion)
}

// Tiers returns every tier whose threshold badges reaches, lowest first.
func (s *Scorer) Tiers(badges int) []string {
	out := make([]string, 0, len(tierLabels))
	for i, label := range tierLabels {
		if badges >= s.thresholds[i] {
			out = append(out, label)
		}
	}
	return out
}

// Impact returns courses + students*multiplier for a volunteer.
func (s *Scorer) Impact(courses, students int) int {
	return max(courses, 0) + max(students, 0)*s.multiplier
}
