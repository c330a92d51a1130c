package normalize

// Skip reasons.
const (
	SkipMissingIdentity = "identity"
	SkipDuplicate       = "duplicate"
)

// NumericDefault records a numeric cell that was not a number and became 0.
type NumericDefault struct {
	Row   int    // 1-based data row
	Key   string // identity of the entity, may be empty
	Field string
	Value string
}

// Report describes what normalization excluded or defaulted. Neither is an error.
type Report struct {
	Skipped  map[string]int
	Defaults []NumericDefault
}

func newReport() Report {
	return Report{Skipped: make(map[string]int)}
}

// SkippedTotal sums skipped rows over all reasons.
func (r Report) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}
