// Package export serializes a displayed set to CSV.
//
// The header row is bare, every data cell is double-quoted, rows are joined
// by "\n" with no trailing newline, and an empty set produces no output at
// all. Cells never contain quotes or line breaks, so the output reads back
// through csvparse unchanged.
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okian/skillboard/internal/domain/model"
)

// TimeLayout is the Last Updated format: UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Column headers.
var (
	ParticipantHeader = []string{
		"Rank", "Name", "Email", "Total Courses", "Completed Courses",
		"Completion %", "Badges Earned", "Badge Types", "Last Updated",
	}
	VolunteerHeader = []string{
		"Rank", "Name", "Courses Completed", "Credentials Used",
		"Students Helped", "Total Impact", "Status",
	}
)

// Option applies a configuration option to an export.
type Option func(*options)

type options struct {
	maxRows int
}

// WithMaxRows caps the number of data rows. Zero or less means no cap.
func WithMaxRows(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRows = n
		}
	}
}

func limit[T any](list []T, opts []Option) []T {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxRows > 0 && len(list) > o.maxRows {
		return list[:o.maxRows]
	}
	return list
}

// Participants writes list in the participant layout.
func Participants(w io.Writer, list []model.Participant, opts ...Option) error {
	list = limit(list, opts)
	return write(w, ParticipantHeader, len(list), func(i int) []string {
		p := list[i]
		return []string{
			strconv.Itoa(p.Rank),
			p.Name,
			p.Email,
			strconv.Itoa(p.TotalCourses),
			strconv.Itoa(p.CompletedCourses),
			strconv.Itoa(p.CompletionPercentage),
			strconv.Itoa(p.BadgesEarned),
			strings.Join(p.BadgeTypes, ";"),
			p.LastUpdated.UTC().Format(TimeLayout),
		}
	})
}

// Volunteers writes list in the volunteer layout.
func Volunteers(w io.Writer, list []model.Volunteer, opts ...Option) error {
	list = limit(list, opts)
	return write(w, VolunteerHeader, len(list), func(i int) []string {
		v := list[i]
		return []string{
			strconv.Itoa(v.Rank),
			v.Name,
			strconv.Itoa(v.CoursesCompleted),
			strconv.Itoa(v.CredentialsUsed),
			strconv.Itoa(v.StudentsHelped),
			strconv.Itoa(v.TotalImpact),
			v.Status,
		}
	})
}

// ParticipantsString is Participants into a string.
func ParticipantsString(list []model.Participant, opts ...Option) string {
	var b strings.Builder
	_ = Participants(&b, list, opts...)
	return b.String()
}

// ParseTime reads a Last Updated cell.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

var cellReplacer = strings.NewReplacer(`"`, "", "\r", " ", "\n", " ")

func write(w io.Writer, header []string, n int, row func(int) []string) error {
	if n == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(strings.Join(header, ","))
	for i := 0; i < n; i++ {
		_ = bw.WriteByte('\n')
		for j, cell := range row(i) {
			if j > 0 {
				_ = bw.WriteByte(',')
			}
			_ = bw.WriteByte('"')
			_, _ = cellReplacer.WriteString(bw, cell)
			_ = bw.WriteByte('"')
		}
	}
	return bw.Flush()
}
