// Package sampledata builds synthetic leaderboard sheets for local runs,
// demos and tests, and checks a running feed against them.
package sampledata

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/skillboard/internal/domain/normalize"
)

// File names written by WriteFiles.
const (
	ParticipantsFile = "leaderboard.csv"
	VolunteersFile   = "volunteers.csv"
)

var (
	firstNames = []string{"Aarav", "Diya", "Ishaan", "Meera", "Kabir", "Ananya", "Rohan", "Sara", "Vihaan", "Nisha", "Arjun", "Priya"}
	lastNames  = []string{"Sharma", "Iyer", "Patel", "Khan", "Reddy", "Das", "Nair", "Gupta", "Singh", "Menon"}
	badgeNames = []string{
		"Build a Secure Google Cloud Network",
		"Develop your Google Cloud Network",
		"Prompt Design in Vertex AI",
		"Get Started with Cloud Storage",
		"Implement Load Balancing on Compute Engine",
	}
)

// Participant is one generated participant row.
type Participant struct {
	Name       string
	Email      string
	ProfileURL string
	Badges     int
	Arcade     int
	BadgeNames []string
	Redeemed   bool
	AllDone    bool
}

// Volunteer is one generated volunteer row.
type Volunteer struct {
	Name        string
	Courses     int
	Credentials int
	Students    int
	Owners      string
	URLs        string
}

// Generator produces deterministic rows for a seed.
type Generator struct {
	rng          *rand.Rand
	totalCourses int
	seen         map[string]int
}

// NewGenerator creates a Generator. totalCourses bounds badges plus arcade games.
func NewGenerator(seed uint64, totalCourses int) *Generator {
	if totalCourses <= 0 {
		totalCourses = 20
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), totalCourses: totalCourses, seen: make(map[string]int)}
}

// name returns a full name not handed out before by this generator.
func (g *Generator) name() string {
	name := firstNames[g.rng.IntN(len(firstNames))] + " " + lastNames[g.rng.IntN(len(lastNames))]
	g.seen[name]++
	if n := g.seen[name]; n > 1 {
		return fmt.Sprintf("%s %d", name, n)
	}
	return name
}

// Participants returns n rows with unique emails. Emails are derived from a
// name-based UUID so the same seed yields the same sheet.
func (g *Generator) Participants(n int) []Participant {
	out := make([]Participant, 0, n)
	for i := range n {
		name := g.name()
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(name+"#"+strconv.Itoa(i)))
		handle := strings.ToLower(strings.ReplaceAll(name, " ", "."))
		badges := g.rng.IntN(g.totalCourses + 1)
		arcade := 0
		if badges < g.totalCourses {
			arcade = g.rng.IntN(min(3, g.totalCourses-badges) + 1)
		}
		p := Participant{
			Name:       name,
			Email:      fmt.Sprintf("%s.%s@example.com", handle, id.String()[:8]),
			ProfileURL: "https://www.cloudskillsboost.google/public_profiles/" + id.String(),
			Badges:     badges,
			Arcade:     arcade,
			Redeemed:   g.rng.IntN(4) != 0,
			AllDone:    badges+arcade >= g.totalCourses,
		}
		for j := 0; j < min(badges, len(badgeNames)); j++ {
			p.BadgeNames = append(p.BadgeNames, badgeNames[j])
		}
		out = append(out, p)
	}
	return out
}

// Volunteers returns n rows. Roughly one in five has no activity.
func (g *Generator) Volunteers(n int) []Volunteer {
	out := make([]Volunteer, 0, n)
	for range n {
		v := Volunteer{Name: g.name(), Owners: "-", URLs: "-"}
		if g.rng.IntN(5) != 0 {
			v.Courses = g.rng.IntN(g.totalCourses + 1)
			v.Credentials = g.rng.IntN(10)
			v.Students = g.rng.IntN(15)
			v.Owners = firstNames[g.rng.IntN(len(firstNames))]
		}
		out = append(out, v)
	}
	return out
}

// ParticipantsCSV renders rows with the sheet's participant header. Cells
// holding commas are quoted.
func ParticipantsCSV(rows []Participant) string {
	var b strings.Builder
	writeLine(&b, normalize.ParticipantHeaders)
	for _, p := range rows {
		writeLine(&b, []string{
			p.Name,
			p.Email,
			p.ProfileURL,
			strconv.Itoa(p.Badges),
			strconv.Itoa(p.Arcade),
			strings.Join(p.BadgeNames, ", "),
			yesNo(p.Redeemed),
			yesNo(p.AllDone),
		})
	}
	return b.String()
}

// VolunteersCSV renders rows with the sheet's volunteer header.
func VolunteersCSV(rows []Volunteer) string {
	var b strings.Builder
	writeLine(&b, normalize.VolunteerHeaders)
	for _, v := range rows {
		writeLine(&b, []string{
			v.Name,
			strconv.Itoa(v.Courses),
			strconv.Itoa(v.Credentials),
			strconv.Itoa(v.Students),
			v.Owners,
			v.URLs,
		})
	}
	return b.String()
}

// WriteFiles writes both sheets into dir and returns their paths.
func WriteFiles(dir string, participants []Participant, volunteers []Volunteer) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create %s: %w", dir, err)
	}
	pPath := filepath.Join(dir, ParticipantsFile)
	vPath := filepath.Join(dir, VolunteersFile)
	if err := os.WriteFile(pPath, []byte(ParticipantsCSV(participants)), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", pPath, err)
	}
	if err := os.WriteFile(vPath, []byte(VolunteersCSV(volunteers)), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", vPath, err)
	}
	return pPath, vPath, nil
}

func writeLine(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		c = strings.ReplaceAll(c, `"`, "")
		if strings.ContainsRune(c, ',') {
			b.WriteString(`"` + c + `"`)
			continue
		}
		b.WriteString(c)
	}
	b.WriteByte('\n')
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
