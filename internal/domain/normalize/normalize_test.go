package normalize_test

import (
	"testing"
	"time"

	"github.com/okian/skillboard/internal/domain/csvparse"
	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/normalize"
	"github.com/okian/skillboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func participantRow(name, email, badges, arcade string) csvparse.Row {
	return csvparse.Row{
		normalize.HeaderUserName:        name,
		normalize.HeaderUserEmail:       email,
		normalize.HeaderProfileURL:      "https://www.cloudskillsboost.google/public_profiles/x",
		normalize.HeaderBadgesCompleted: badges,
		normalize.HeaderArcadeCompleted: arcade,
		normalize.HeaderBadgeNames:      "",
		normalize.HeaderAccessCode:      "Yes",
		normalize.HeaderAllCompleted:    "No",
	}
}

func TestParseCount(t *testing.T) {
	Convey("Given numeric cells", t, func() {
		cases := []struct {
			in   string
			want int
			ok   bool
		}{
			{"19", 19, true},
			{" 7 ", 7, true},
			{`"3"`, 3, true},
			{"+4", 4, true},
			{"12abc", 12, true},
			{"3.9", 3, true},
			{"0", 0, true},
			{"-0", 0, true},
			{"", 0, false},
			{"abc", 0, false},
			{"-3", 0, false},
			{"99999999999999999999999", 0, false},
		}
		for _, c := range cases {
			got, ok := normalize.ParseCount(c.in)
			So(got, ShouldEqual, c.want)
			So(ok, ShouldEqual, c.ok)
		}
	})
}

func TestParticipants(t *testing.T) {
	at := time.Date(2025, 10, 18, 14, 30, 0, 0, time.UTC)

	Convey("Given two participant rows", t, func() {
		n := normalize.New()
		rows := []csvparse.Row{
			participantRow("A", "a@example.com", "19", "1"),
			participantRow("B", "b@example.com", "10", "0"),
		}

		out, rep := n.Participants(rows, at)

		Convey("Then derived fields should be computed", func() {
			So(out, ShouldHaveLength, 2)
			So(out[0].CompletionPercentage, ShouldEqual, 100)
			So(out[0].CompletedCourses, ShouldEqual, 20)
			So(out[0].BadgeTypes, ShouldResemble, []string{"beginner", "intermediate", "advanced", "expert"})
			So(out[1].CompletionPercentage, ShouldEqual, 50)
			So(out[1].BadgeTypes, ShouldResemble, []string{"beginner", "intermediate"})
		})

		Convey("Then flags and presentation fields should be filled", func() {
			So(out[0].AccessCodeRedeemed, ShouldBeTrue)
			So(out[0].AllCompleted, ShouldBeFalse)
			So(out[0].TotalCourses, ShouldEqual, 20)
			So(out[0].LastUpdated, ShouldEqual, at)
			So(out[0].Initials, ShouldEqual, "A")
			So(out[0].AvatarColor, ShouldNotBeEmpty)
		})

		Convey("Then ranking fields should be left for the ranker", func() {
			So(out[0].Rank, ShouldEqual, 0)
			So(out[0].RankChange, ShouldEqual, model.RankUnknown)
		})

		Convey("Then nothing should be reported", func() {
			So(rep.SkippedTotal(), ShouldEqual, 0)
			So(rep.Defaults, ShouldBeEmpty)
		})
	})

	Convey("Given rows with quotes, blanks and bad numbers", t, func() {
		n := normalize.New(normalize.WithScorer(scoring.New(scoring.WithTotalCourses(10))))
		rows := []csvparse.Row{
			participantRow(`"Krish Gupta"`, ` "krish@example.com" `, "five", "1"),
			participantRow("", "nobody@example.com", "3", "0"),
			participantRow("No Email", "   ", "3", "0"),
			participantRow("Krish Again", "KRISH@example.com", "9", "0"),
		}

		out, rep := n.Participants(rows, at)

		Convey("Then quotes and whitespace should be stripped", func() {
			So(out, ShouldHaveLength, 1)
			So(out[0].Name, ShouldEqual, "Krish Gupta")
			So(out[0].Email, ShouldEqual, "krish@example.com")
		})

		Convey("Then a bad count should default to zero and be reported", func() {
			So(out[0].BadgesEarned, ShouldEqual, 0)
			So(out[0].CompletionPercentage, ShouldEqual, 10)
			So(rep.Defaults, ShouldHaveLength, 1)
			So(rep.Defaults[0].Field, ShouldEqual, normalize.HeaderBadgesCompleted)
			So(rep.Defaults[0].Value, ShouldEqual, "five")
			So(rep.Defaults[0].Row, ShouldEqual, 1)
		})

		Convey("Then rows without identity and repeated emails should be skipped", func() {
			So(rep.Skipped[normalize.SkipMissingIdentity], ShouldEqual, 2)
			So(rep.Skipped[normalize.SkipDuplicate], ShouldEqual, 1)
			So(rep.SkippedTotal(), ShouldEqual, 3)
		})
	})

	Convey("Given a row missing numeric columns entirely", t, func() {
		rows := []csvparse.Row{{normalize.HeaderUserName: "Solo", normalize.HeaderUserEmail: "solo@example.com"}}
		out, rep := normalize.New().Participants(rows, at)

		So(out, ShouldHaveLength, 1)
		So(out[0].CompletedCourses, ShouldEqual, 0)
		So(out[0].BadgeTypes, ShouldBeEmpty)
		So(rep.Defaults, ShouldHaveLength, 2)
	})
}

func TestVolunteers(t *testing.T) {
	Convey("Given volunteer rows", t, func() {
		rows := []csvparse.Row{
			{
				normalize.HeaderName:             "Priya Shah",
				normalize.HeaderCoursesCompleted: "3",
				normalize.HeaderCredentialsUsed:  "2",
				normalize.HeaderStudentsHelped:   "4",
				normalize.HeaderAccountOwner:     "Rahul",
				normalize.HeaderStudentsURL:      "https://example.com/s",
			},
			{
				normalize.HeaderName:             "Idle Person",
				normalize.HeaderCoursesCompleted: "0",
				normalize.HeaderCredentialsUsed:  "",
				normalize.HeaderStudentsHelped:   "0",
			},
			{normalize.HeaderName: "  "},
			{normalize.HeaderName: "priya shah", normalize.HeaderCoursesCompleted: "50"},
		}

		out, rep := normalize.New().Volunteers(rows)

		Convey("Then total impact should be recomputed", func() {
			So(out, ShouldHaveLength, 2)
			So(out[0].TotalImpact, ShouldEqual, 11)
			So(out[0].Status, ShouldEqual, model.StatusActive)
		})

		Convey("Then idle volunteers should be inactive with placeholders", func() {
			So(out[1].TotalImpact, ShouldEqual, 0)
			So(out[1].Status, ShouldEqual, model.StatusInactive)
			So(out[1].AccountOwners, ShouldEqual, "-")
			So(out[1].StudentsURLs, ShouldEqual, "-")
		})

		Convey("Then blank and repeated names should be skipped", func() {
			So(rep.Skipped[normalize.SkipMissingIdentity], ShouldEqual, 1)
			So(rep.Skipped[normalize.SkipDuplicate], ShouldEqual, 1)
		})

		Convey("Then the empty credentials cell should be reported", func() {
			So(rep.Defaults, ShouldNotBeEmpty)
			So(rep.Defaults[0].Key, ShouldEqual, "Idle Person")
		})
	})
}
