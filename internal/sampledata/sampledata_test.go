package sampledata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillboard/internal/domain/csvparse"
	"github.com/okian/skillboard/internal/domain/normalize"
)

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := NewGenerator(42, 20).Participants(50)
		b := NewGenerator(42, 20).Participants(50)

		Convey("Then they produce the same sheet", func() {
			So(a, ShouldResemble, b)
		})

		Convey("Then emails are unique and counts stay within the course total", func() {
			emails := map[string]bool{}
			for _, p := range a {
				So(emails[p.Email], ShouldBeFalse)
				emails[p.Email] = true
				So(p.Badges+p.Arcade, ShouldBeLessThanOrEqualTo, 20)
			}
		})
	})

	Convey("Given generated volunteers", t, func() {
		vs := NewGenerator(7, 20).Volunteers(200)

		Convey("Then names are unique", func() {
			names := map[string]bool{}
			for _, v := range vs {
				So(names[v.Name], ShouldBeFalse)
				names[v.Name] = true
			}
		})
	})
}

func TestCSVRoundTrip(t *testing.T) {
	Convey("Given a rendered participant sheet", t, func() {
		rows := NewGenerator(1, 20).Participants(25)
		res, err := csvparse.Parse(ParticipantsCSV(rows))

		Convey("Then the parser reads every row back", func() {
			So(err, ShouldBeNil)
			So(res.Dropped, ShouldEqual, 0)
			So(res.Headers, ShouldResemble, normalize.ParticipantHeaders)
			So(len(res.Rows), ShouldEqual, 25)
			So(res.Rows[0][normalize.HeaderUserEmail], ShouldEqual, rows[0].Email)
		})
	})

	Convey("Given a rendered volunteer sheet", t, func() {
		rows := NewGenerator(1, 20).Volunteers(10)
		res, err := csvparse.Parse(VolunteersCSV(rows))

		Convey("Then the parser reads every row back", func() {
			So(err, ShouldBeNil)
			So(len(res.Rows), ShouldEqual, 10)
			So(res.Rows[3][normalize.HeaderName], ShouldEqual, rows[3].Name)
		})
	})

	Convey("Given an output directory", t, func() {
		dir := filepath.Join(t.TempDir(), "data")
		p, v, err := WriteFiles(dir, NewGenerator(3, 20).Participants(3), NewGenerator(3, 20).Volunteers(3))

		Convey("Then both files exist", func() {
			So(err, ShouldBeNil)
			_, err = os.Stat(p)
			So(err, ShouldBeNil)
			_, err = os.Stat(v)
			So(err, ShouldBeNil)
		})
	})
}

func TestVerify(t *testing.T) {
	rows := []Participant{{Email: "a@x"}, {Email: "b@x"}, {Email: "c@x"}}

	Convey("Given a well ordered feed", t, func() {
		entries := []feedEntry{
			{Rank: 1, Email: "a@x", Badges: 10},
			{Rank: 2, Email: "B@x", Badges: 9, Arcade: 2},
			{Rank: 3, Email: "c@x", Badges: 9, Arcade: 1},
		}
		So(verify(entries, rows, 0).OK(), ShouldBeTrue)
	})

	Convey("Given a feed with a gap, a missing email and an inversion", t, func() {
		entries := []feedEntry{
			{Rank: 1, Email: "a@x", Badges: 1},
			{Rank: 3, Email: "b@x", Badges: 5},
		}
		res := verify(entries, rows, 0)
		So(res.OK(), ShouldBeFalse)
		So(res.Missing, ShouldResemble, []string{"c@x"})
		So(len(res.Problems), ShouldEqual, 2)
	})

	Convey("Given a pinned first entry", t, func() {
		entries := []feedEntry{
			{Rank: 1, Email: "a@x", Badges: 1},
			{Rank: 2, Email: "b@x", Badges: 5},
			{Rank: 3, Email: "c@x", Badges: 4},
		}
		So(verify(entries, rows, 1).OK(), ShouldBeTrue)
	})
}

func TestCheck(t *testing.T) {
	Convey("Given a feed server", t, func() {
		page := feedPage{Total: 1, Entries: []feedEntry{{Rank: 1, Email: "a@x"}}}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/leaderboard" {
				http.NotFound(w, r)
				return
			}
			_ = json.NewEncoder(w).Encode(page)
		}))
		defer srv.Close()

		Convey("Then a matching sample passes", func() {
			res, err := Check(context.Background(), srv.Client(), srv.URL+"/", []Participant{{Email: "a@x"}}, 0)
			So(err, ShouldBeNil)
			So(res.Entries, ShouldEqual, 1)
		})

		Convey("Then a missing participant fails", func() {
			_, err := Check(context.Background(), srv.Client(), srv.URL, []Participant{{Email: "a@x"}, {Email: "z@x"}}, 0)
			So(errors.Is(err, ErrMismatch), ShouldBeTrue)
		})
	})
}
