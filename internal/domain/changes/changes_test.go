package changes_test

import (
	"testing"

	"github.com/okian/skillboard/internal/domain/changes"
	"github.com/okian/skillboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ranked(emails ...string) []model.Participant {
	out := make([]model.Participant, len(emails))
	for i, e := range emails {
		out[i] = model.Participant{Name: e, Email: e, Rank: i + 1}
	}
	return out
}

func TestDetectParticipants(t *testing.T) {
	Convey("Given an unchanged dataset", t, func() {
		set := ranked("a@x", "b@x", "c@x")
		out := changes.Participants(set, set)

		Convey("Then every entity should be same with zero diff", func() {
			for _, p := range out {
				So(p.RankChange, ShouldEqual, model.RankSame)
				So(p.RankDiff, ShouldEqual, 0)
			}
		})
	})

	Convey("Given entities that moved", t, func() {
		prev := ranked("a@x", "b@x", "c@x", "d@x")
		next := ranked("c@x", "a@x", "new@x", "b@x")

		out := changes.Participants(next, prev)

		Convey("Then movement should be classified by key, not position", func() {
			So(out[0].RankChange, ShouldEqual, model.RankUp)
			So(out[0].RankDiff, ShouldEqual, 2)
			So(out[1].RankChange, ShouldEqual, model.RankDown)
			So(out[1].RankDiff, ShouldEqual, 1)
			So(out[2].RankChange, ShouldEqual, model.RankNew)
			So(out[2].RankDiff, ShouldEqual, 0)
			So(out[3].RankChange, ShouldEqual, model.RankDown)
			So(out[3].RankDiff, ShouldEqual, 2)
		})

		Convey("Then the input should not be annotated", func() {
			So(next[0].RankChange, ShouldEqual, model.RankUnknown)
		})
	})

	Convey("Given emails that differ only by case", t, func() {
		prev := ranked("Krish@Example.com")
		next := ranked("krish@example.com")
		out := changes.Participants(next, prev)
		So(out[0].RankChange, ShouldEqual, model.RankSame)
	})

	Convey("Given an empty previous set", t, func() {
		out := changes.Participants(ranked("a@x"), nil)
		So(out[0].RankChange, ShouldEqual, model.RankNew)
	})
}

func TestDetectVolunteers(t *testing.T) {
	Convey("Given volunteers matched by name", t, func() {
		prev := []model.Volunteer{{Name: "Priya", Rank: 1}, {Name: "Rahul", Rank: 2}}
		next := []model.Volunteer{{Name: "rahul ", Rank: 1}, {Name: "Priya", Rank: 2}, {Name: "Meera", Rank: 3}}

		out := changes.Volunteers(next, prev)

		So(out[0].RankChange, ShouldEqual, model.RankUp)
		So(out[0].RankDiff, ShouldEqual, 1)
		So(out[1].RankChange, ShouldEqual, model.RankDown)
		So(out[2].RankChange, ShouldEqual, model.RankNew)
	})
}

func TestDetectGeneric(t *testing.T) {
	type row struct {
		id   string
		rank int
	}
	key := func(r row) string { return r.id }
	rank := func(r row) int { return r.rank }

	Convey("Given a previous set repeating a key", t, func() {
		prev := []row{{"x", 1}, {"x", 5}}
		out := changes.Detect([]row{{"x", 3}}, prev, key, rank)

		Convey("Then the first occurrence should be used", func() {
			So(out[0], ShouldResemble, changes.Delta{Change: model.RankDown, Diff: 2})
		})
	})

	Convey("Given nothing new", t, func() {
		So(changes.Detect(nil, []row{{"x", 1}}, key, rank), ShouldBeEmpty)
	})
}
