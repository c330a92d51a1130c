package names_test

import (
	"sort"
	"testing"

	"github.com/okian/skillboard/internal/domain/names"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKey(t *testing.T) {
	Convey("Given display names with mixed case and padding", t, func() {
		So(names.Key("  Krish Gupta "), ShouldEqual, "krish gupta")
		So(names.Key("ANSHU patil"), ShouldEqual, "anshu patil")
		So(names.Key(""), ShouldEqual, "")
	})
}

func TestSet(t *testing.T) {
	Convey("Given a confirmed name set", t, func() {
		set := names.NewSet("Sakthi Bala", " ayush ", "", "AYUSH")

		Convey("Then lookups should ignore case and padding", func() {
			So(set.Has("sakthi bala"), ShouldBeTrue)
			So(set.Has("Ayush"), ShouldBeTrue)
			So(set.Has("Ayush Santosh Nair"), ShouldBeFalse)
		})

		Convey("Then blanks and duplicates should not count", func() {
			So(set.Len(), ShouldEqual, 2)
		})

		Convey("Then the zero set should match nothing", func() {
			var empty names.Set
			So(empty.Has("anyone"), ShouldBeFalse)
			So(empty.Len(), ShouldEqual, 0)
		})
	})
}

func TestRankOverrides(t *testing.T) {
	Convey("Given pinned positions", t, func() {
		o := names.NewRankOverrides(map[string]int{
			"Krish Gupta":     1,
			"siddhesh katale": 2,
			"Nobody":          0,
		})

		Convey("Then positions should resolve by normalized name", func() {
			pos, ok := o.Position("KRISH GUPTA")
			So(ok, ShouldBeTrue)
			So(pos, ShouldEqual, 1)

			pos, ok = o.Position(" Siddhesh Katale")
			So(ok, ShouldBeTrue)
			So(pos, ShouldEqual, 2)
		})

		Convey("Then non-positive pins should be dropped", func() {
			_, ok := o.Position("nobody")
			So(ok, ShouldBeFalse)
			So(o.Len(), ShouldEqual, 2)
		})
	})
}

func TestAvatar(t *testing.T) {
	Convey("Given a name", t, func() {
		Convey("Then the colour should depend on the first character only", func() {
			So(names.AvatarColor("Alice"), ShouldEqual, names.AvatarColor("Adam"))
			// 'A' is 65, 65 % 6 == 5
			So(names.AvatarColor("Alice"), ShouldEqual, "linear-gradient(135deg, #ff6f00, #ffa726)")
			// 'B' is 66, 66 % 6 == 0
			So(names.AvatarColor("Bob"), ShouldEqual, "linear-gradient(135deg, #4285f4, #5e9cff)")
		})

		Convey("Then an empty name should still get a colour", func() {
			So(names.AvatarColor(""), ShouldNotBeEmpty)
		})

		Convey("Then initials should use first and last words", func() {
			So(names.Initials("Ansari mohd Rahil Zakir Hussain"), ShouldEqual, "AH")
			So(names.Initials("anshu patil"), ShouldEqual, "AP")
			So(names.Initials("Ayush"), ShouldEqual, "AY")
			So(names.Initials("J"), ShouldEqual, "J")
			So(names.Initials("   "), ShouldEqual, "")
		})
	})
}

func TestCollator(t *testing.T) {
	Convey("Given names in mixed case", t, func() {
		list := []string{"bob", "Alice", "carol", "Bea"}
		c := names.NewCollator()
		sort.SliceStable(list, func(i, j int) bool { return c.CompareString(list[i], list[j]) < 0 })

		Convey("Then the collator should order them ignoring case", func() {
			So(list, ShouldResemble, []string{"Alice", "Bea", "bob", "carol"})
		})
	})
}
