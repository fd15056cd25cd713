package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPatch(t *testing.T) {
	Convey("Given a user", t, func() {
		u := User{ID: "id-1", Name: "John", Age: 25}

		Convey("When applying an empty patch", func() {
			p := Patch{}
			got := p.Apply(u)

			Convey("Then nothing changes", func() {
				So(p.Empty(), ShouldBeTrue)
				So(got, ShouldResemble, u)
			})
		})

		Convey("When applying only an age", func() {
			age := 26.0
			got := Patch{Age: &age}.Apply(u)

			Convey("Then only age changes", func() {
				So(got.ID, ShouldEqual, "id-1")
				So(got.Name, ShouldEqual, "John")
				So(got.Age, ShouldEqual, 26.0)
			})
		})

		Convey("When applying name and age", func() {
			name := "Johnny"
			age := 30.0
			p := Patch{Name: &name, Age: &age}
			got := p.Apply(u)

			Convey("Then both change and the original is untouched", func() {
				So(p.Empty(), ShouldBeFalse)
				So(got, ShouldResemble, User{ID: "id-1", Name: "Johnny", Age: 30})
				So(u.Name, ShouldEqual, "John")
			})
		})
	})
}
