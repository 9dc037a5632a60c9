package session

import (
	"path/filepath"
	"testing"

	"github.com/csams/nutshell/internal/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSession(t *testing.T) {
	Convey("Given an empty session store", t, func() {
		path := filepath.Join(t.TempDir(), "session.json")
		store := New(path)

		Convey("Take finds nothing", func() {
			stash, err := store.Take()
			So(err, ShouldBeNil)
			So(stash.IsAbsent(), ShouldBeTrue)
		})

		Convey("An empty slug is rejected", func() {
			So(store.Put("/show", "  "), ShouldNotBeNil)
		})

		Convey("When a slug is stashed", func() {
			So(store.Put("/news-in-a-nutshell", "big-week"), ShouldBeNil)

			Convey("Take returns it once", func() {
				stash, err := store.Take()
				So(err, ShouldBeNil)
				So(stash.IsPresent(), ShouldBeTrue)
				So(stash.MustGet().Slug, ShouldEqual, "big-week")
				So(stash.MustGet().ShowPath, ShouldEqual, "/news-in-a-nutshell")

				again, err := store.Take()
				So(err, ShouldBeNil)
				So(again.IsAbsent(), ShouldBeTrue)
			})

			Convey("A second store on the same file sees it", func() {
				stash, err := New(path).Take()
				So(err, ShouldBeNil)
				So(stash.MustGet().Slug, ShouldEqual, "big-week")
			})
		})
	})
}
