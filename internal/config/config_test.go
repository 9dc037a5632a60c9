package config

import (
	"testing"
	"time"

	"github.com/csams/nutshell/internal/filesystem"
	"github.com/csams/nutshell/internal/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given a fresh configuration", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Defaults are registered", func() {
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
			So(viper.GetInt(key.ListingPageSize), ShouldEqual, 9)
			So(viper.GetDuration(key.ListingSearchDelay), ShouldEqual, 300*time.Millisecond)
			So(viper.GetDuration(key.CacheMaxAge), ShouldEqual, time.Duration(0))
		})

		Convey("The default shows decode", func() {
			shows, err := Shows()
			So(err, ShouldBeNil)
			So(len(shows), ShouldEqual, 2)
			So(shows[0].Slug, ShouldEqual, "news-in-a-nutshell")
			So(len(shows[0].Platforms), ShouldEqual, 3)
			So(shows[0].SourcesLocation("2025-06-08T01-25-50"), ShouldContainSubstring, "news-in-a-nutshell/2025-06-08T01-25-50")
		})

		Convey("An empty slug resolves the default show", func() {
			show, err := Show("")
			So(err, ShouldBeNil)
			So(show.Name, ShouldEqual, "News in a Nutshell")
		})

		Convey("An unknown slug is an error", func() {
			_, err := Show("does-not-exist")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEnvKeyReplacer(t *testing.T) {
	if got := EnvKeyReplacer.Replace("listing.page_size"); got != "listing_page_size" {
		t.Errorf("Expected 'listing_page_size', got '%s'", got)
	}
}
