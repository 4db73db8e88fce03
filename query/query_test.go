package query

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowURLSuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given remembered URLs", t, func() {
		viper.Set(key.SearchShowURLSuggestions, true)
		So(cacher.Set(make(map[string]*urlRecord)), ShouldBeNil)

		So(Remember([]string{"https://example.com/watch?v=one", "  "}, 1), ShouldBeNil)
		So(Remember([]string{"https://example.com/watch?v=two"}, 10), ShouldBeNil)

		Convey("Suggestions should be sorted by rank", func() {
			s := SuggestMany("example")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "https://example.com/watch?v=two")
		})

		Convey("Matching should ignore case", func() {
			So(Suggest("EXAMPLE.com").IsPresent(), ShouldBeTrue)
		})

		Convey("Blank entries should not be stored", func() {
			So(SuggestMany("   "), ShouldBeEmpty)
		})

		Convey("Remembering again should promote a URL", func() {
			So(Remember([]string{"https://example.com/watch?v=one"}, 20), ShouldBeNil)
			So(Suggest("example").MustGet(), ShouldEqual, "https://example.com/watch?v=one")
		})

		Convey("Unrelated input should yield nothing", func() {
			So(Suggest("zzzz-nothing").IsAbsent(), ShouldBeTrue)
		})

		Convey("Suggestions can be disabled", func() {
			viper.Set(key.SearchShowURLSuggestions, false)
			So(SuggestMany("example"), ShouldBeEmpty)
		})
	})
}

func TestQueryConcurrent(t *testing.T) {
	Convey("Given URLs remembered in the background while suggesting", t, func() {
		viper.Set(key.SearchShowURLSuggestions, true)
		So(cacher.Set(make(map[string]*urlRecord)), ShouldBeNil)
		So(Remember([]string{"https://example.com/watch?v=seed"}, 1), ShouldBeNil)

		var wg sync.WaitGroup
		errs := make(chan error, 50)

		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				errs <- Remember([]string{fmt.Sprintf("https://example.com/watch?v=%d", i%5)}, 1)
			}(i)
			go func() {
				defer wg.Done()
				_ = SuggestMany("example")
			}()
		}

		wg.Wait()
		close(errs)

		Convey("Every write should succeed", func() {
			for err := range errs {
				So(err, ShouldBeNil)
			}
		})

		Convey("Ranks should account for every write", func() {
			s := SuggestMany("example")
			So(s, ShouldHaveLength, 6)
			So(s[len(s)-1], ShouldEqual, "https://example.com/watch?v=seed")
		})
	})
}
