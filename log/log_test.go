package log

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup should not touch the filesystem", func() {
			So(Setup(), ShouldBeNil)
			entries := lo.Must(filesystem.API().ReadDir(where.Logs()))
			So(entries, ShouldBeEmpty)
		})

		Convey("WithFields should still be safe to use", func() {
			So(func() { WithFields(Fields{"url": "x"}).Info("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		Convey("Setup should create a daily log file", func() {
			So(Setup(), ShouldBeNil)
			Info("hello")
			entries := lo.Must(filesystem.API().ReadDir(where.Logs()))
			So(entries, ShouldHaveLength, 1)
		})
	})
}
