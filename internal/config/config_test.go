package config_test

import (
	"testing"

	"github.com/okian/navne/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataDir, convey.ShouldBeEmpty)
			convey.So(cfg.FemaleFile, convey.ShouldEqual, "pigenavne.txt")
			convey.So(cfg.MaleFile, convey.ShouldEqual, "drengenavne.txt")
			convey.So(cfg.UnisexFile, convey.ShouldEqual, "unisexnavne.txt")
			convey.So(cfg.Encoding, convey.ShouldEqual, "utf-8")
			convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 1000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then it should produce lookup options", func() {
			opts, err := cfg.LookupOptions()
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(opts), convey.ShouldEqual, 3)
		})
	})
}
