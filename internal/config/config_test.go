package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := Default()

		Convey("It should validate cleanly", func() {
			So(Validate(cfg), ShouldBeNil)
		})
	})
}

func TestLoadWithoutFile(t *testing.T) {
	Convey("Given no config file path", t, func() {
		cfg, err := Load("")

		Convey("It should fall back to defaults and validate", func() {
			So(err, ShouldBeNil)
			So(cfg.Channel.FrequencyHz, ShouldEqual, Default().Channel.FrequencyHz)
		})
	})
}

func TestValidateRejectsBadConfig(t *testing.T) {
	Convey("Given a config with a non-positive frequency", t, func() {
		cfg := Default()
		cfg.Channel.FrequencyHz = 0

		Convey("Validate should reject it", func() {
			So(Validate(cfg), ShouldNotBeNil)
		})
	})

	Convey("Given a config with a negative horizon", t, func() {
		cfg := Default()
		cfg.HorizonPs = -1

		Convey("Validate should reject it", func() {
			So(Validate(cfg), ShouldNotBeNil)
		})
	})

	Convey("Given a config with a non-positive attenuation-adjacent light speed", t, func() {
		cfg := Default()
		cfg.Channel.LightSpeedMPerPs = 0

		Convey("Validate should reject it", func() {
			So(Validate(cfg), ShouldNotBeNil)
		})
	})
}
