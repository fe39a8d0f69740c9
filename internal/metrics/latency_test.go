package metrics

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLatencyDigest(t *testing.T) {
	Convey("Given an empty digest", t, func() {
		d := NewLatencyDigest()

		Convey("Its percentile and mean are zero", func() {
			So(d.Count(), ShouldEqual, 0)
			So(d.Mean(), ShouldEqual, 0)
			So(d.Percentile(0.5), ShouldEqual, 0)
		})

		Convey("When recording a run of uniform samples", func() {
			for i := 0; i < 200; i++ {
				d.Record(100)
			}

			Convey("Mean and percentiles converge on the constant value", func() {
				So(d.Count(), ShouldEqual, 200)
				So(d.Mean(), ShouldEqual, 100)
				So(d.Percentile(0.5), ShouldEqual, 100)
				So(d.Percentile(0.99), ShouldEqual, 100)
			})
		})

		Convey("When recording an increasing sequence of samples", func() {
			for i := int64(1); i <= 100; i++ {
				d.Record(i)
			}

			Convey("P99 is near the top of the range and P50 is near the middle", func() {
				So(d.Percentile(0.99), ShouldBeGreaterThan, 90)
				p50 := d.Percentile(0.5)
				So(p50, ShouldBeGreaterThan, 30)
				So(p50, ShouldBeLessThan, 70)
			})
		})
	})
}
