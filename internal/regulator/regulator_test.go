package regulator

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuitBreaker(t *testing.T) {
	Convey("Given a circuit breaker with maxFailures=3", t, func() {
		cb := NewCircuitBreaker(3, 50*time.Millisecond, 2, nil)

		Convey("It starts closed and allows calls", func() {
			So(cb.Limit(), ShouldBeFalse)
			So(cb.State(), ShouldEqual, CircuitClosed)
		})

		Convey("It opens after maxFailures consecutive failures", func() {
			cb.RecordFailure()
			cb.RecordFailure()
			cb.RecordFailure()

			So(cb.State(), ShouldEqual, CircuitOpen)
			So(cb.Limit(), ShouldBeTrue)
		})

		Convey("It transitions to half-open after resetTimeout and closes on success", func() {
			cb.RecordFailure()
			cb.RecordFailure()
			cb.RecordFailure()
			So(cb.State(), ShouldEqual, CircuitOpen)

			time.Sleep(60 * time.Millisecond)
			cb.Renormalize()
			So(cb.State(), ShouldEqual, CircuitHalfOpen)

			cb.RecordSuccess()
			cb.RecordSuccess()
			So(cb.State(), ShouldEqual, CircuitClosed)
		})

		Convey("A failure while half-open reopens the circuit", func() {
			cb.RecordFailure()
			cb.RecordFailure()
			cb.RecordFailure()
			time.Sleep(60 * time.Millisecond)
			cb.Renormalize()
			So(cb.State(), ShouldEqual, CircuitHalfOpen)

			cb.RecordFailure()
			So(cb.State(), ShouldEqual, CircuitOpen)
		})
	})
}

func TestRateLimiter(t *testing.T) {
	Convey("Given a rate limiter with 2 tokens and a long refill period", t, func() {
		rl := NewRateLimiter(2, time.Hour)

		Convey("The first two calls are not limited, the third is", func() {
			So(rl.Limit(), ShouldBeFalse)
			So(rl.Limit(), ShouldBeFalse)
			So(rl.Limit(), ShouldBeTrue)
		})
	})
}

func TestBackPressureRegulator(t *testing.T) {
	Convey("Given a back-pressure regulator with ceiling 1.0 churn/event", t, func() {
		bp := NewBackPressureRegulator(1.0)

		Convey("Low churn does not trigger limiting", func() {
			bp.Observe(&Metrics{EventsExecuted: 100, ProtocolsCreated: 10})
			So(bp.Limit(), ShouldBeFalse)
		})

		Convey("Churn at or above 80% of the ceiling triggers limiting", func() {
			bp.Observe(&Metrics{EventsExecuted: 100, ProtocolsCreated: 90})
			So(bp.Limit(), ShouldBeTrue)
		})

		Convey("Renormalize relaxes pressure once churn drops back down", func() {
			bp.Observe(&Metrics{EventsExecuted: 100, ProtocolsCreated: 90})
			So(bp.GetPressure(), ShouldBeGreaterThanOrEqualTo, 0.8)

			bp.Observe(&Metrics{EventsExecuted: 200, ProtocolsCreated: 91})
			bp.Renormalize()
			So(bp.GetPressure(), ShouldBeLessThan, 0.8)
		})
	})
}
