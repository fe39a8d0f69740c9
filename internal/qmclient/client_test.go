package qmclient

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/theapemachine/qsim/internal/qvalue"
	"github.com/theapemachine/qsim/internal/regulator"
)

func TestClient(t *testing.T) {
	Convey("Given a Client over a fresh Store with no breaker", t, func() {
		client := New(qvalue.NewStore(), nil, nil)

		Convey("NewState/Get/Set/Remove round-trip", func() {
			key, err := client.NewState([]complex128{1, 0})
			So(err, ShouldBeNil)

			state, err := client.Get(key)
			So(err, ShouldBeNil)
			So(state.Amplitudes, ShouldResemble, []complex128{1, 0})

			So(client.Set(key, []complex128{0, 1}), ShouldBeNil)
			state, _ = client.Get(key)
			So(state.Amplitudes, ShouldResemble, []complex128{0, 1})

			So(client.Remove(key), ShouldBeNil)
			_, err = client.Get(key)
			So(err, ShouldEqual, qvalue.ErrNotFound)
		})
	})

	Convey("Given a Client guarded by a circuit breaker", t, func() {
		breaker := regulator.NewCircuitBreaker(2, time.Hour, 1, nil)
		client := New(qvalue.NewStore(), breaker, nil)

		Convey("Repeated simulated failures open the circuit and reject further calls", func() {
			client.SimulateFailure()
			_, err := client.NewState(nil)
			So(err, ShouldNotBeNil)

			client.SimulateFailure()
			_, err = client.NewState(nil)
			So(err, ShouldNotBeNil)

			_, err = client.NewState(nil)
			So(err, ShouldEqual, ErrCircuitOpen)
		})
	})
}
