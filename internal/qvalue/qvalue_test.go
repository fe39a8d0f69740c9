package qvalue

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTopic(t *testing.T) {
	Convey("Given a Topic of strings", t, func() {
		topic := NewTopic[string]()

		Convey("Publish invokes subscribers in registration order", func() {
			var order []string
			topic.Attach(func(v string) { order = append(order, "a:"+v) })
			topic.Attach(func(v string) { order = append(order, "b:"+v) })

			topic.Publish("x")

			So(order, ShouldResemble, []string{"a:x", "b:x"})
		})

		Convey("Detach stops future notifications", func() {
			var calls int
			id := topic.Attach(func(v string) { calls++ })
			topic.Detach(id)

			topic.Publish("x")

			So(calls, ShouldEqual, 0)
		})

		Convey("Len reports only active subscriptions", func() {
			id1 := topic.Attach(func(v string) {})
			topic.Attach(func(v string) {})
			topic.Detach(id1)

			So(topic.Len(), ShouldEqual, 1)
		})
	})
}

func TestStore(t *testing.T) {
	Convey("Given an empty Store", t, func() {
		store := NewStore()

		Convey("New allocates a handle whose state is retrievable", func() {
			key := store.New([]complex128{1, 0})
			state, err := store.Get(key)
			So(err, ShouldBeNil)
			So(state.Amplitudes, ShouldResemble, []complex128{1, 0})
		})

		Convey("Get on an unknown handle returns ErrNotFound", func() {
			_, err := store.Get(999)
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("Set overwrites an existing handle's amplitudes", func() {
			key := store.New([]complex128{1, 0})
			err := store.Set(key, []complex128{0, 1})
			So(err, ShouldBeNil)

			state, _ := store.Get(key)
			So(state.Amplitudes, ShouldResemble, []complex128{0, 1})
		})

		Convey("Set on an unallocated handle returns ErrNotFound", func() {
			err := store.Set(42, []complex128{1, 0})
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("Remove deletes a handle so subsequent Get fails", func() {
			key := store.New([]complex128{1, 0})
			So(store.Remove(key), ShouldBeNil)

			_, err := store.Get(key)
			So(err, ShouldEqual, ErrNotFound)
		})
	})
}
