package kernel

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type stubEntity struct {
	*BaseEntity
	initCount int
}

func newStubEntity(tl *Timeline, name string) *stubEntity {
	e := &stubEntity{BaseEntity: NewBaseEntity(tl, name)}
	tl.Register(e)
	return e
}

func (e *stubEntity) Init() {
	e.initCount++
	e.MarkInitialized()
}

func TestTimelineOrdering(t *testing.T) {
	Convey("Given a Timeline with several entities", t, func() {
		tl := New(1_000_000, 1, nil)
		a := newStubEntity(tl, "a")
		b := newStubEntity(tl, "b")

		Convey("It dispatches events in (time, priority, seq) order", func() {
			var order []string

			tl.ScheduleFunc(30, DefaultPriority, a, "late", func() {
				order = append(order, "late")
			})
			tl.ScheduleFunc(10, DefaultPriority, a, "early", func() {
				order = append(order, "early")
			})
			tl.ScheduleFunc(10, 0, b, "early-high-priority", func() {
				order = append(order, "early-high-priority")
			})

			tl.Run()

			So(order, ShouldResemble, []string{"early-high-priority", "early", "late"})
			So(tl.Now(), ShouldEqual, 30)
			So(tl.EventsExecuted(), ShouldEqual, 3)
		})

		Convey("It breaks ties at equal (time, priority) by insertion order", func() {
			var order []string
			for i := 0; i < 5; i++ {
				i := i
				tl.ScheduleFunc(5, DefaultPriority, a, "tie", func() {
					order = append(order, string(rune('0'+i)))
				})
			}
			tl.Run()
			So(order, ShouldResemble, []string{"0", "1", "2", "3", "4"})
		})

		Convey("It stops at the horizon without dispatching events at or past it", func() {
			var ran bool
			tl.ScheduleFunc(999_999, DefaultPriority, a, "within", func() { ran = true })
			tl.ScheduleFunc(1_000_000, DefaultPriority, a, "at-horizon", func() { ran = true })
			tl.Run()
			So(ran, ShouldBeTrue)
			So(tl.EventsExecuted(), ShouldEqual, 1)
		})

		Convey("It never moves now backward, even across many dispatches", func() {
			var lastNow int64
			monotonic := true
			for t := int64(1); t <= 50; t++ {
				t := t
				tl.ScheduleFunc(t, DefaultPriority, a, "tick", func() {
					if tl.Now() < lastNow {
						monotonic = false
					}
					lastNow = tl.Now()
				})
			}
			tl.Run()
			So(monotonic, ShouldBeTrue)
			So(tl.Now(), ShouldEqual, 50)
		})

		Convey("It skips removed events without executing them", func() {
			var ran bool
			ev := tl.ScheduleFunc(10, DefaultPriority, a, "cancellable", func() { ran = true })
			tl.RemoveEvent(ev)
			tl.Run()
			So(ran, ShouldBeFalse)
			So(tl.EventsExecuted(), ShouldEqual, 0)
		})

		Convey("Init runs exactly once per entity, in registration order", func() {
			tl.Init()
			tl.Init()
			So(a.initCount, ShouldEqual, 1)
			So(b.initCount, ShouldEqual, 1)
			So(a.Initialized(), ShouldBeTrue)
		})

		Convey("Scheduling into the past panics with a MisuseError", func() {
			tl.ScheduleFunc(10, DefaultPriority, a, "advance", func() {})
			tl.Run()
			var recovered any
			func() {
				defer func() { recovered = recover() }()
				tl.ScheduleFunc(0, DefaultPriority, a, "too-late", func() {})
			}()
			So(recovered, ShouldResemble, &MisuseError{Op: "schedule", Msg: "event time 0 is before now (10)"})
		})

		Convey("Registering a duplicate entity name panics with a MisuseError", func() {
			So(func() {
				newStubEntity(tl, "a")
			}, ShouldPanic)
		})

		Convey("Stop truncates the horizon so Run exits after the current event", func() {
			var secondRan bool
			tl.ScheduleFunc(10, DefaultPriority, a, "stopper", func() {
				tl.Stop()
			})
			tl.ScheduleFunc(20, DefaultPriority, a, "after-stop", func() {
				secondRan = true
			})
			tl.Run()
			So(secondRan, ShouldBeFalse)
			So(tl.Now(), ShouldEqual, 10)
		})
	})
}
