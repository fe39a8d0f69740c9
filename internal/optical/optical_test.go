package optical

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/theapemachine/qsim/internal/kernel"
	"github.com/theapemachine/qsim/internal/topology"
)

type stubNode struct {
	name     string
	received []string
	msgTypes []string
}

func newStubNode(name string) *stubNode { return &stubNode{name: name} }

func (n *stubNode) Name() string                                    { return n.name }
func (n *stubNode) AssignQChannel(ch any, peerName string)          {}
func (n *stubNode) AssignCChannel(ch any, peerName string)          {}
func (n *stubNode) ReceiveQubit(srcName string, qubit topology.Qubit) {
	n.received = append(n.received, "qubit:"+srcName)
}
func (n *stubNode) ReceiveMessage(srcName string, msg topology.Message) {
	n.received = append(n.received, "message:"+srcName)
	n.msgTypes = append(n.msgTypes, msg.MsgType())
}

type stubMessage struct{ typ string }

func (m stubMessage) MsgType() string  { return m.typ }
func (m stubMessage) Receiver() string { return "" }

type stubQubit struct {
	enc    topology.EncodingType
	null   bool
	noised bool
}

func (q *stubQubit) EncodingType() topology.EncodingType { return q.enc }
func (q *stubQubit) IsNull() bool                        { return q.null }
func (q *stubQubit) RandomNoise()                        { q.noised = true }

func TestClassicalChannelDelivery(t *testing.T) {
	Convey("Given a ClassicalChannel with delay=100 between A and B", t, func() {
		tl := kernel.New(10_000, 1, nil)
		a := newStubNode("A")
		b := newStubNode("B")
		delay := int64(100)
		ch := NewClassicalChannel(tl, "cc", 0, &delay)
		ch.SetEnds(a, b)
		tl.Init()

		Convey("A transmitting at now=0 delivers to B at now=100", func() {
			ch.Transmit(stubMessage{typ: "hello"}, a, 0)
			tl.Run()
			So(tl.Now(), ShouldEqual, 100)
			So(b.received, ShouldResemble, []string{"message:A"})
		})

		Convey("Transmitting from a non-endpoint panics", func() {
			stranger := newStubNode("C")
			So(func() {
				ch.Transmit(stubMessage{typ: "hello"}, stranger, 0)
			}, ShouldPanic)
		})

		Convey("Messages sent in order with equal priority arrive in order", func() {
			ch.Transmit(stubMessage{typ: "first"}, a, 5)
			ch.Transmit(stubMessage{typ: "second"}, a, 5)
			tl.Run()
			So(b.received, ShouldResemble, []string{"message:A", "message:A"})
			So(b.msgTypes, ShouldResemble, []string{"first", "second"})
		})
	})
}

func TestQuantumChannelTimeBinArbitration(t *testing.T) {
	Convey("Given a QuantumChannel at frequency=2e6 Hz", t, func() {
		tl := kernel.New(10_000_000, 1, nil)
		ch := NewQuantumChannel(tl, "qc", 0.0002, 1000, 1, 0, 2e6)
		tl.Init()

		Convey("Three reservations from now=0 land on bin width boundaries", func() {
			t1 := ch.ScheduleTransmit(0)
			t2 := ch.ScheduleTransmit(0)
			t3 := ch.ScheduleTransmit(0)
			So(t1, ShouldEqual, 0)
			So(t2, ShouldEqual, 500000)
			So(t3, ShouldEqual, 1000000)
		})
	})
}

func TestQuantumChannelLoss(t *testing.T) {
	Convey("Given a QuantumChannel with distance=100km, attenuation=0.0002 dB/m", t, func() {
		tl := kernel.New(1<<40, 42, nil)
		a := newStubNode("A")
		b := newStubNode("B")
		ch := NewQuantumChannel(tl, "qc", 0.0002, 100_000, 1, 0, 0)
		ch.SetEnds(a, b)
		tl.Init()

		Convey("loss derives to 0.99", func() {
			So(ch.Loss(), ShouldAlmostEqual, 0.99, 1e-9)
		})

		Convey("Transmitting with no outstanding reservations at all is allowed (nothing to reconcile)", func() {
			q := &stubQubit{enc: topology.EncodingType{Name: "time_bin"}}
			So(func() { ch.Transmit(q, a) }, ShouldNotPanic)
		})

		Convey("Transmitting when the earliest reservation is still in the future panics", func() {
			ch.ScheduleTransmit(tl.Now() + 10)
			q := &stubQubit{enc: topology.EncodingType{Name: "time_bin"}}
			So(func() { ch.Transmit(q, a) }, ShouldPanic)
		})

		Convey("Over many non-null transmits, delivered fraction is close to 1-loss", func() {
			delivered := 0
			const n = 20000
			for i := 0; i < n; i++ {
				q := &stubQubit{enc: topology.EncodingType{Name: "time_bin"}}
				when := ch.ScheduleTransmit(tl.Now())
				tl.ScheduleFunc(when, kernel.DefaultPriority, ch, "emit", func() {
					ch.Transmit(q, a)
				})
				tl.Run()
			}
			delivered = len(b.received)
			frac := float64(delivered) / float64(n)
			So(frac, ShouldAlmostEqual, 0.01, 0.01)
		})
	})
}
