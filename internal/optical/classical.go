package optical

import (
	"github.com/theapemachine/qsim/internal/kernel"
	"github.com/theapemachine/qsim/internal/topology"
)

// ClassicalChannel delivers Messages losslessly after a fixed delay
// (SPEC_FULL.md §4.4). Two Messages sent in order at equal priority and
// constant delay arrive in order, by the kernel's (time, priority, seq)
// ordering guarantee.
type ClassicalChannel struct {
	Channel
	delay int64
}

// NewClassicalChannel constructs a channel over distance meters at the
// default light speed. delayOverride, if non-nil, replaces the
// distance/light-speed derived delay (SPEC_FULL.md §3).
func NewClassicalChannel(tl *kernel.Timeline, name string, distance int64, delayOverride *int64) *ClassicalChannel {
	const defaultLightSpeed = 2e-4 // m/ps
	c := &ClassicalChannel{
		Channel: newChannel(tl, name, 0, distance, 0, defaultLightSpeed),
	}
	if delayOverride != nil {
		c.delay = *delayOverride
	} else {
		c.delay = int64(float64(distance) / defaultLightSpeed)
	}
	tl.Register(c)
	return c
}

// Delay returns the channel's fixed transmission delay in picoseconds.
func (c *ClassicalChannel) Delay() int64 { return c.delay }

// Init is a no-op: ClassicalChannel has no derived state beyond delay,
// which is fixed at construction (SPEC_FULL.md §4.4).
func (c *ClassicalChannel) Init() {
	c.MarkInitialized()
}

// SetEnds records both endpoints and informs each node of its peer
// (SPEC_FULL.md §4.4).
func (c *ClassicalChannel) SetEnds(a, b topology.Node) {
	c.addEnd(a)
	c.addEnd(b)
	a.AssignCChannel(c, b.Name())
	b.AssignCChannel(c, a.Name())
}

// Transmit schedules delivery of message to the peer of source at
// now+delay, with the given priority. Panics if source is not an endpoint.
func (c *ClassicalChannel) Transmit(message topology.Message, source topology.Node, priority int64) {
	receiver := c.peerOf(source)
	tl := c.Timeline()
	futureTime := tl.Now() + c.delay

	tl.ScheduleFunc(futureTime, priority, c, "receive_message", func() {
		receiver.ReceiveMessage(source.Name(), message)
	})
}
