// Package optical implements the two optical-channel entities that carry
// traffic between nodes: a lossless, delay-only ClassicalChannel and a
// lossy, time-bin-arbitrated QuantumChannel (SPEC_FULL.md §4.4/§4.5),
// grounded on original_source/src/components/optical_channel.py.
package optical

import (
	"github.com/theapemachine/qsim/internal/kernel"
	"github.com/theapemachine/qsim/internal/telemetry"
	"github.com/theapemachine/qsim/internal/topology"
)

// Channel is the shared base of ClassicalChannel and QuantumChannel: a pair
// of endpoints, physical distance, attenuation, polarization fidelity, and
// the light speed used for delay calculations.
type Channel struct {
	*kernel.BaseEntity

	ends                 [2]topology.Node
	endCount             int
	attenuation          float64
	distance             int64
	polarizationFidelity float64
	lightSpeed           float64

	log *telemetry.Logger
}

func newChannel(tl *kernel.Timeline, name string, attenuation float64, distance int64, polarizationFidelity, lightSpeed float64) Channel {
	return Channel{
		BaseEntity:           kernel.NewBaseEntity(tl, name),
		attenuation:          attenuation,
		distance:             distance,
		polarizationFidelity: polarizationFidelity,
		lightSpeed:           lightSpeed,
		log:                  tl.Log().With(name),
	}
}

// SetDistance updates the channel's physical distance. Callers must re-run
// Init to recompute derived delay/loss figures.
func (c *Channel) SetDistance(distance int64) { c.distance = distance }

// Distance returns the channel's configured distance in meters.
func (c *Channel) Distance() int64 { return c.distance }

func (c *Channel) addEnd(n topology.Node) {
	if c.endCount >= 2 {
		panic(&kernel.MisuseError{Op: "set_ends", Msg: "channel " + c.Name() + " already has two endpoints"})
	}
	c.ends[c.endCount] = n
	c.endCount++
}

// peerOf returns the endpoint on the far side of source, panicking (via
// MisuseError-shaped failure) if source is not a registered endpoint.
func (c *Channel) peerOf(source topology.Node) topology.Node {
	switch {
	case c.endCount < 2:
		kernelFailNotEndpoint(c.Name(), source)
	case c.ends[0] == source:
		return c.ends[1]
	case c.ends[1] == source:
		return c.ends[0]
	}
	kernelFailNotEndpoint(c.Name(), source)
	return nil
}

func kernelFailNotEndpoint(channel string, source topology.Node) {
	panic(&kernel.MisuseError{
		Op:  "transmit",
		Msg: "node " + source.Name() + " is not an endpoint of channel " + channel,
	})
}
