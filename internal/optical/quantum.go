package optical

import (
	"container/heap"
	"math"

	"github.com/theapemachine/qsim/internal/kernel"
	"github.com/theapemachine/qsim/internal/topology"
)

// binHeap is a min-heap of reserved time-bin indices, used by QuantumChannel
// as its admission-control ledger (SPEC_FULL.md §4.5).
type binHeap []int64

func (h binHeap) Len() int            { return len(h) }
func (h binHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h binHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *binHeap) Push(x any)         { *h = append(*h, x.(int64)) }
func (h *binHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// QuantumChannel is a lossy, time-bin-arbitrated single-photon transport
// (SPEC_FULL.md §4.5), grounded on
// original_source/src/components/optical_channel.py's QuantumChannel.
type QuantumChannel struct {
	Channel

	frequency float64 // Hz, max qubits/sec
	delay     int64   // ps, derived at Init
	loss      float64 // in [0,1], derived at Init
	sendBins  binHeap
}

const (
	defaultQuantumLightSpeed = 2e-4 // m/ps
	defaultFrequency         = 8e7  // Hz
	binEpsilon               = 1e-5
)

// NewQuantumChannel constructs an uninitialized QuantumChannel. Init must
// run before Transmit/ScheduleTransmit are used.
func NewQuantumChannel(tl *kernel.Timeline, name string, attenuation float64, distance int64, polarizationFidelity, lightSpeed, frequency float64) *QuantumChannel {
	if lightSpeed == 0 {
		lightSpeed = defaultQuantumLightSpeed
	}
	if frequency == 0 {
		frequency = defaultFrequency
	}
	c := &QuantumChannel{
		Channel:   newChannel(tl, name, attenuation, distance, polarizationFidelity, lightSpeed),
		frequency: frequency,
		loss:      1, // uninitialized sentinel, matches original_source's delay=0/loss=1 pre-init state
	}
	tl.Register(c)
	return c
}

// Init derives delay and loss from distance/light-speed/attenuation
// (SPEC_FULL.md §3/§4.5).
func (c *QuantumChannel) Init() {
	c.delay = int64(math.Round(float64(c.Distance()) / c.lightSpeed))
	c.loss = 1 - math.Pow(10, float64(c.Distance())*c.attenuation/-10)
	c.MarkInitialized()
}

// Delay returns the derived one-way transmission delay in picoseconds.
func (c *QuantumChannel) Delay() int64 { return c.delay }

// Loss returns the derived photon-loss probability in [0,1].
func (c *QuantumChannel) Loss() float64 { return c.loss }

// SetEnds records both endpoints and informs each node of its peer
// (SPEC_FULL.md §4.5).
func (c *QuantumChannel) SetEnds(a, b topology.Node) {
	c.addEnd(a)
	c.addEnd(b)
	a.AssignQChannel(c, b.Name())
	b.AssignQChannel(c, a.Name())
}

// ScheduleTransmit reserves the earliest available time bin no earlier than
// minTime and returns its absolute time in picoseconds (SPEC_FULL.md §4.5).
func (c *QuantumChannel) ScheduleTransmit(minTime int64) int64 {
	now := c.Timeline().Now()
	if minTime < now {
		minTime = now
	}

	binWidth := 1e12 / c.frequency
	binF := float64(minTime) * (c.frequency / 1e12)
	var bin int64
	if binF-math.Trunc(binF) > binEpsilon {
		bin = int64(math.Trunc(binF)) + 1
	} else {
		bin = int64(math.Trunc(binF))
	}

	for containsBin(c.sendBins, bin) {
		bin++
	}
	heap.Push(&c.sendBins, bin)

	return int64(math.Round(float64(bin) * binWidth))
}

func containsBin(bins binHeap, bin int64) bool {
	for _, b := range bins {
		if b == bin {
			return true
		}
	}
	return false
}

// Transmit pops stale (already-elapsed) bin reservations, asserts the
// caller previously reserved the current instant via ScheduleTransmit, and
// probabilistically delivers the qubit to the peer of source after Delay
// (SPEC_FULL.md §4.5). Panics if Init has not run, or if source is not an
// endpoint.
func (c *QuantumChannel) Transmit(qubit topology.Qubit, source topology.Node) {
	if !c.Initialized() {
		panic(&kernel.MisuseError{Op: "transmit", Msg: "QuantumChannel " + c.Name() + " Init has not run"})
	}

	now := c.Timeline().Now()
	if c.sendBins.Len() > 0 {
		var t int64 = -1
		binWidth := 1e12 / c.frequency
		for t < now {
			if c.sendBins.Len() == 0 {
				panic(&kernel.MisuseError{Op: "transmit", Msg: "QuantumChannel " + c.Name() + " transmit called at an unreserved time"})
			}
			bin := heap.Pop(&c.sendBins).(int64)
			t = int64(math.Round(float64(bin) * binWidth))
		}
		if t != now {
			panic(&kernel.MisuseError{Op: "transmit", Msg: "QuantumChannel " + c.Name() + " transmit called at an unreserved time"})
		}
	}

	rng := c.Timeline().RNG()
	if rng.Float64() > c.loss || qubit.IsNull() {
		receiver := c.peerOf(source)

		if qubit.EncodingType().Name == "polarization" && rng.Float64() > c.polarizationFidelity {
			qubit.RandomNoise()
		}

		futureTime := now + c.delay
		c.Timeline().ScheduleFunc(futureTime, kernel.DefaultPriority, c, "receive_qubit", func() {
			receiver.ReceiveQubit(source.Name(), qubit)
		})
	}
}
