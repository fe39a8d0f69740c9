package kernel

import (
	"container/heap"
	"math/rand/v2"

	"github.com/theapemachine/qsim/internal/telemetry"
)

// Timeline owns the min-priority queue of Events, the current simulated
// time, a stop horizon, and the registry of entities (SPEC_FULL.md §4.2).
// It drains the queue in (time, priority, seq) order until empty or the
// horizon is reached.
//
// Randomness used anywhere in the simulation draws from the Timeline's
// injected, seedable *rand.Rand (SPEC_FULL.md §9) rather than any global
// RNG state - this is the redesign called for in place of the source's
// module-level random.random_sample() calls.
type Timeline struct {
	now     int64
	horizon int64
	queue   eventHeap
	seq     uint64

	entities     map[string]Entity
	registration []string

	eventsExecuted int64
	running        bool
	initialized    bool

	rng *rand.Rand
	log *telemetry.Logger
}

// New constructs a Timeline with the given stop horizon (in picoseconds)
// and RNG seed. log may be nil, in which case a no-op logger is used.
func New(horizon int64, seed int64, log *telemetry.Logger) *Timeline {
	if log == nil {
		log = telemetry.Noop()
	}
	return &Timeline{
		horizon:  horizon,
		entities: make(map[string]Entity),
		rng:      rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1)+1)),
		log:      log.With("timeline"),
	}
}

// Now returns the current simulated time in picoseconds.
func (t *Timeline) Now() int64 { return t.now }

// Horizon returns the current stop horizon.
func (t *Timeline) Horizon() int64 { return t.horizon }

// EventsExecuted returns the number of non-removed events dispatched so
// far.
func (t *Timeline) EventsExecuted() int64 { return t.eventsExecuted }

// RNG returns the Timeline's injected deterministic random source. Channels
// and other entities must draw randomness from here, never from a
// package-global generator.
func (t *Timeline) RNG() *rand.Rand { return t.rng }

// Log returns the Timeline's logger, for entities that want to derive a
// scoped child logger via Log().With(name).
func (t *Timeline) Log() *telemetry.Logger { return t.log }

// register installs e into the entity registry under e.Name(). Duplicate
// names are programmer misuse and fail fast (SPEC_FULL.md §4.3/§4.9).
func (t *Timeline) register(e Entity) {
	name := e.Name()
	if _, exists := t.entities[name]; exists {
		failMisuse("register", "duplicate entity name %q", name)
	}
	t.entities[name] = e
	t.registration = append(t.registration, name)
	t.log.Debug("registered entity %q", name)
}

// Register installs e into the entity registry. Concrete entity
// constructors call this once their value (embedding BaseEntity and
// implementing Entity) is fully built.
func (t *Timeline) Register(e Entity) {
	t.register(e)
}

// Entity looks up a registered entity by name, or returns nil.
func (t *Timeline) Entity(name string) Entity {
	return t.entities[name]
}

// Schedule inserts a new Event built from a process at the given time and
// priority, returning it so the caller can later Invalidate it. Scheduling
// into the past is programmer misuse and fails fast.
func (t *Timeline) Schedule(time, priority int64, process *Process) *Event {
	if time < t.now {
		failMisuse("schedule", "event time %d is before now (%d)", time, t.now)
	}
	t.seq++
	e := &Event{
		Time:     time,
		Priority: priority,
		Process:  process,
		seq:      t.seq,
	}
	heap.Push(&t.queue, e)
	t.log.Debug("scheduled %s/%s at t=%d priority=%d seq=%d", process.OwnerName, process.Label, time, priority, e.seq)
	return e
}

// ScheduleFunc is a convenience wrapper over Schedule for callers that want
// to build the Process inline.
func (t *Timeline) ScheduleFunc(time, priority int64, owner Entity, label string, fn func()) *Event {
	return t.Schedule(time, priority, NewProcess(owner, label, fn))
}

// RemoveEvent marks e removed (lazy deletion); it stays physically in the
// queue and is skipped when popped.
func (t *Timeline) RemoveEvent(e *Event) {
	e.Invalidate()
}

// Init calls Init exactly once on each registered entity, in registration
// order (SPEC_FULL.md §4.2). A second call is a no-op: the Timeline itself
// guarantees the single-invocation contract rather than trusting every
// Entity to track its own idempotency.
func (t *Timeline) Init() {
	if t.initialized {
		t.log.Debug("Init called again, ignoring")
		return
	}
	t.initialized = true
	for _, name := range t.registration {
		ent := t.entities[name]
		t.log.Debug("initializing entity %q", name)
		ent.Init()
	}
}

// Stop sets the horizon to the current time, causing Run to exit after the
// event presently being processed.
func (t *Timeline) Stop() {
	t.horizon = t.now
}

// Run pops events in (time, priority, seq) order. For each non-removed
// event it advances now to the event's time, runs its process, and
// increments the dispatch counter. The loop stops when the queue empties or
// the next event's time reaches the horizon.
func (t *Timeline) Run() {
	t.running = true
	defer func() { t.running = false }()

	for t.queue.Len() > 0 {
		next := t.queue[0]
		if next.Time >= t.horizon {
			t.log.Debug("horizon reached at t=%d, next event at t=%d", t.horizon, next.Time)
			return
		}
		ev := heap.Pop(&t.queue).(*Event)
		if ev.removed {
			t.log.Debug("skipping removed event %s/%s (was t=%d)", ev.Process.OwnerName, ev.Process.Label, ev.Time)
			continue
		}

		t.now = ev.Time
		t.log.Debug("dispatching %s/%s at t=%d", ev.Process.OwnerName, ev.Process.Label, ev.Time)
		ev.Process.Run()
		t.eventsExecuted++
	}
}

// Running reports whether Run is currently draining the queue (useful for
// entities that want to assert they are being called from within a
// handler).
func (t *Timeline) Running() bool { return t.running }
