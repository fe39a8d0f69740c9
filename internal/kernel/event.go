package kernel

// Event binds a Process to a firing time and a priority, carrying a logical
// "removed" flag for lazy in-queue cancellation (SPEC_FULL.md §4.1).
//
// Ordering key is (Time, Priority, seq): seq is assigned by the Timeline at
// schedule time so that two events sharing (Time, Priority) fire in
// insertion order, per §8's ordering invariant.
type Event struct {
	Time     int64
	Priority int64
	Process  *Process
	removed  bool
	seq      uint64
}

// DefaultPriority is used when a caller does not care about tie-breaking
// against other events at the same time.
const DefaultPriority int64 = 1<<63 - 1

// Invalidate marks the event removed. It remains physically in the queue
// and is skipped (not executed) when popped - a lazy delete, matching the
// teacher's and the doubleZero-scheduler's "stale event" handling.
func (e *Event) Invalidate() {
	e.removed = true
}

// Removed reports whether Invalidate has been called.
func (e *Event) Removed() bool {
	return e.removed
}

// less implements the (time, priority, seq) total order used by the heap.
func (e *Event) less(other *Event) bool {
	if e.Time != other.Time {
		return e.Time < other.Time
	}
	if e.Priority != other.Priority {
		return e.Priority < other.Priority
	}
	return e.seq < other.seq
}
