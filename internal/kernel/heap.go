package kernel

import "container/heap"

// eventHeap implements container/heap.Interface over *Event, ordered by
// (time, priority, seq). Grounded on the doubleZero liveness scheduler's
// eventHeap (_examples/other_examples), which uses the identical
// (when, seq) min-heap shape for deterministic event ordering.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool { return h[i].less(h[j]) }

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

var _ heap.Interface = (*eventHeap)(nil)
