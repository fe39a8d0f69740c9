// Package metrics provides a t-digest latency tracker for the
// REQUEST/RESPONSE round-trip time ResourceManager measures in simulated
// picoseconds, adapted from qpool's prometheus-style job-latency
// percentile tracking.
package metrics

import (
	"math"
	"sort"
)

// centroid is one t-digest cluster: a mean value and the sample count it
// summarizes.
type centroid struct {
	mean  float64
	count int64
}

// LatencyDigest estimates latency percentiles from a stream of
// picosecond samples without retaining every sample, using a t-digest.
// Unlike the teacher's version, samples are plain int64 picoseconds
// (simulated time) rather than time.Duration measured against a wall
// clock, and there is no mutex: ResourceManager calls are never
// concurrent with one another (SPEC_FULL.md §5 - single-threaded
// dispatch).
type LatencyDigest struct {
	centroids    []centroid
	compression  float64
	totalWeight  int64
	maxCentroids int

	count int64
	total int64
}

// NewLatencyDigest constructs an empty digest.
func NewLatencyDigest() *LatencyDigest {
	return &LatencyDigest{
		compression:  100,
		maxCentroids: 100,
		centroids:    make([]centroid, 0, 100),
	}
}

// Record adds one picosecond latency sample.
func (d *LatencyDigest) Record(picoseconds int64) {
	d.count++
	d.total += picoseconds

	value := float64(picoseconds)
	d.totalWeight++

	if len(d.centroids) == 0 {
		d.centroids = append(d.centroids, centroid{mean: value, count: 1})
		return
	}

	idx := sort.Search(len(d.centroids), func(i int) bool {
		return d.centroids[i].mean >= value
	})

	q := d.quantileAt(value)
	maxWeight := int64(4 * d.compression * math.Min(q, 1-q))

	inserted := false
	if idx < len(d.centroids) && d.centroids[idx].count < maxWeight {
		c := &d.centroids[idx]
		c.mean = (c.mean*float64(c.count) + value) / float64(c.count+1)
		c.count++
		inserted = true
	} else if idx > 0 && d.centroids[idx-1].count < maxWeight {
		c := &d.centroids[idx-1]
		c.mean = (c.mean*float64(c.count) + value) / float64(c.count+1)
		c.count++
		inserted = true
	}

	if !inserted {
		d.centroids = append(d.centroids, centroid{})
		copy(d.centroids[idx+1:], d.centroids[idx:])
		d.centroids[idx] = centroid{mean: value, count: 1}
	}

	if len(d.centroids) > d.maxCentroids {
		d.compress()
	}
}

func (d *LatencyDigest) quantileAt(value float64) float64 {
	rank := 0.0
	for _, c := range d.centroids {
		if c.mean < value {
			rank += float64(c.count)
		}
	}
	if d.totalWeight == 0 {
		return 0
	}
	return rank / float64(d.totalWeight)
}

func (d *LatencyDigest) compress() {
	if len(d.centroids) <= 1 {
		return
	}
	sort.Slice(d.centroids, func(i, j int) bool { return d.centroids[i].mean < d.centroids[j].mean })

	merged := make([]centroid, 0, d.maxCentroids)
	current := d.centroids[0]
	for i := 1; i < len(d.centroids); i++ {
		if current.count+d.centroids[i].count <= int64(d.compression) {
			total := current.count + d.centroids[i].count
			current.mean = (current.mean*float64(current.count) + d.centroids[i].mean*float64(d.centroids[i].count)) / float64(total)
			current.count = total
		} else {
			merged = append(merged, current)
			current = d.centroids[i]
		}
	}
	merged = append(merged, current)
	d.centroids = merged
}

// Percentile estimates the p-th percentile (p in [0,1]) latency in
// picoseconds.
func (d *LatencyDigest) Percentile(p float64) int64 {
	if len(d.centroids) == 0 {
		return 0
	}

	targetRank := p * float64(d.totalWeight)
	cumulative := 0.0

	for i, c := range d.centroids {
		cumulative += float64(c.count)
		if cumulative >= targetRank {
			if i > 0 {
				prev := d.centroids[i-1]
				prevCumulative := cumulative - float64(c.count)
				t := (targetRank - prevCumulative) / float64(c.count)
				return int64(prev.mean + t*(c.mean-prev.mean))
			}
			return int64(c.mean)
		}
	}
	return int64(d.centroids[len(d.centroids)-1].mean)
}

// Count returns the number of samples recorded.
func (d *LatencyDigest) Count() int64 { return d.count }

// Mean returns the arithmetic mean of all recorded samples, in
// picoseconds.
func (d *LatencyDigest) Mean() int64 {
	if d.count == 0 {
		return 0
	}
	return d.total / d.count
}
