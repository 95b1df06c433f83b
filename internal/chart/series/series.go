// Package series defines the count samples plotted by the charts along with
// the domain bounds and nearest-sample lookup derived from them.
package series

import (
	"slices"
	"sort"
	"time"
)

// Sample is a single count observation.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Count     float64   `json:"count"`
	Flag      bool      `json:"flag,omitempty"`
}

// TimeDomain is the span of time a chart covers.
type TimeDomain struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the domain, bounds included.
func (d TimeDomain) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

// CountDomain is the span of counts a chart covers.
type CountDomain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Sort orders samples by timestamp, oldest first. Samples sharing a timestamp
// keep their relative order so the last one still wins when stepping.
func Sort(samples []Sample) {
	slices.SortStableFunc(samples, func(a, b Sample) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// IsSorted reports whether samples are in ascending timestamp order.
func IsSorted(samples []Sample) bool {
	return slices.IsSortedFunc(samples, func(a, b Sample) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// Index returns the index of the rightmost sample whose timestamp is at or
// before target, or -1 when target precedes every sample. Samples must be
// sorted ascending; the result is undefined otherwise.
func Index(samples []Sample, target time.Time) int {
	return sort.Search(len(samples), func(i int) bool {
		return samples[i].Timestamp.After(target)
	}) - 1
}

// Lookup returns the most recent sample at or before target.
func Lookup(samples []Sample, target time.Time) (Sample, bool) {
	idx := Index(samples, target)
	if idx < 0 {
		return Sample{}, false
	}
	return samples[idx], true
}

// Bounds holds the extents derived from a sample set.
type Bounds struct {
	DataStart time.Time
	DataEnd   time.Time
	Smallest  float64
	Largest   float64
	LastCount float64
	Empty     bool
}

// ComputeBounds derives the data extents of samples. The initial count takes
// part in the smallest/largest comparison because the step line starts there.
// With no samples both instants are now and both counts are zero.
func ComputeBounds(samples []Sample, initialCount float64, now time.Time) Bounds {
	if len(samples) == 0 {
		return Bounds{DataStart: now, DataEnd: now, Empty: true}
	}

	first := samples[0]
	last := samples[len(samples)-1]
	b := Bounds{
		DataStart: first.Timestamp,
		DataEnd:   last.Timestamp,
		Smallest:  initialCount,
		Largest:   initialCount,
		LastCount: last.Count,
	}
	for _, s := range samples {
		b.Smallest = min(b.Smallest, s.Count)
		b.Largest = max(b.Largest, s.Count)
	}
	return b
}

// Domain resolves the visible time domain. Explicit start or end values take
// precedence over the data extents.
func (b Bounds) Domain(start, end *time.Time) TimeDomain {
	d := TimeDomain{Start: b.DataStart, End: b.DataEnd}
	if start != nil {
		d.Start = *start
	}
	if end != nil {
		d.End = *end
	}
	return d
}

// Counts resolves the count domain. A capacity larger than the largest count
// extends the maximum.
func (b Bounds) Counts(capacity *float64) CountDomain {
	d := CountDomain{Min: b.Smallest, Max: b.Largest}
	if capacity != nil && *capacity > d.Max {
		d.Max = *capacity
	}
	return d
}
