// Package scale maps numeric and time domains onto pixel ranges.
//
// Scales are linear and unclamped: values outside the domain extrapolate, and
// inverting a pixel outside the range yields a value outside the domain.
// Callers validate inverted values against their data domain before use.
package scale

import (
	"math"
	"time"

	"github.com/kpumuk/lazycharts/internal/mathutil"
)

// Linear is an invertible linear mapping from a domain to a range.
// Domains and ranges may be descending.
type Linear struct {
	d0, d1  float64
	r0, r1  float64
	rounded bool
}

// New builds a linear scale mapping domain onto rng.
func New(domain, rng [2]float64) Linear {
	return Linear{d0: domain[0], d1: domain[1], r0: rng[0], r1: rng[1]}
}

// Rounded returns a copy of the scale whose Map output is rounded to whole
// pixels. Invert is unaffected.
func (s Linear) Rounded() Linear {
	s.rounded = true
	return s
}

// Domain returns the scale's domain as given.
func (s Linear) Domain() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// Range returns the scale's pixel range as given.
func (s Linear) Range() [2]float64 {
	return [2]float64{s.r0, s.r1}
}

// Map interpolates v from the domain into the range.
func (s Linear) Map(v float64) float64 {
	var p float64
	if s.d0 == s.d1 {
		p = mathutil.Lerp(s.r0, s.r1, 0.5)
	} else {
		p = mathutil.Lerp(s.r0, s.r1, (v-s.d0)/(s.d1-s.d0))
	}
	if s.rounded {
		return math.Round(p)
	}
	return p
}

// Invert maps a pixel back into the domain. It is the exact algebraic inverse
// of the unrounded Map.
func (s Linear) Invert(p float64) float64 {
	if s.r0 == s.r1 || s.d0 == s.d1 {
		return s.d0
	}
	return mathutil.Lerp(s.d0, s.d1, (p-s.r0)/(s.r1-s.r0))
}

// Time is a linear scale over instants, measured in epoch milliseconds.
type Time struct {
	Linear
}

// NewTime builds a time scale. Time axes are conventionally built with the
// most recent instant first and the range running right to left, i.e.
// domain [end, start] onto range [width, 0].
func NewTime(domain [2]time.Time, rng [2]float64) Time {
	return Time{Linear: New([2]float64{Millis(domain[0]), Millis(domain[1])}, rng)}
}

// Rounded returns a copy of the time scale with pixel rounding enabled.
func (s Time) Rounded() Time {
	return Time{Linear: s.Linear.Rounded()}
}

// MapTime maps an instant to a pixel.
func (s Time) MapTime(t time.Time) float64 {
	return s.Map(Millis(t))
}

// InvertTime maps a pixel back to an instant.
func (s Time) InvertTime(p float64) time.Time {
	return FromMillis(s.Invert(p))
}

// Millis converts an instant into fractional epoch milliseconds.
func Millis(t time.Time) float64 {
	return float64(t.UnixMilli()) + float64(t.Nanosecond()%int(time.Millisecond))/float64(time.Millisecond)
}

// FromMillis converts fractional epoch milliseconds into a UTC instant.
func FromMillis(ms float64) time.Time {
	whole := math.Floor(ms)
	nanos := int64(whole)*int64(time.Millisecond) + int64(math.Round((ms-whole)*float64(time.Millisecond)))
	return time.Unix(0, nanos).UTC()
}
