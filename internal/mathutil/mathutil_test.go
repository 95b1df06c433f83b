package mathutil_test

import (
	"math"
	"testing"

	"github.com/kpumuk/lazycharts/internal/mathutil"
)

func TestClamp_Int(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		val  int
		low  int
		high int
		want int
	}{
		{name: "value within range", val: 5, low: 0, high: 10, want: 5},
		{name: "value below minimum", val: -5, low: 0, high: 10, want: 0},
		{name: "value above maximum", val: 15, low: 0, high: 10, want: 10},
		{name: "value equals maximum", val: 10, low: 0, high: 10, want: 10},
		{name: "value below negative range", val: -15, low: -10, high: -1, want: -10},
		{name: "single value range", val: 5, low: 7, high: 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := mathutil.Clamp(tt.val, tt.low, tt.high)
			if got != tt.want {
				t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.val, tt.low, tt.high, got, tt.want)
			}
		})
	}
}

func TestClamp_Float64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		val  float64
		low  float64
		high float64
		want float64
	}{
		{name: "pixel inside plot", val: 250.5, low: 0, high: 500, want: 250.5},
		{name: "pixel left of plot", val: -12, low: 0, high: 500, want: 0},
		{name: "pixel right of plot", val: 512.25, low: 0, high: 500, want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := mathutil.Clamp(tt.val, tt.low, tt.high)
			if got != tt.want {
				t.Errorf("Clamp(%f, %f, %f) = %f, want %f", tt.val, tt.low, tt.high, got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b float64
		t    float64
		want float64
	}{
		{name: "start", a: 10, b: 20, t: 0, want: 10},
		{name: "end", a: 10, b: 20, t: 1, want: 20},
		{name: "middle", a: 10, b: 20, t: 0.5, want: 15},
		{name: "descending", a: 600, b: 0, t: 0.25, want: 450},
		{name: "extrapolates past end", a: 0, b: 100, t: 1.5, want: 150},
		{name: "extrapolates before start", a: 0, b: 100, t: -0.5, want: -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mathutil.Lerp(tt.a, tt.b, tt.t); got != tt.want {
				t.Errorf("Lerp(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.t, got, tt.want)
			}
		})
	}
}

func TestAlmostEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{name: "identical", a: 1, b: 1, want: true},
		{name: "tiny difference", a: 0.1 + 0.2, b: 0.3, want: true},
		{name: "large magnitudes scale tolerance", a: 1.7e12, b: 1.7e12 + 0.01, want: true},
		{name: "different", a: 1, b: 1.1, want: false},
		{name: "nan", a: math.NaN(), b: math.NaN(), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mathutil.AlmostEqual(tt.a, tt.b, 1e-9); got != tt.want {
				t.Errorf("AlmostEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// BenchmarkClamp_Float64 benchmarks the Clamp function with floats.
func BenchmarkClamp_Float64(b *testing.B) {
	for i := range b.N {
		_ = mathutil.Clamp(float64(i), 0.0, 100.0)
	}
}
