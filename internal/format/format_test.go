package format

import (
	"math"
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		want    string
	}{
		{name: "negative", seconds: -5, want: "0s"},
		{name: "seconds", seconds: 59, want: "59s"},
		{name: "minute", seconds: 60, want: "1m0s"},
		{name: "minute-seconds", seconds: 61, want: "1m1s"},
		{name: "hour", seconds: 3600, want: "1h0m"},
		{name: "hour-minutes", seconds: 3661, want: "1h1m"},
		{name: "day", seconds: 86400, want: "1d0h"},
		{name: "day-hour", seconds: 90061, want: "1d1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.seconds); got != tt.want {
				t.Fatalf("Duration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestDurationSince(t *testing.T) {
	fixedNow := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	restoreNow := nowFunc
	nowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { nowFunc = restoreNow })

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "zero", at: time.Time{}, want: "-"},
		{name: "seconds", at: fixedNow.Add(-59 * time.Second), want: "59s"},
		{name: "minute", at: fixedNow.Add(-90 * time.Second), want: "1m30s"},
		{name: "future", at: fixedNow.Add(10 * time.Second), want: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationSince(tt.at); got != tt.want {
				t.Fatalf("DurationSince(%v) = %q, want %q", tt.at, got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "plain", n: 999, want: "999"},
		{name: "kilo", n: 1000, want: "1.0K"},
		{name: "kilo-fraction", n: 1500, want: "1.5K"},
		{name: "mega", n: 1_000_000, want: "1.0M"},
		{name: "giga", n: 1_000_000_000, want: "1.0B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.n); got != tt.want {
				t.Fatalf("Number(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestShortNumber(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "plain", n: 999, want: "999"},
		{name: "kilo-decimal", n: 1000, want: "1.0K"},
		{name: "kilo-decimal-round", n: 9999, want: "10.0K"},
		{name: "kilo-whole", n: 10_000, want: "10K"},
		{name: "kilo-max", n: 999_999, want: "999K"},
		{name: "mega-decimal", n: 1_000_000, want: "1.0M"},
		{name: "mega-whole", n: 10_000_000, want: "10M"},
		{name: "giga-decimal", n: 1_000_000_000, want: "1.0B"},
		{name: "giga-whole", n: 12_345_678_901, want: "12B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortNumber(tt.n); got != tt.want {
				t.Fatalf("ShortNumber(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want string
	}{
		{name: "zero", v: 0, want: "0"},
		{name: "negative-zero", v: math.Copysign(0, -1), want: "0"},
		{name: "whole", v: 12, want: "12"},
		{name: "half", v: 2.5, want: "2.5"},
		{name: "thirds", v: 1.0 / 3, want: "0.33"},
		{name: "large", v: 1_250_000, want: "1250000"},
		{name: "nan", v: math.NaN(), want: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.v); got != tt.want {
				t.Fatalf("Count(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(21, 50); got != "42%" {
		t.Fatalf("Percent(21, 50) = %q, want 42%%", got)
	}
	if got := Percent(3, 0); got != "-" {
		t.Fatalf("Percent(3, 0) = %q, want -", got)
	}
}
