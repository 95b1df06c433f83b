// Package axis computes the labels, guide line and ticks drawn along the
// value and time axes of a count chart.
package axis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kpumuk/lazycharts/internal/chart/path"
	"github.com/kpumuk/lazycharts/internal/chart/scale"
	"github.com/kpumuk/lazycharts/internal/format"
	"github.com/kpumuk/lazycharts/internal/timefmt"
)

// Dash pattern of the guide line along the top of the value axis.
const (
	DefaultDash = 2
	DefaultGap  = 10
	// guideLift raises the guide line above the labelled row so it does not
	// overlap the step line drawn at the same count.
	guideLift = 2
)

// LabelKind identifies which value a label marks.
type LabelKind string

// Value axis label kinds.
const (
	Minimum  LabelKind = "minimum"
	Maximum  LabelKind = "maximum"
	Capacity LabelKind = "capacity"
)

// Index returns the index passed to value formatters for the kind: 0 for the
// minimum, 1 for the maximum and -1 for capacity.
func (k LabelKind) Index() int {
	switch k {
	case Maximum:
		return 1
	case Capacity:
		return -1
	default:
		return 0
	}
}

// Label is one value axis label.
type Label struct {
	Value float64   `json:"value"`
	Y     float64   `json:"y"`
	Text  string    `json:"text"`
	Kind  LabelKind `json:"kind"`
}

// ValueFormatter renders a value axis label. index is the label kind's Index.
type ValueFormatter func(value float64, index int) string

// DefaultValueFormat prints the count as is.
func DefaultValueFormat(value float64, _ int) string {
	return format.Count(value)
}

// BuildValueAxis returns the labels for the smallest and largest counts and,
// when given and distinct from both, the capacity. Labels are ordered
// minimum, capacity, maximum.
func BuildValueAxis(y scale.Linear, minimum, maximum float64, capacity *float64, f ValueFormatter) []Label {
	if f == nil {
		f = DefaultValueFormat
	}
	label := func(v float64, kind LabelKind) Label {
		return Label{Value: v, Y: y.Map(v), Text: f(v, kind.Index()), Kind: kind}
	}

	labels := []Label{label(minimum, Minimum)}
	if capacity != nil && *capacity != minimum && *capacity != maximum {
		labels = append(labels, label(*capacity, Capacity))
	}
	return append(labels, label(maximum, Maximum))
}

// GuideRow returns the pixel row of the dashed guide: the capacity row when
// one is set, otherwise the maximum, lifted slightly.
func GuideRow(y scale.Linear, maximum float64, capacity *float64) float64 {
	v := maximum
	if capacity != nil {
		v = *capacity
	}
	return y.Map(v) - guideLift
}

// DashedGuide draws a horizontal dashed line at row y across [0, width] as
// explicit path segments, so the final dash ends exactly at the plot edge
// regardless of how the renderer handles stroke dash arrays.
func DashedGuide(y, width, dash, gap float64) string {
	if width <= 0 || dash <= 0 {
		return ""
	}
	row := path.Number(y)

	var b strings.Builder
	b.WriteString("M0,")
	b.WriteString(row)
	for i := 0.0; i < width; i += dash + gap {
		b.WriteByte('H')
		b.WriteString(path.Number(min(i+dash, width)))
		next := i + dash + gap
		if next >= width {
			break
		}
		b.WriteByte('M')
		b.WriteString(path.Number(next))
		b.WriteByte(',')
		b.WriteString(row)
	}
	return b.String()
}

// ErrUnknownResolution is returned by ParseResolution.
var ErrUnknownResolution = errors.New("unknown x axis resolution")

// Resolution is the spacing between time axis ticks.
type Resolution string

// Supported tick spacings.
const (
	Hour Resolution = "hour"
	Day  Resolution = "day"
	Week Resolution = "week"
)

// ParseResolution parses "hour", "day" or "week". An empty string is Hour.
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return Hour, nil
	case Hour, Day, Week:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownResolution, s)
	}
}

// Step returns the time between ticks.
func (r Resolution) Step() time.Duration {
	switch r {
	case Day:
		return 24 * time.Hour
	case Week:
		return 7 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// DateOnly reports whether labels at this resolution omit the clock.
func (r Resolution) DateOnly() bool {
	return r == Day || r == Week
}

// String implements fmt.Stringer.
func (r Resolution) String() string {
	if r == "" {
		return string(Hour)
	}
	return string(r)
}

// Tick is one time axis tick.
type Tick struct {
	Time time.Time `json:"time"`
	X    float64   `json:"x"`
	Text string    `json:"text"`
}

// TimeFormatter renders a time axis label.
type TimeFormatter func(t time.Time) string

// BuildTimeAxis places a tick at the first whole hour at or after start, in
// zone, then one every resolution step while before end. Labels default to
// the compact hour format ("5a", "12p").
func BuildTimeAxis(x scale.Time, start, end time.Time, res Resolution, zone timefmt.Zone, f TimeFormatter) []Tick {
	if !start.Before(end) {
		return nil
	}
	if f == nil {
		f = func(t time.Time) string { return timefmt.HourLabel(t, zone) }
	}

	first := timefmt.StartOf(start, timefmt.Hour, zone)
	for first.Before(start) {
		first = first.Add(time.Hour)
	}

	var ticks []Tick
	step := res.Step()
	for t := first; t.Before(end); t = t.Add(step) {
		ticks = append(ticks, Tick{Time: t, X: x.MapTime(t), Text: f(t)})
	}
	return ticks
}
