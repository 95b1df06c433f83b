// Package path builds the step-interpolated SVG paths of a count chart.
//
// Count is piecewise constant between events, so every sample is reached by a
// horizontal segment followed by a vertical one, producing a staircase rather
// than diagonal interpolation.
package path

import (
	"strconv"
	"strings"

	"github.com/kpumuk/lazycharts/internal/chart/scale"
	"github.com/kpumuk/lazycharts/internal/chart/series"
)

// leftInset keeps the filled shape one pixel off the plot's left edge to avoid
// an anti-aliasing seam against the axis.
const leftInset = 1

// Op is a path command verb.
type Op byte

// Path command verbs, named after their SVG letters.
const (
	MoveTo     Op = 'M'
	LineTo     Op = 'L'
	Horizontal Op = 'H'
	Vertical   Op = 'V'
)

// Command is one absolute path command. Horizontal commands only use X and
// vertical commands only use Y.
type Command struct {
	Op Op
	X  float64
	Y  float64
}

// Plot describes the drawing area the path is built for.
type Plot struct {
	Height  float64
	Visible series.TimeDomain
}

// Result is the output of Build.
type Result struct {
	// Fill is the closed shape under the step line.
	Fill string
	// Stroke is the visible step line only.
	Stroke string
	// Body holds the commands emitted for visible samples, in order.
	Body []Command
	// Flagged lists every sample with Flag set, drawn or not.
	Flagged []series.Sample
	// LastX is the last x coordinate the line reached.
	LastX float64
}

// Build produces the fill and stroke paths for samples.
//
// Samples whose x coordinate falls left of the plot (x < 0) are dropped
// entirely rather than clipped at the boundary. When the visible domain
// starts mid-stream the line therefore resumes at the first on-screen sample
// instead of carrying the previous count to the edge.
func Build(samples []series.Sample, initialCount float64, x scale.Time, y scale.Linear, plot Plot) Result {
	var res Result
	if len(samples) == 0 {
		return res
	}

	floor := plot.Height
	initialY := y.Map(initialCount)
	startX := x.MapTime(plot.Visible.Start)

	res.LastX = startX
	res.Body = make([]Command, 0, len(samples)*2)
	for _, s := range samples {
		if s.Flag {
			res.Flagged = append(res.Flagged, s)
		}
		px := x.MapTime(s.Timestamp)
		if px < 0 {
			continue
		}
		res.Body = append(res.Body,
			Command{Op: Horizontal, X: px},
			Command{Op: Vertical, Y: y.Map(s.Count)},
		)
		res.LastX = px
	}

	fill := make([]Command, 0, len(res.Body)+6)
	fill = append(fill,
		Command{Op: MoveTo, X: leftInset, Y: floor},
		Command{Op: LineTo, X: leftInset, Y: initialY},
		Command{Op: Horizontal, X: startX},
	)
	fill = append(fill, res.Body...)
	fill = append(fill,
		Command{Op: Horizontal, X: res.LastX},
		Command{Op: Vertical, Y: floor},
		Command{Op: Horizontal, X: leftInset},
	)

	stroke := make([]Command, 0, len(res.Body)+3)
	stroke = append(stroke,
		Command{Op: MoveTo, X: leftInset, Y: initialY},
		Command{Op: Horizontal, X: startX},
	)
	stroke = append(stroke, res.Body...)
	stroke = append(stroke, Command{Op: Horizontal, X: res.LastX})

	res.Fill = Format(fill)
	res.Stroke = Format(stroke)
	return res
}

// Format renders commands as compact SVG path data, e.g. "M1,200H0V150".
func Format(cmds []Command) string {
	var b strings.Builder
	for _, c := range cmds {
		b.WriteByte(byte(c.Op))
		switch c.Op {
		case Horizontal:
			b.WriteString(Number(c.X))
		case Vertical:
			b.WriteString(Number(c.Y))
		default:
			b.WriteString(Number(c.X))
			b.WriteByte(',')
			b.WriteString(Number(c.Y))
		}
	}
	return b.String()
}

// Number formats a coordinate with the shortest representation that parses
// back to the same value.
func Number(v float64) string {
	if v == 0 {
		// Avoid "-0".
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Xs returns the x coordinates a command sequence moves through, in order.
// Vertical commands keep the previous x.
func Xs(cmds []Command) []float64 {
	xs := make([]float64, 0, len(cmds))
	for _, c := range cmds {
		if c.Op != Vertical {
			xs = append(xs, c.X)
		}
	}
	return xs
}
