// Package overlay resolves a pointer position into the sample under it and
// places the floating annotation boxes so they never clip at the plot edges.
package overlay

import (
	"time"

	"github.com/kpumuk/lazycharts/internal/chart/scale"
	"github.com/kpumuk/lazycharts/internal/chart/series"
)

// Request carries everything needed to resolve a pointer position.
type Request struct {
	X            scale.Time
	Y            scale.Linear
	Samples      []series.Sample
	InitialCount float64
	Visible      series.TimeDomain
	PlotWidth    float64
	TopWidth     float64
	BottomWidth  float64
	// Now reports the current time; defaults to time.Now.
	Now func() time.Time
}

// Offsets holds the horizontal shift applied to each annotation box relative
// to its pointer-centred position.
type Offsets struct {
	Top    float64
	Bottom float64
}

// State describes a visible overlay.
type State struct {
	Timestamp time.Time
	Count     float64
	// ScreenX is the pointer x the vertical indicator line is drawn at.
	ScreenX float64
	// ScreenY is the pixel row of Count, where the indicator circle sits.
	ScreenY float64
	// Sample is the sample in effect at Timestamp; HasSample is false when
	// the pointer precedes every sample and InitialCount is shown instead.
	Sample     series.Sample
	HasSample  bool
	BoxOffsets Offsets
}

// Resolve maps a pointer x coordinate onto the chart. It returns nil when
// there is no pointer or the pointer resolves to a time outside the visible
// domain. The upper bound is clamped to the current time so hovering past the
// most recent sample does not show future counts.
func Resolve(pointerX *float64, req Request) *State {
	if pointerX == nil {
		return nil
	}
	px := *pointerX
	target := req.X.InvertTime(px)

	now := time.Now
	if req.Now != nil {
		now = req.Now
	}
	upper := req.Visible.End
	if current := now(); current.Before(upper) {
		upper = current
	}
	if target.Before(req.Visible.Start) || target.After(upper) {
		return nil
	}

	st := &State{
		Timestamp: target,
		Count:     req.InitialCount,
		ScreenX:   px,
	}
	if sample, ok := series.Lookup(req.Samples, target); ok {
		st.Sample = sample
		st.HasSample = true
		st.Count = sample.Count
	}
	st.ScreenY = req.Y.Map(st.Count)
	st.BoxOffsets = Offsets{
		Top:    BoxOffset(px, req.TopWidth, req.PlotWidth),
		Bottom: BoxOffset(px, req.BottomWidth, req.PlotWidth),
	}
	return st
}

// BoxOffset returns the horizontal shift that keeps a box of boxWidth,
// centred on pointerX, inside [0, plotWidth]. The shift is never larger than
// needed. A box wider than the plot is pinned to the left edge.
func BoxOffset(pointerX, boxWidth, plotWidth float64) float64 {
	left := pointerX - boxWidth/2
	switch {
	case left < 0:
		return -left
	case left+boxWidth > plotWidth:
		return plotWidth - (left + boxWidth)
	default:
		return 0
	}
}

// Dialog describes the single floating dialog used by the compact overlay.
type Dialog struct {
	Width  float64
	Height float64
	// Distance separates the dialog from the indicator line and the value.
	Distance float64
	// BreakPadding is how close the dialog may get to the plot edge before it
	// flips to the other side.
	BreakPadding float64
}

// FlipPlacement positions a single dialog next to the point (x, y). The dialog
// sits right of the line and below the value, flipping left when it would run
// past the right edge and above the value when it would run past the bottom.
// The returned coordinates are the dialog's top-left corner relative to x.
func FlipPlacement(x, y, plotWidth, plotHeight float64, d Dialog) (dx, dy float64) {
	dx = d.Distance
	if x+d.Width+d.BreakPadding > plotWidth {
		dx = -d.Width - d.Distance
	}
	dy = y + d.Distance
	if dy+d.Height+d.BreakPadding > plotHeight {
		dy -= d.Height + d.Distance
	}
	return dx, dy
}
