package historical

import (
	"fmt"
	"time"

	"github.com/kpumuk/lazycharts/internal/chart/axis"
	"github.com/kpumuk/lazycharts/internal/chart/overlay"
	"github.com/kpumuk/lazycharts/internal/chart/path"
	"github.com/kpumuk/lazycharts/internal/chart/scale"
	"github.com/kpumuk/lazycharts/internal/chart/series"
	"github.com/kpumuk/lazycharts/internal/format"
	"github.com/kpumuk/lazycharts/internal/timefmt"
)

// Overlay box geometry.
const (
	topBoxHeight    = 43
	bottomBoxHeight = 43
	boxRadius       = 4
	// topBoxGap separates the top box from the plot.
	topBoxGap = 10
	// bottomBoxGap separates the bottom box from the plot, leaving room for
	// the time axis labels.
	bottomBoxGap     = 48
	iconCenterOffset = 21
	textCenterOffset = 12
	circleRadius     = 4

	// plotPadding keeps the lowest count off the plot floor.
	plotPadding = 10
)

// RenderState is everything computed for one render. It is rebuilt from
// props on every call and never mutated afterwards.
type RenderState struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PlotWidth  float64 `json:"plotWidth"`
	PlotHeight float64 `json:"plotHeight"`
	Margins    Margins `json:"margins"`

	Domain       series.TimeDomain  `json:"domain"`
	Counts       series.CountDomain `json:"counts"`
	Smallest     float64            `json:"smallest"`
	Largest      float64            `json:"largest"`
	InitialCount float64            `json:"initialCount"`
	Capacity     *float64           `json:"capacity,omitempty"`
	CapacityY    *float64           `json:"capacityY,omitempty"`

	Fill        string          `json:"fill"`
	Stroke      string          `json:"stroke"`
	Flagged     []series.Sample `json:"flagged,omitempty"`
	ValueLabels []axis.Label    `json:"valueLabels"`
	Guide       string          `json:"guide"`
	Ticks       []axis.Tick     `json:"ticks"`

	Resolution axis.Resolution `json:"resolution"`
	TimeZone   string          `json:"timeZone"`
	PersonIcon bool            `json:"personIcon"`

	X       scale.Time      `json:"-"`
	Y       scale.Linear    `json:"-"`
	Samples []series.Sample `json:"-"`

	topLabel    func(float64) string
	bottomLabel func(time.Time) string
}

func invalid(msg string, args ...any) error {
	return fmt.Errorf("%w: "+msg, append([]any{ErrInvalidInput}, args...)...)
}

// computeState validates props against cfg and derives the render state.
// It does not touch the scene.
func computeState(props Props, cfg Config) (*RenderState, error) {
	width, height := props.Width, props.Height
	if width == 0 {
		width = cfg.Width
	}
	if height == 0 {
		height = cfg.Height
	}
	if width <= 0 || height <= 0 {
		return nil, invalid("size %vx%v must be positive", width, height)
	}
	m := cfg.Margins
	plotWidth := width - m.Left - m.Right
	plotHeight := height - m.Top - m.Bottom
	if plotWidth <= 0 || plotHeight <= plotPadding {
		return nil, invalid("size %vx%v leaves no room for the plot", width, height)
	}

	res := cfg.Resolution
	if props.XAxisResolution != "" {
		parsed, err := axis.ParseResolution(props.XAxisResolution)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		res = parsed
	}

	zoneName := cfg.TimeZone
	if props.TimeZone != "" {
		zoneName = props.TimeZone
	}
	zone, err := timefmt.LoadZone(zoneName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	samples := props.Data
	if !series.IsSorted(samples) {
		samples = append([]series.Sample(nil), samples...)
		series.Sort(samples)
	}

	initial := cfg.InitialCount
	if props.InitialCount != nil {
		initial = *props.InitialCount
	}
	var capacity *float64
	if props.Capacity != nil && *props.Capacity > 0 {
		c := *props.Capacity
		capacity = &c
	}

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	bounds := series.ComputeBounds(samples, initial, now())
	domain := bounds.Domain(props.Start, props.End)
	if domain.End.Before(domain.Start) {
		return nil, invalid("end %s is before start %s", domain.End.Format(time.RFC3339), domain.Start.Format(time.RFC3339))
	}
	counts := bounds.Counts(capacity)

	x := scale.NewTime([2]time.Time{domain.End, domain.Start}, [2]float64{plotWidth, 0}).Rounded()
	y := scale.New([2]float64{counts.Min, counts.Max}, [2]float64{plotHeight - plotPadding, 0}).Rounded()

	built := path.Build(samples, initial, x, y, path.Plot{Height: plotHeight, Visible: domain})

	st := &RenderState{
		Width:        width,
		Height:       height,
		PlotWidth:    plotWidth,
		PlotHeight:   plotHeight,
		Margins:      m,
		Domain:       domain,
		Counts:       counts,
		Smallest:     bounds.Smallest,
		Largest:      bounds.Largest,
		InitialCount: initial,
		Capacity:     capacity,
		Fill:         built.Fill,
		Stroke:       built.Stroke,
		Flagged:      built.Flagged,
		ValueLabels:  axis.BuildValueAxis(y, bounds.Smallest, bounds.Largest, capacity, props.YAxisLabelFormat),
		Guide:        axis.DashedGuide(axis.GuideRow(y, bounds.Largest, capacity), plotWidth, axis.DefaultDash, axis.DefaultGap),
		Ticks:        axis.BuildTimeAxis(x, domain.Start, domain.End, res, zone, props.XAxisLabelFormat),
		Resolution:   res,
		TimeZone:     zone.Name(),
		PersonIcon:   cfg.RenderPersonIcon,
		X:            x,
		Y:            y,
		Samples:      samples,
		topLabel:     props.TopOverlayLabelFormat,
		bottomLabel:  props.BottomOverlayLabelFormat,
	}
	if capacity != nil {
		row := y.Map(*capacity)
		st.CapacityY = &row
	}
	if props.RenderPersonIcon != nil {
		st.PersonIcon = *props.RenderPersonIcon
	}
	if st.topLabel == nil {
		st.topLabel = format.Count
	}
	if st.bottomLabel == nil {
		dateOnly := res.DateOnly()
		st.bottomLabel = func(t time.Time) string { return timefmt.OverlayLabel(t, zone, dateOnly) }
	}
	return st, nil
}

// resolveOverlay maps a pointer x in plot coordinates onto the state. Charts
// without samples never show an overlay.
func (s *RenderState) resolveOverlay(pointerX *float64, cfg Config) *overlay.State {
	if s == nil || len(s.Samples) == 0 {
		return nil
	}
	return overlay.Resolve(pointerX, overlay.Request{
		X:            s.X,
		Y:            s.Y,
		Samples:      s.Samples,
		InitialCount: s.InitialCount,
		Visible:      s.Domain,
		PlotWidth:    s.PlotWidth,
		TopWidth:     cfg.TopBoxWidth,
		BottomWidth:  cfg.BottomBoxWidth,
		Now:          cfg.Now,
	})
}

// TopLabel formats the count shown in the top overlay box.
func (s *RenderState) TopLabel(count float64) string { return s.topLabel(count) }

// BottomLabel formats the time shown in the bottom overlay box.
func (s *RenderState) BottomLabel(t time.Time) string { return s.bottomLabel(t) }
