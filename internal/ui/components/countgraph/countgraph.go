// Package countgraph draws a historical count chart in the terminal.
//
// The chart is laid out by the same engine that produces the SVG chart, on
// a virtual pixel grid where every terminal cell is cellWidth by cellHeight
// pixels. Hovering a column resolves the overlay exactly like pointer
// movement over the SVG does.
package countgraph

import (
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/NimbleMarkets/ntcharts/v2/canvas"
	"github.com/NimbleMarkets/ntcharts/v2/canvas/graph"

	"github.com/kpumuk/lazycharts/internal/chart/historical"
	"github.com/kpumuk/lazycharts/internal/chart/overlay"
	"github.com/kpumuk/lazycharts/internal/chart/series"
	"github.com/kpumuk/lazycharts/internal/mathutil"
	"github.com/kpumuk/lazycharts/internal/scene"
	"github.com/kpumuk/lazycharts/internal/ui/charts"
)

const (
	cellWidth  = 10
	cellHeight = 20

	capacityRune = '┄'
	flagRune     = '▾'
	cursorRune   = '│'
	valueRune    = '●'
)

// Styles holds the visual styles for the graph.
type Styles struct {
	Axis     lipgloss.Style
	Fill     lipgloss.Style
	Capacity lipgloss.Style
	Flag     lipgloss.Style
	Cursor   lipgloss.Style
	Muted    lipgloss.Style
	Dialog   lipgloss.Style
	Count    lipgloss.Style
}

// DefaultStyles returns default styles.
func DefaultStyles() Styles {
	return Styles{
		Axis:     lipgloss.NewStyle(),
		Fill:     lipgloss.NewStyle(),
		Capacity: lipgloss.NewStyle(),
		Flag:     lipgloss.NewStyle(),
		Cursor:   lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle(),
		Dialog:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Count:    lipgloss.NewStyle().Bold(true),
	}
}

// Model defines state for the count graph.
type Model struct {
	styles       Styles
	cfg          historical.Config
	props        historical.Props
	width        int
	height       int
	originX      int
	originY      int
	emptyMessage string

	chart      *historical.Chart
	labelWidth int
	err        error

	hover    bool
	hoverCol int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new count graph.
func New(opts ...Option) Model {
	m := Model{
		styles:       DefaultStyles(),
		cfg:          historical.DefaultConfig(),
		emptyMessage: "No samples",
		labelWidth:   1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.rerender()
	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithSize sets the dimensions.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithConfig sets the chart defaults. Size and margins are managed by the
// graph itself.
func WithConfig(cfg historical.Config) Option {
	return func(m *Model) {
		m.cfg = cfg
	}
}

// WithProps sets the chart props.
func WithProps(p historical.Props) Option {
	return func(m *Model) {
		m.props = p
	}
}

// WithEmptyMessage sets the message shown when there are no samples.
func WithEmptyMessage(msg string) Option {
	return func(m *Model) {
		m.emptyMessage = msg
	}
}

// WithOrigin sets the screen position of the graph's top-left cell, used to
// translate mouse events.
func WithOrigin(x, y int) Option {
	return func(m *Model) {
		m.originX = x
		m.originY = y
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetSize sets the dimensions and lays the chart out again.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.rerender()
}

// SetProps replaces the chart props and lays the chart out again.
func (m *Model) SetProps(p historical.Props) {
	m.props = p
	m.rerender()
}

// SetOrigin sets the screen position of the graph's top-left cell.
func (m *Model) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// Err returns the error of the last layout, if the props were rejected.
func (m Model) Err() error {
	return m.err
}

// State returns the render state of the last successful layout.
func (m Model) State() *historical.RenderState {
	if m.chart == nil {
		return nil
	}
	return m.chart.State()
}

// Overlay returns the overlay under the hovered column, or nil.
func (m Model) Overlay() *overlay.State {
	if m.chart == nil {
		return nil
	}
	return m.chart.Overlay()
}

// Hover moves the cursor to a plot column. Columns outside the plot hide
// the overlay.
func (m *Model) Hover(col int) {
	cols, _ := m.plotSize(m.labelWidth)
	if col < 0 || col >= cols {
		m.Leave()
		return
	}
	m.hover = true
	m.hoverCol = col
	if m.chart != nil {
		m.chart.PointerMove(columnCenter(col))
	}
}

// Leave hides the cursor and the overlay.
func (m *Model) Leave() {
	m.hover = false
	if m.chart != nil {
		m.chart.PointerLeave()
	}
}

// MoveCursor shifts the hovered column by delta, starting from the right
// edge when nothing is hovered.
func (m *Model) MoveCursor(delta int) {
	cols, _ := m.plotSize(m.labelWidth)
	if cols <= 0 {
		return
	}
	col := cols - 1
	if m.hover {
		col = mathutil.Clamp(m.hoverCol+delta, 0, cols-1)
	}
	m.Hover(col)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update translates mouse movement over the plot into hover changes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMotionMsg:
		mouse := msg.Mouse()
		m.mouse(mouse.X, mouse.Y)
	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		m.mouse(mouse.X, mouse.Y)
	}
	return m, nil
}

func (m *Model) mouse(x, y int) {
	_, rows := m.plotSize(m.labelWidth)
	col := x - m.originX - m.plotLeft()
	row := y - m.originY
	if row < 0 || row >= rows {
		m.Leave()
		return
	}
	m.Hover(col)
}

// plotLeft is the column of the first plot cell: labels, a space and the
// axis line.
func (m Model) plotLeft() int {
	return m.labelWidth + 2
}

func (m Model) plotSize(labelWidth int) (cols, rows int) {
	return m.width - labelWidth - 2, m.height - 2
}

func columnCenter(col int) float64 {
	return float64(col)*cellWidth + cellWidth/2
}

// rerender lays the chart out for the current size. The label column width
// depends on the formatted counts, so the layout is repeated once when the
// first guess was wrong.
func (m *Model) rerender() {
	m.chart = nil
	m.err = nil

	labelWidth := m.labelWidth
	for range 2 {
		cols, rows := m.plotSize(labelWidth)
		if cols < 1 || rows < 1 {
			return
		}
		cfg := m.cfg
		cfg.Margins = historical.Margins{}
		props := m.props
		props.Width = float64(cols * cellWidth)
		props.Height = float64(rows * cellHeight)

		chart := historical.New(scene.New(), nil, cfg)
		if err := chart.Render(props); err != nil {
			m.err = err
			return
		}
		m.chart = chart
		m.labelWidth = labelWidth
		width := max(charts.MaxLabelWidth(valueLabels(chart.State())), 1)
		if width == labelWidth {
			break
		}
		labelWidth = width
	}

	if m.hover {
		m.Hover(m.hoverCol)
	}
}

func valueLabels(rs *historical.RenderState) []string {
	labels := make([]string, len(rs.ValueLabels))
	for i, l := range rs.ValueLabels {
		labels[i] = l.Text
	}
	return labels
}

// View renders the graph.
func (m Model) View() string {
	if m.width < 1 || m.height < 1 {
		return ""
	}
	if m.err != nil {
		return charts.RenderCentered(m.width, m.height, m.styles.Muted.Render(m.err.Error()))
	}
	rs := m.State()
	if rs == nil || len(rs.Samples) == 0 {
		return charts.RenderCentered(m.width, m.height, m.styles.Muted.Render(m.emptyMessage))
	}

	cols, rows := m.plotSize(m.labelWidth)
	c := canvas.New(cols+1, rows+1, canvas.WithViewWidth(cols+1), canvas.WithViewHeight(rows+1))
	graph.DrawXYAxis(&c, canvas.Point{X: 0, Y: rows}, m.styles.Axis)

	if rs.CapacityY != nil {
		capRow := mathutil.Clamp(int(*rs.CapacityY/cellHeight), 0, rows-1)
		for x := 1; x <= cols; x++ {
			c.SetCell(canvas.Point{X: x, Y: capRow}, canvas.NewCellWithStyle(capacityRune, m.styles.Capacity))
		}
	}

	heights := columnHeights(rs, cols, rows)
	graph.DrawColumns(&c, canvas.Point{X: 1, Y: rows - 1}, heights, m.styles.Fill)

	for _, f := range rs.Flagged {
		x := rs.X.MapTime(f.Timestamp)
		if x < 0 || x > rs.PlotWidth {
			continue
		}
		col := min(int(x/cellWidth), cols-1)
		c.SetCell(canvas.Point{X: col + 1, Y: 0}, canvas.NewCellWithStyle(flagRune, m.styles.Flag))
	}

	ov := m.Overlay()
	if ov != nil {
		col := mathutil.Clamp(int(ov.ScreenX/cellWidth), 0, cols-1)
		valueRow := mathutil.Clamp(int(ov.ScreenY/cellHeight), 0, rows-1)
		for row := range rows {
			r := cursorRune
			if row == valueRow {
				r = valueRune
			}
			c.SetCell(canvas.Point{X: col + 1, Y: row}, canvas.NewCellWithStyle(r, m.styles.Cursor))
		}
	}

	lines := strings.Split(c.View(), "\n")
	lines = charts.ApplyYAxisLabels(lines, m.yLabels(rs, rows), m.labelWidth, m.styles.Muted)
	lines = append(lines, strings.Repeat(" ", m.plotLeft()-1)+m.styles.Muted.Render(timeLabelLine(rs, cols+1)))
	view := strings.Join(lines, "\n")

	if ov != nil {
		view = m.drawDialog(view, rs, ov, cols, rows)
	}
	return view
}

// columnHeights returns the filled height of each plot column, in cells,
// measured from the baseline. Columns outside the visible domain stay empty.
func columnHeights(rs *historical.RenderState, cols, rows int) []float64 {
	heights := make([]float64, cols)
	for i := range heights {
		t := rs.X.InvertTime(columnCenter(i))
		if !rs.Domain.Contains(t) {
			continue
		}
		count := rs.InitialCount
		if s, ok := series.Lookup(rs.Samples, t); ok {
			count = s.Count
		}
		h := (rs.PlotHeight - rs.Y.Map(count)) / cellHeight
		heights[i] = math.Min(math.Max(h, 0), float64(rows))
	}
	return heights
}

func (m Model) yLabels(rs *historical.RenderState, rows int) map[int]string {
	labels := make(map[int]string, len(rs.ValueLabels))
	for _, l := range rs.ValueLabels {
		row := mathutil.Clamp(int(l.Y/cellHeight), 0, rows-1)
		if _, taken := labels[row]; taken {
			continue
		}
		labels[row] = l.Text
	}
	return labels
}

func timeLabelLine(rs *historical.RenderState, width int) string {
	positions := make([]int, len(rs.Ticks))
	labels := make([]string, len(rs.Ticks))
	for i, tick := range rs.Ticks {
		positions[i] = int(tick.X/cellWidth) + 1
		labels[i] = tick.Text
	}
	return charts.BuildLabelLine(width, positions, labels)
}

// drawDialog places the count and time next to the cursor, flipping to the
// other side of it near the plot edges.
func (m Model) drawDialog(view string, rs *historical.RenderState, ov *overlay.State, cols, rows int) string {
	top := m.styles.Count.Render(rs.TopLabel(ov.Count))
	if rs.PersonIcon {
		top = "☺ " + top
	}
	box := m.styles.Dialog.Render(top + "\n" + rs.BottomLabel(ov.Timestamp))

	col := float64(mathutil.Clamp(int(ov.ScreenX/cellWidth), 0, cols-1))
	row := float64(mathutil.Clamp(int(ov.ScreenY/cellHeight), 0, rows-1))
	dx, dy := overlay.FlipPlacement(col, row, float64(cols), float64(rows+1), overlay.Dialog{
		Width:    float64(lipgloss.Width(box)),
		Height:   float64(lipgloss.Height(box)),
		Distance: 1,
	})
	x := m.plotLeft() + int(col+dx)
	y := max(int(dy), 0)
	return charts.Overlay(view, box, x, y)
}
