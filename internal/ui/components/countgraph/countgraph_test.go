package countgraph

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/golden"

	"github.com/kpumuk/lazycharts/internal/chart/historical"
	"github.com/kpumuk/lazycharts/internal/chart/series"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func testConfig() historical.Config {
	cfg := historical.DefaultConfig()
	cfg.Now = func() time.Time { return t0.Add(time.Hour) }
	return cfg
}

func threeSamples() []series.Sample {
	return []series.Sample{
		{Timestamp: t0, Count: 1},
		{Timestamp: t0.Add(time.Minute), Count: 3, Flag: true},
		{Timestamp: t0.Add(2 * time.Minute), Count: 2},
	}
}

// newGraph lays out a 60x10 cell plot: one label column, a space and the
// axis line on the left, the axis and the time labels below.
func newGraph(props historical.Props) Model {
	return New(
		WithConfig(testConfig()),
		WithSize(63, 12),
		WithProps(props),
	)
}

func TestViewDimensions(t *testing.T) {
	m := newGraph(historical.Props{Data: threeSamples()})
	if m.Err() != nil {
		t.Fatalf("Err() = %v", m.Err())
	}

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 63 {
			t.Fatalf("line %d width = %d, want 63: %q", i, w, ansi.Strip(line))
		}
	}

	stripped := ansi.Strip(m.View())
	if last := ansi.Strip(lines[len(lines)-1]); !strings.Contains(last, "10a") {
		t.Fatalf("missing time label in %q", last)
	}
	if !strings.HasPrefix(ansi.Strip(lines[0]), "3 ") {
		t.Fatalf("first line = %q, want maximum label", ansi.Strip(lines[0]))
	}
	if !strings.Contains(stripped, "▾") {
		t.Fatal("missing flag marker")
	}
}

func TestColumnHeights(t *testing.T) {
	m := newGraph(historical.Props{Data: threeSamples()})
	rs := m.State()
	if rs == nil {
		t.Fatal("State() = nil")
	}
	if rs.PlotWidth != 600 || rs.PlotHeight != 200 {
		t.Fatalf("plot = %vx%v, want 600x200", rs.PlotWidth, rs.PlotHeight)
	}

	heights := columnHeights(rs, 60, 10)
	if heights[0] != heights[29] || heights[0] <= 0 || heights[0] >= 10 {
		t.Fatalf("first minute heights = %v, %v", heights[0], heights[29])
	}
	if heights[30] != 10 || heights[59] != 10 {
		t.Fatalf("second minute heights = %v, %v, want full", heights[30], heights[59])
	}
}

func TestHoverShowsDialog(t *testing.T) {
	m := newGraph(historical.Props{Data: threeSamples()})

	m.Hover(40)
	ov := m.Overlay()
	if ov == nil {
		t.Fatal("Overlay() = nil after Hover")
	}
	if ov.Count != 3 {
		t.Fatalf("Count = %v, want 3", ov.Count)
	}

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "10:01 AM (UTC) Fri Mar 01") {
		t.Fatalf("dialog missing time label:\n%s", view)
	}
	if !strings.Contains(view, "☺ 3") {
		t.Fatalf("dialog missing count:\n%s", view)
	}
	for i, line := range strings.Split(m.View(), "\n") {
		if w := ansi.StringWidth(line); w != 63 {
			t.Fatalf("line %d width = %d with dialog", i, w)
		}
	}

	m.Leave()
	if m.Overlay() != nil {
		t.Fatal("Overlay() still set after Leave")
	}
	if strings.Contains(ansi.Strip(m.View()), "Fri Mar 01") {
		t.Fatal("dialog still drawn after Leave")
	}
}

func TestHoverWithoutPersonIcon(t *testing.T) {
	off := false
	m := newGraph(historical.Props{Data: threeSamples(), RenderPersonIcon: &off})
	m.Hover(10)
	view := ansi.Strip(m.View())
	if strings.Contains(view, "☺") {
		t.Fatal("person icon drawn when disabled")
	}
}

func TestMouseMotion(t *testing.T) {
	m := newGraph(historical.Props{Data: threeSamples()})
	m.SetOrigin(2, 1)

	m, _ = m.Update(tea.MouseMotionMsg{X: 2 + 3 + 5, Y: 3})
	ov := m.Overlay()
	if ov == nil || ov.Count != 1 {
		t.Fatalf("Overlay() = %+v, want count 1", ov)
	}

	m, _ = m.Update(tea.MouseMotionMsg{X: 2 + 3 + 5, Y: 1 + 10})
	if m.Overlay() != nil {
		t.Fatal("overlay kept below the plot")
	}

	m, _ = m.Update(tea.MouseMotionMsg{X: 1, Y: 3})
	if m.Overlay() != nil {
		t.Fatal("overlay kept over the labels")
	}
}

func TestMoveCursor(t *testing.T) {
	m := newGraph(historical.Props{Data: threeSamples()})

	m.MoveCursor(-1)
	ov := m.Overlay()
	if ov == nil || ov.Count != 3 {
		t.Fatalf("Overlay() = %+v, want the last column", ov)
	}
	m.MoveCursor(-59)
	if ov = m.Overlay(); ov == nil || ov.Count != 1 {
		t.Fatalf("Overlay() = %+v, want the first column", ov)
	}
	m.MoveCursor(-5)
	if ov = m.Overlay(); ov == nil || ov.ScreenX != 5 {
		t.Fatalf("Overlay() = %+v, want clamped to the first column", ov)
	}
}

func TestHoverSurvivesNewProps(t *testing.T) {
	m := newGraph(historical.Props{Data: threeSamples()})
	m.Hover(10)

	data := threeSamples()
	data[0].Count = 2
	m.SetProps(historical.Props{Data: data})
	if ov := m.Overlay(); ov == nil || ov.Count != 2 {
		t.Fatalf("Overlay() = %+v, want count 2", ov)
	}
}

func TestCapacityLine(t *testing.T) {
	capacity := 6.0
	m := newGraph(historical.Props{Data: threeSamples(), Capacity: &capacity})
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	if !strings.Contains(lines[0], "┄┄┄") {
		t.Fatalf("first line = %q, want capacity line", lines[0])
	}
}

func TestEmptyAndInvalid(t *testing.T) {
	m := New(WithConfig(testConfig()), WithSize(63, 12), WithEmptyMessage("nothing yet"))
	if !strings.Contains(m.View(), "nothing yet") {
		t.Fatalf("empty view = %q", m.View())
	}
	m.Hover(3)
	if m.Overlay() != nil {
		t.Fatal("overlay shown without samples")
	}

	m.SetProps(historical.Props{Data: threeSamples(), TimeZone: "Mars/Olympus"})
	if !errors.Is(m.Err(), historical.ErrInvalidInput) {
		t.Fatalf("Err() = %v, want ErrInvalidInput", m.Err())
	}
	if !strings.Contains(m.View(), "invalid chart input") {
		t.Fatalf("invalid view = %q", m.View())
	}
}

func TestTooSmall(t *testing.T) {
	m := New(WithConfig(testConfig()), WithSize(3, 2), WithProps(historical.Props{Data: threeSamples()}))
	if m.State() != nil {
		t.Fatal("laid out a chart without room for it")
	}
	if got := strings.Count(m.View(), "\n"); got != 1 {
		t.Fatalf("view has %d line breaks, want 1", got)
	}
}

// goldenSamples fills whole cells only: with the counts spanning 0..19 on
// a 200 pixel plot every odd count lands on a cell boundary.
func goldenSamples() []series.Sample {
	return []series.Sample{
		{Timestamp: t0, Count: 5},
		{Timestamp: t0.Add(20 * time.Minute), Count: 19, Flag: true},
		{Timestamp: t0.Add(40 * time.Minute), Count: 9},
		{Timestamp: t0.Add(time.Hour), Count: 3},
	}
}

func newGoldenGraph(props historical.Props) Model {
	cfg := testConfig()
	cfg.RenderPersonIcon = false
	return New(
		WithConfig(cfg),
		WithSize(64, 12),
		WithProps(props),
	)
}

func TestGoldenCountGraph(t *testing.T) {
	m := newGoldenGraph(historical.Props{Data: goldenSamples()})
	output := ansi.Strip(m.View())
	golden.RequireEqual(t, []byte(output))
}

func TestGoldenCountGraphHover(t *testing.T) {
	m := newGoldenGraph(historical.Props{Data: goldenSamples()})
	m.Hover(45)
	output := ansi.Strip(m.View())
	golden.RequireEqual(t, []byte(output))
}

func TestGoldenCountGraphCapacity(t *testing.T) {
	data := goldenSamples()
	data[1].Count = 13
	capacity := 19.0
	m := newGoldenGraph(historical.Props{Data: data, Capacity: &capacity})
	output := ansi.Strip(m.View())
	golden.RequireEqual(t, []byte(output))
}
