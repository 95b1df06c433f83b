// Package historical renders the historical-counts chart: a step line of a
// count over time with a capacity band, labelled axes, flag markers and a
// hover overlay showing the count and time under the pointer.
//
// A chart is attached to a scene once and then re-rendered with fresh props
// as often as the host likes. Each render is computed in full before the
// scene is touched, so invalid props leave the previous output in place.
package historical

import (
	"time"

	"github.com/kpumuk/lazycharts/internal/chart/overlay"
	"github.com/kpumuk/lazycharts/internal/chart/path"
	"github.com/kpumuk/lazycharts/internal/scene"
)

// Update re-renders an attached chart.
type Update func(Props) error

// ChartState is the layout and scene handles a chart keeps between renders.
type ChartState struct {
	Margins Margins

	svg      *scene.Node
	plot     *scene.Node
	capacity *scene.Node
	fill     *scene.Node
	stroke   *scene.Node
	flags    *scene.Node
	axisY    *scene.Node
	guide    *scene.Node
	axisX    *scene.Node
	domain   *scene.Node
	overlay  *scene.Node
	hit      *scene.Node

	render   *RenderState
	pointerX *float64
	current  *overlay.State
}

// Chart is a historical-counts chart bound to a scene.
type Chart struct {
	cfg   Config
	g     *scene.Graph
	state ChartState
}

// Attach mounts a chart with DefaultConfig under container and returns its
// update function.
func Attach(g *scene.Graph, container *scene.Node) Update {
	return New(g, container, DefaultConfig()).Render
}

// New mounts a chart under container. When container is the graph's root
// <svg> the chart draws into it directly; otherwise it appends its own.
func New(g *scene.Graph, container *scene.Node, cfg Config) *Chart {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Chart{cfg: cfg, g: g}
	c.state.Margins = cfg.Margins
	c.scaffold(container)
	return c
}

func (c *Chart) scaffold(container *scene.Node) {
	g := c.g
	st := &c.state

	if container == nil {
		container = g.Root()
	}
	st.svg = container
	if container != g.Root() {
		st.svg = g.CreateElement("svg", container)
	}
	g.SetAttributes(st.svg, scene.Attrs{"class": "historical-counts"})
	style := g.CreateElement("style", st.svg)
	g.SetText(style, stylesheet)

	st.plot = g.CreateElement("g", st.svg)
	g.Translate(st.plot, st.Margins.Left, st.Margins.Top)

	st.capacity = group(g, st.plot, "capacity-group")

	graph := group(g, st.plot, "graph-group")
	st.fill = g.CreateElement("path", graph)
	g.SetAttributes(st.fill, scene.Attrs{"class": "historical-counts-path"})
	st.stroke = g.CreateElement("path", graph)
	g.SetAttributes(st.stroke, scene.Attrs{"class": "historical-counts-path-outline"})

	st.flags = group(g, st.plot, "flag-group")

	axes := group(g, st.plot, "axis-group")
	st.axisY = group(g, axes, "historical-counts-axis-y")
	st.guide = g.CreateElement("path", st.axisY)
	g.SetAttributes(st.guide, scene.Attrs{"class": "axis-y-maximum-line"})
	st.axisX = group(g, axes, "historical-counts-axis-x")
	st.domain = g.CreateElement("path", st.axisX)
	g.SetAttributes(st.domain, scene.Attrs{"class": "domain"})

	st.overlay = group(g, st.plot, "overlay-group")

	hitGroup := group(g, st.plot, "overlay-rect")
	st.hit = g.CreateElement("rect", hitGroup)
	g.SetAttributes(st.hit, scene.Attrs{"fill": "transparent"})

	move := func(ev scene.PointerEvent) { c.PointerMove(ev.X) }
	g.OnPointerEvent(st.hit, scene.PointerMove, move)
	g.OnPointerEvent(st.hit, scene.TouchStart, move)
	g.OnPointerEvent(st.hit, scene.TouchMove, move)
	g.OnPointerEvent(st.hit, scene.PointerLeave, func(scene.PointerEvent) { c.PointerLeave() })
}

func group(g *scene.Graph, parent *scene.Node, class string) *scene.Node {
	n := g.CreateElement("g", parent)
	g.SetAttributes(n, scene.Attrs{"class": class})
	return n
}

// Render validates props, computes the new render state and applies it to
// the scene. An active pointer is re-resolved against the new data.
func (c *Chart) Render(props Props) error {
	next, err := computeState(props, c.cfg)
	if err != nil {
		return err
	}
	c.commit(next)
	c.state.render = next
	c.state.current = next.resolveOverlay(c.state.pointerX, c.cfg)
	c.drawOverlay()
	return nil
}

// PointerMove shows the overlay for pointer x, in plot coordinates.
func (c *Chart) PointerMove(x float64) {
	c.state.pointerX = &x
	c.state.current = c.state.render.resolveOverlay(&x, c.cfg)
	c.drawOverlay()
}

// PointerLeave clears the overlay.
func (c *Chart) PointerLeave() {
	c.state.pointerX = nil
	c.state.current = nil
	c.drawOverlay()
}

// State returns the last committed render state, or nil before the first
// successful render.
func (c *Chart) State() *RenderState { return c.state.render }

// Overlay returns the visible overlay, or nil.
func (c *Chart) Overlay() *overlay.State { return c.state.current }

// HitTarget returns the transparent element receiving pointer events.
func (c *Chart) HitTarget() *scene.Node { return c.state.hit }

// Graph returns the scene the chart draws into.
func (c *Chart) Graph() *scene.Graph { return c.g }

func (c *Chart) commit(rs *RenderState) {
	g := c.g
	st := &c.state
	m := rs.Margins

	g.SetAttributes(st.svg, scene.Attrs{
		"width":   path.Number(rs.Width),
		"height":  path.Number(rs.Height),
		"viewBox": "0 0 " + path.Number(rs.Width) + " " + path.Number(rs.Height),
	})

	var capacityKeys []string
	if rs.CapacityY != nil {
		capacityKeys = []string{"capacity"}
	}
	join := g.BindData(st.capacity, "historical-counts-capacity-region", capacityKeys)
	for _, n := range append(g.Append(join, "rect"), join.Update...) {
		g.SetAttributes(n, scene.Attrs{
			"x":      "0",
			"y":      path.Number(*rs.CapacityY),
			"width":  path.Number(rs.PlotWidth),
			"height": path.Number(rs.PlotHeight - *rs.CapacityY),
		})
	}
	g.RemoveUnbound(join)

	g.SetAttributes(st.fill, scene.Attrs{"d": rs.Fill})
	g.SetAttributes(st.stroke, scene.Attrs{"d": rs.Stroke})

	c.drawFlags(rs)
	c.drawValueAxis(rs)
	c.drawTimeAxis(rs)

	g.SetAttributes(st.hit, scene.Attrs{
		"x":      path.Number(-m.Left),
		"y":      path.Number(-m.Top),
		"width":  path.Number(m.Left + rs.PlotWidth + m.Right),
		"height": path.Number(m.Top + rs.PlotHeight + m.Bottom),
	})
}

func (c *Chart) drawFlags(rs *RenderState) {
	g := c.g

	keys := make([]string, 0, len(rs.Flagged))
	xs := make(map[string]float64, len(rs.Flagged))
	for _, s := range rs.Flagged {
		x := rs.X.MapTime(s.Timestamp)
		if x < 0 || x > rs.PlotWidth {
			continue
		}
		k := s.Timestamp.UTC().Format(time.RFC3339Nano)
		keys = append(keys, k)
		xs[k] = x
	}

	join := g.BindData(c.state.flags, "historical-counts-flag", keys)
	for _, n := range append(g.Append(join, "line"), join.Update...) {
		x := path.Number(xs[n.Key()])
		g.SetAttributes(n, scene.Attrs{
			"x1": x,
			"x2": x,
			"y1": "0",
			"y2": path.Number(rs.PlotHeight),
		})
	}
	g.RemoveUnbound(join)
}

func (c *Chart) drawValueAxis(rs *RenderState) {
	g := c.g

	keys := make([]string, len(rs.ValueLabels))
	for i, l := range rs.ValueLabels {
		keys[i] = string(l.Kind)
	}
	join := g.BindData(c.state.axisY, "axis-y-label", keys)
	g.Append(join, "text")
	g.RemoveUnbound(join)

	for _, l := range rs.ValueLabels {
		for _, n := range g.SelectAll(c.state.axisY, "axis-y-label") {
			if n.Key() != string(l.Kind) {
				continue
			}
			g.SetAttributes(n, scene.Attrs{
				"data-kind":         string(l.Kind),
				"x":                 "-10",
				"y":                 path.Number(l.Y),
				"text-anchor":       "end",
				"dominant-baseline": "middle",
			})
			g.SetText(n, l.Text)
		}
	}

	g.SetAttributes(c.state.guide, scene.Attrs{"d": rs.Guide})
}

func (c *Chart) drawTimeAxis(rs *RenderState) {
	g := c.g
	st := &c.state

	g.Translate(st.axisX, 0, rs.PlotHeight)
	g.SetAttributes(st.domain, scene.Attrs{"d": "M0,0H" + path.Number(rs.PlotWidth)})

	keys := make([]string, len(rs.Ticks))
	for i, t := range rs.Ticks {
		keys[i] = t.Time.UTC().Format(time.RFC3339)
	}
	join := g.BindData(st.axisX, "tick", keys)
	for _, n := range g.Append(join, "g") {
		line := g.CreateElement("line", n)
		g.SetAttributes(line, scene.Attrs{"y2": "6"})
		label := g.CreateElement("text", n)
		g.SetAttributes(label, scene.Attrs{"class": "tick-label", "y": "9", "dy": "0.71em", "text-anchor": "middle"})
	}
	g.RemoveUnbound(join)

	byKey := make(map[string]*scene.Node, len(rs.Ticks))
	for _, n := range g.SelectAll(st.axisX, "tick") {
		byKey[n.Key()] = n
	}
	for i, t := range rs.Ticks {
		n := byKey[keys[i]]
		if n == nil {
			continue
		}
		g.Translate(n, t.X, 0)
		g.SetText(g.Select(n, "tick-label"), t.Text)
	}
}
