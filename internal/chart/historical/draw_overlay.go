package historical

import (
	"github.com/kpumuk/lazycharts/internal/chart/path"
	"github.com/kpumuk/lazycharts/internal/scene"
)

const (
	// iconY is the top of the person icon inside the top box.
	iconY = -40.5
	// lineOvershoot extends the indicator line past the plot at both ends.
	lineOvershoot = plotPadding + circleRadius
	lineTail      = plotPadding + bottomBoxGap + 8
)

var personIconPaths = []string{
	"M9.42856667,4 C9.42856667,6.20911111 7.89356667,8 6.00001111,8 C4.10645556,8 2.57145556,6.20911111 2.57145556,4 C2.57145556,1.79088889 4.10645556,0 6.00001111,0 C7.89356667,0 9.42856667,1.79088889 9.42856667,4 L9.42856667,4 Z",
	"M12,16 L12,11 C12,9.33688889 10.6392222,8 8.97611111,8 L3.02388889,8 C1.36077778,8 0,9.33688889 0,11 L0,16 L12,16 L12,16 Z",
	"M3,12 L3,16",
	"M9,12 L9,16",
}

const stylesheet = `.historical-counts { font: 12px sans-serif; }
.historical-counts-path { fill: #dbeafe; }
.historical-counts-path-outline { fill: none; stroke: #4198ff; stroke-width: 2; }
.historical-counts-capacity-region { fill: #f1f5f9; }
.historical-counts-flag { stroke: #f97316; stroke-dasharray: 2 2; }
.axis-y-maximum-line { fill: none; stroke: #94a3b8; }
.historical-counts-axis-x .domain, .historical-counts-axis-x line { stroke: #94a3b8; }
.historical-counts-overlay-line-path { stroke: #4198ff; }
.historical-counts-overlay-circle { fill: #fff; stroke: #4198ff; stroke-width: 2; }
.historical-counts-overlay-top-bg, .historical-counts-overlay-bottom-bg { fill: #fff; }
.historical-counts-overlay-top-shadow, .historical-counts-overlay-bottom-shadow { fill: #0f172a; opacity: 0.1; transform: translateY(1px); }`

// drawOverlay reconciles the overlay group with the current overlay state.
// The scaffold is created when an overlay first appears and removed when it
// goes away; in between only positions and labels change.
func (c *Chart) drawOverlay() {
	g := c.g
	st := &c.state

	var keys []string
	if st.current != nil && st.render != nil {
		keys = []string{"overlay"}
	}
	join := g.BindData(st.overlay, "historical-counts-overlay", keys)
	for _, n := range g.Append(join, "g") {
		c.scaffoldOverlay(n)
	}
	g.RemoveUnbound(join)
	if len(keys) == 0 {
		return
	}

	rs := st.render
	ov := st.current
	root := g.Select(st.overlay, "historical-counts-overlay")
	g.Translate(root, ov.ScreenX, 0)

	g.SetAttributes(g.Select(root, "historical-counts-overlay-line-path"), scene.Attrs{
		"d": "M0," + path.Number(-lineOvershoot) + "V" + path.Number(rs.PlotHeight+lineTail),
	})
	g.SetAttributes(g.Select(root, "historical-counts-overlay-circle"), scene.Attrs{
		"cx": "0",
		"cy": path.Number(ov.ScreenY),
		"r":  path.Number(circleRadius),
	})

	top := g.Select(root, "historical-counts-overlay-top")
	g.Translate(top, ov.BoxOffsets.Top, 0)
	topY := float64(-(topBoxGap + topBoxHeight))
	for _, class := range []string{"historical-counts-overlay-top-shadow", "historical-counts-overlay-top-bg"} {
		g.SetAttributes(g.Select(top, class), boxAttrs(c.cfg.TopBoxWidth, topY, topBoxHeight))
	}
	c.drawPersonIcon(top, rs.PersonIcon)
	topText := g.Select(top, "historical-counts-overlay-top-text")
	g.SetAttributes(topText, scene.Attrs{"x": "0", "y": path.Number(topY + topBoxHeight/2.0)})
	if rs.PersonIcon {
		g.Translate(topText, textCenterOffset, 0)
	} else {
		g.Translate(topText, 0, 0)
	}
	g.SetText(topText, rs.TopLabel(ov.Count))

	bottom := g.Select(root, "historical-counts-overlay-bottom")
	g.Translate(bottom, ov.BoxOffsets.Bottom, 0)
	bottomY := rs.PlotHeight + bottomBoxGap
	for _, class := range []string{"historical-counts-overlay-bottom-shadow", "historical-counts-overlay-bottom-bg"} {
		g.SetAttributes(g.Select(bottom, class), boxAttrs(c.cfg.BottomBoxWidth, bottomY, bottomBoxHeight))
	}
	bottomText := g.Select(bottom, "historical-counts-overlay-bottom-text")
	g.SetAttributes(bottomText, scene.Attrs{"x": "0", "y": path.Number(bottomY + bottomBoxHeight/2.0)})
	g.SetText(bottomText, rs.BottomLabel(ov.Timestamp))
}

func (c *Chart) scaffoldOverlay(root *scene.Node) {
	g := c.g

	line := g.CreateElement("g", root)
	g.SetAttributes(line, scene.Attrs{"class": "historical-counts-overlay-line"})
	g.SetAttributes(g.CreateElement("path", line), scene.Attrs{"class": "historical-counts-overlay-line-path"})
	g.SetAttributes(g.CreateElement("circle", line), scene.Attrs{"class": "historical-counts-overlay-circle"})

	for _, part := range []string{"top", "bottom"} {
		box := g.CreateElement("g", root)
		g.SetAttributes(box, scene.Attrs{"class": "historical-counts-overlay-" + part})
		g.SetAttributes(g.CreateElement("rect", box), scene.Attrs{"class": "historical-counts-overlay-" + part + "-shadow"})
		g.SetAttributes(g.CreateElement("rect", box), scene.Attrs{"class": "historical-counts-overlay-" + part + "-bg"})
		if part == "top" {
			g.SetAttributes(g.CreateElement("g", box), scene.Attrs{"class": "historical-counts-overlay-person"})
		}
		g.SetAttributes(g.CreateElement("text", box), scene.Attrs{
			"class":       "historical-counts-overlay-" + part + "-text",
			"text-anchor": "middle",
		})
	}
}

func (c *Chart) drawPersonIcon(top *scene.Node, show bool) {
	g := c.g
	holder := g.Select(top, "historical-counts-overlay-person")

	var keys []string
	if show {
		keys = []string{"icon"}
	}
	join := g.BindData(holder, "historical-counts-overlay-person-icon", keys)
	for _, icon := range g.Append(join, "g") {
		g.Translate(icon, -iconCenterOffset, iconY)
		g.SetAttributes(icon, scene.Attrs{
			"fill":            "none",
			"fill-rule":       "evenodd",
			"stroke":          "#4198FF",
			"stroke-width":    "1.5",
			"stroke-linejoin": "round",
		})
		for _, d := range personIconPaths {
			g.SetAttributes(g.CreateElement("path", icon), scene.Attrs{"d": d})
		}
	}
	g.RemoveUnbound(join)
}

func boxAttrs(width, y, height float64) scene.Attrs {
	return scene.Attrs{
		"x":      path.Number(-width / 2),
		"y":      path.Number(y),
		"width":  path.Number(width),
		"height": path.Number(height),
		"rx":     path.Number(boxRadius),
		"ry":     path.Number(boxRadius),
	}
}
