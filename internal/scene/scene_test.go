package scene

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func keysOf(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key()
	}
	return out
}

func TestSetAttributes(t *testing.T) {
	t.Parallel()

	g := New()
	el := g.CreateElement("rect", g.Root())
	g.SetAttributes(el, Attrs{"y": "2", "x": "1", "class": "box"})
	g.SetAttributes(el, Attrs{"x": "5", "width": "10"})
	g.SetAttributes(el, Attrs{"class": ""})

	if _, ok := el.Attr("class"); ok {
		t.Fatal("empty value should remove the attribute")
	}
	var names []string
	for _, a := range el.attrs {
		names = append(names, a.name+"="+a.value)
	}
	if diff := cmp.Diff([]string{"x=5", "y=2", "width=10"}, names); diff != "" {
		t.Fatalf("attribute order mismatch (-want +got):\n%s", diff)
	}
}

func TestBindData(t *testing.T) {
	t.Parallel()

	g := New()
	parent := g.CreateElement("g", g.Root())

	first := g.BindData(parent, "flag", []string{"a", "b", "c"})
	if diff := cmp.Diff([]string{"a", "b", "c"}, first.Enter); diff != "" {
		t.Fatalf("first Enter mismatch (-want +got):\n%s", diff)
	}
	if len(first.Update) != 0 || len(first.Exit) != 0 {
		t.Fatalf("first join should only enter: %+v", first)
	}
	created := g.Append(first, "line")
	if diff := cmp.Diff([]string{"a", "b", "c"}, keysOf(created)); diff != "" {
		t.Fatalf("Append keys mismatch (-want +got):\n%s", diff)
	}

	second := g.BindData(parent, "flag", []string{"c", "d", "a", "d"})
	if diff := cmp.Diff([]string{"d"}, second.Enter); diff != "" {
		t.Fatalf("second Enter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c", "a"}, keysOf(second.Update)); diff != "" {
		t.Fatalf("second Update mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, keysOf(second.Exit)); diff != "" {
		t.Fatalf("second Exit mismatch (-want +got):\n%s", diff)
	}
	if second.Update[0] != created[2] {
		t.Fatal("update must reuse the existing element")
	}

	g.Append(second, "line")
	g.RemoveUnbound(second)
	if diff := cmp.Diff([]string{"a", "c", "d"}, keysOf(parent.Children())); diff != "" {
		t.Fatalf("children after reconcile mismatch (-want +got):\n%s", diff)
	}
}

func TestBindDataIgnoresOtherClasses(t *testing.T) {
	t.Parallel()

	g := New()
	parent := g.CreateElement("g", g.Root())
	other := g.CreateElement("path", parent)
	g.SetAttributes(other, Attrs{"class": "outline"})

	j := g.BindData(parent, "flag", nil)
	if len(j.Exit) != 0 {
		t.Fatalf("unbound elements must not exit: %+v", j.Exit)
	}
	g.RemoveUnbound(j)
	if len(parent.Children()) != 1 {
		t.Fatal("unrelated child was removed")
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	g := New()
	outer := g.CreateElement("g", g.Root())
	g.SetAttributes(outer, Attrs{"class": "outer"})
	inner := g.CreateElement("text", outer)
	g.SetAttributes(inner, Attrs{"class": "label axis"})
	second := g.CreateElement("text", g.Root())
	g.SetAttributes(second, Attrs{"class": "label"})

	if got := g.Select(g.Root(), "axis"); got != inner {
		t.Fatalf("Select(axis) = %v", got)
	}
	if got := g.SelectAll(g.Root(), "label"); len(got) != 2 || got[0] != inner || got[1] != second {
		t.Fatalf("SelectAll(label) = %v", got)
	}
	if got := g.Select(g.Root(), "missing"); got != nil {
		t.Fatalf("Select(missing) = %v, want nil", got)
	}
}

func TestToLocal(t *testing.T) {
	t.Parallel()

	g := New()
	plot := g.CreateElement("g", g.Root())
	g.Translate(plot, 60, 69)
	hit := g.CreateElement("rect", plot)

	x, y := g.ToLocal(hit, 100, 100)
	if x != 40 || y != 31 {
		t.Fatalf("ToLocal = (%v, %v), want (40, 31)", x, y)
	}
	if v, _ := plot.Attr("transform"); v != "translate(60,69)" {
		t.Fatalf("transform = %q", v)
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	g := New()
	el := g.CreateElement("rect", g.Root())

	var got []PointerEvent
	g.OnPointerEvent(el, PointerMove, func(ev PointerEvent) { got = append(got, ev) })
	// Re-registering replaces rather than stacks.
	g.OnPointerEvent(el, PointerMove, func(ev PointerEvent) { got = append(got, ev) })

	if !g.Dispatch(el, PointerEvent{Type: PointerMove, X: 3}) {
		t.Fatal("Dispatch(pointermove) reported no handler")
	}
	if g.Dispatch(el, PointerEvent{Type: PointerLeave}) {
		t.Fatal("Dispatch(pointerleave) ran without a handler")
	}
	if len(got) != 1 || got[0].X != 3 {
		t.Fatalf("handled events = %+v", got)
	}

	g.OnPointerEvent(el, PointerMove, nil)
	if g.Dispatch(el, PointerEvent{Type: PointerMove}) {
		t.Fatal("handler still registered after nil")
	}
}

func TestWriteSVG(t *testing.T) {
	t.Parallel()

	g := New()
	g.SetAttributes(g.Root(), Attrs{"width": "10"})
	grp := g.CreateElement("g", g.Root())
	txt := g.CreateElement("text", grp)
	g.SetText(txt, `a < b & "c"`)
	g.CreateElement("path", grp)

	want := strings.Join([]string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="10">`,
		`  <g>`,
		`    <text>a &lt; b &amp; &#34;c&#34;</text>`,
		`    <path/>`,
		`  </g>`,
		`</svg>`,
		``,
	}, "\n")
	if diff := cmp.Diff(want, g.String()); diff != "" {
		t.Fatalf("WriteSVG mismatch (-want +got):\n%s", diff)
	}
}
