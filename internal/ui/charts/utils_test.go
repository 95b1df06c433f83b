package charts

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

func TestBuildLabelLine(t *testing.T) {
	tests := map[string]struct {
		width     int
		positions []int
		labels    []string
		want      string
	}{
		"centred":         {width: 12, positions: []int{2, 8}, labels: []string{"10a", "11a"}, want: " 10a   11a  "},
		"clamped left":    {width: 8, positions: []int{0}, labels: []string{"10a"}, want: "10a     "},
		"clamped right":   {width: 8, positions: []int{7}, labels: []string{"10a"}, want: "     10a"},
		"overlap skipped": {width: 10, positions: []int{2, 4}, labels: []string{"10a", "11a"}, want: " 10a      "},
		"too wide":        {width: 2, positions: []int{1}, labels: []string{"10a"}, want: "  "},
		"zero width":      {width: 0, positions: []int{0}, labels: []string{"x"}, want: ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := BuildLabelLine(tt.width, tt.positions, tt.labels); got != tt.want {
				t.Fatalf("BuildLabelLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	background := strings.Join([]string{
		"..........",
		"..........",
		"..........",
	}, "\n")

	tests := map[string]struct {
		col, row int
		want     string
	}{
		"inside":        {col: 2, row: 1, want: "..........\n..ab......\n..cd......"},
		"clipped right": {col: 9, row: 0, want: ".........a\n.........c\n.........."},
		"clipped left":  {col: -1, row: 0, want: "b.........\nd.........\n.........."},
		"below":         {col: 0, row: 5, want: background},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Overlay(background, "ab\ncd", tt.col, tt.row); got != tt.want {
				t.Fatalf("Overlay() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestOverlayKeepsStyledBackground(t *testing.T) {
	style := lipgloss.NewStyle().Bold(true)
	background := style.Render("abcdef")

	got := Overlay(background, "XY", 2, 0)
	if stripped := ansi.Strip(got); stripped != "abXYef" {
		t.Fatalf("Overlay() stripped = %q", stripped)
	}
	if ansi.StringWidth(got) != 6 {
		t.Fatalf("Overlay() width = %d", ansi.StringWidth(got))
	}
}

func TestApplyYAxisLabels(t *testing.T) {
	lines := ApplyYAxisLabels([]string{"a", "b"}, map[int]string{0: "12"}, 3, lipgloss.NewStyle())
	if lines[0] != " 12 a" || lines[1] != "    b" {
		t.Fatalf("ApplyYAxisLabels() = %q", lines)
	}
}

func TestRenderCentered(t *testing.T) {
	got := RenderCentered(7, 3, "hi")
	want := "       \n  hi\n       "
	if got != want {
		t.Fatalf("RenderCentered() = %q, want %q", got, want)
	}
}
