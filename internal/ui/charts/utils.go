// Package charts holds the text layout helpers shared by terminal charts.
package charts

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// MaxLabelWidth returns the maximum display width of labels.
func MaxLabelWidth(labels []string) int {
	maxWidth := 0
	for _, label := range labels {
		labelWidth := lipgloss.Width(label)
		if labelWidth > maxWidth {
			maxWidth = labelWidth
		}
	}
	return maxWidth
}

// ApplyYAxisLabels prepends Y-axis labels to chart lines.
// Each line gets a label if present in the labels map, or spacing otherwise.
func ApplyYAxisLabels(lines []string, labels map[int]string, width int, style lipgloss.Style) []string {
	if width <= 0 {
		return lines
	}
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		raw := labels[i]
		padWidth := max(width-lipgloss.Width(raw), 0)
		prefix := strings.Repeat(" ", padWidth)
		if raw != "" {
			raw = style.Render(raw)
		}
		out = append(out, prefix+raw+" "+line)
	}
	return out
}

// BuildLabelLine places labels centred on their column positions. A label
// that would overlap the previous one is skipped and labels running past
// the edges are shifted back inside.
func BuildLabelLine(width int, positions []int, labels []string) string {
	if width <= 0 {
		return ""
	}
	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	lastEnd := -1
	for i, label := range labels {
		if label == "" || i >= len(positions) {
			continue
		}
		labelRunes := []rune(label)
		if len(labelRunes) > width {
			continue
		}
		start := positions[i] - len(labelRunes)/2
		start = min(max(start, 0), width-len(labelRunes))
		if start <= lastEnd+1 && lastEnd >= 0 {
			continue
		}
		copy(line[start:], labelRunes)
		lastEnd = start + len(labelRunes) - 1
	}
	return string(line)
}

// Overlay draws box on top of background with its top-left corner at
// (col, row). Cells of the background outside the box are kept, styles
// included. Parts of the box falling outside the background are dropped.
func Overlay(background, box string, col, row int) string {
	if box == "" {
		return background
	}
	lines := strings.Split(background, "\n")
	for i, boxLine := range strings.Split(box, "\n") {
		r := row + i
		if r < 0 || r >= len(lines) {
			continue
		}
		line := lines[r]
		lineWidth := ansi.StringWidth(line)
		boxWidth := ansi.StringWidth(boxLine)

		start := col
		if start < 0 {
			boxLine = ansi.Cut(boxLine, -start, boxWidth)
			boxWidth += start
			start = 0
		}
		if start >= lineWidth || boxWidth <= 0 {
			continue
		}
		if start+boxWidth > lineWidth {
			boxLine = ansi.Truncate(boxLine, lineWidth-start, "")
			boxWidth = lineWidth - start
		}

		left := ansi.Truncate(line, start, "")
		right := ansi.Cut(line, start+boxWidth, lineWidth)
		lines[r] = left + boxLine + right
	}
	return strings.Join(lines, "\n")
}

// RenderCentered centers content within a given width and height.
// Handles multi-line content by centering vertically and horizontally.
func RenderCentered(width, height int, value string) string {
	if height < 1 {
		return ""
	}
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(" ", width)
	}
	if width <= 0 {
		return strings.Join(lines, "\n")
	}

	contentLines := strings.Split(value, "\n")
	contentHeight := len(contentLines)
	startLine := max((height-contentHeight)/2, 0)

	maxWidthStyle := lipgloss.NewStyle()
	for i, contentLine := range contentLines {
		lineIdx := startLine + i
		if lineIdx >= height {
			break
		}
		trimmed := maxWidthStyle.MaxWidth(width).Render(contentLine)
		pad := max((width-lipgloss.Width(trimmed))/2, 0)
		lines[lineIdx] = strings.Repeat(" ", pad) + trimmed
	}

	return strings.Join(lines, "\n")
}
