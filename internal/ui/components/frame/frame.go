// Package frame renders a titled bordered box with optional meta content.
package frame

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Styles holds the styles for a frame.
type Styles struct {
	Title  lipgloss.Style
	Meta   lipgloss.Style
	Border lipgloss.Style
}

// DefaultStyles returns default styles for a frame.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true),
	}
}

// Model defines state for the frame component.
type Model struct {
	styles  Styles
	title   string
	meta    string
	content string
	width   int
	height  int
	padding int
	border  lipgloss.Border
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new frame model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		border: lipgloss.RoundedBorder(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithTitle sets the title shown in the top border.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithMeta sets the text shown at the right of the top border.
func WithMeta(meta string) Option {
	return func(m *Model) {
		m.meta = meta
	}
}

// WithContent sets the content.
func WithContent(content string) Option {
	return func(m *Model) {
		m.content = content
	}
}

// WithSize sets width and height, borders included.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithPadding sets horizontal padding inside the frame.
func WithPadding(padding int) Option {
	return func(m *Model) {
		m.padding = padding
	}
}

// SetTitle sets the title.
func (m *Model) SetTitle(title string) {
	m.title = title
}

// SetMeta sets the meta content.
func (m *Model) SetMeta(meta string) {
	m.meta = meta
}

// SetContent sets the content.
func (m *Model) SetContent(content string) {
	m.content = content
}

// SetSize sets the width and height.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// InnerSize returns the room left for content inside the borders and
// padding.
func (m Model) InnerSize() (int, int) {
	return max(m.width-2-2*m.padding, 0), max(m.height-2, 0)
}

// View renders the frame with the current content. Content lines are
// truncated to fit and missing lines are left blank.
func (m Model) View() string {
	if m.width < 2 || m.height < 2 {
		return ""
	}

	innerWidth := m.width - 2
	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTopBorder(innerWidth))

	content := strings.Split(m.content, "\n")
	left := m.styles.Border.Render(m.border.Left)
	right := m.styles.Border.Render(m.border.Right)
	for i := range m.height - 2 {
		var line string
		if i < len(content) {
			line = content[i]
		}
		lines = append(lines, left+m.padLine(line, innerWidth)+right)
	}

	lines = append(lines,
		m.styles.Border.Render(m.border.BottomLeft+strings.Repeat(m.border.Bottom, innerWidth)+m.border.BottomRight),
	)
	return strings.Join(lines, "\n")
}

// renderTopBorder draws "╭─Title───meta─╮". The meta is dropped first
// when space runs out, then the title is truncated.
func (m Model) renderTopBorder(innerWidth int) string {
	bar := func(n int) string {
		if n <= 0 {
			return ""
		}
		return m.styles.Border.Render(strings.Repeat(m.border.Top, n))
	}

	available := max(innerWidth-2, 0)
	title := m.title
	meta := m.meta
	if ansi.StringWidth(title)+ansi.StringWidth(meta)+1 > available {
		meta = ""
	}
	if ansi.StringWidth(title) > available {
		title = ansi.Truncate(title, available, "…")
	}

	titleWidth := ansi.StringWidth(title)
	metaWidth := ansi.StringWidth(meta)
	var b strings.Builder
	b.WriteString(m.styles.Border.Render(m.border.TopLeft))
	b.WriteString(bar(1))
	if title != "" {
		b.WriteString(m.styles.Title.Render(title))
	}
	b.WriteString(bar(available - titleWidth - metaWidth))
	if meta != "" {
		b.WriteString(m.styles.Meta.Render(meta))
	}
	b.WriteString(bar(min(1, innerWidth)))
	b.WriteString(m.styles.Border.Render(m.border.TopRight))
	return b.String()
}

func (m Model) padLine(line string, width int) string {
	spaces := strings.Repeat(" ", m.padding)
	inner := max(width-2*m.padding, 0)
	line = ansi.Truncate(line, inner, "")
	if w := ansi.StringWidth(line); w < inner {
		line += strings.Repeat(" ", inner-w)
	}
	return ansi.Truncate(spaces+line+spaces, width, "")
}
