// Package statusbar renders the top bar summarising the charted series.
package statusbar

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/lazycharts/internal/format"
)

// Data holds the values shown in the bar.
type Data struct {
	Series   string
	RedisURL string
	Samples  int
	// Last is the most recent count; HasLast is false for an empty series.
	Last     float64
	HasLast  bool
	Capacity *float64
	Commands int
	Errors   int
}

// UpdateMsg is sent when the bar should be updated.
type UpdateMsg struct {
	Data Data
}

// Styles holds the styles needed by the status bar.
type Styles struct {
	Bar       lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Separator lipgloss.Style
}

// DefaultStyles returns default styles for the status bar.
func DefaultStyles() Styles {
	return Styles{
		Bar:       lipgloss.NewStyle().Padding(0, 1),
		Label:     lipgloss.NewStyle().Faint(true),
		Value:     lipgloss.NewStyle().Bold(true),
		Separator: lipgloss.NewStyle().Faint(true),
	}
}

// Model defines state for the status bar component.
type Model struct {
	styles Styles
	data   Data
	width  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new status bar model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
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

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// WithData sets the initial data.
func WithData(d Data) Option {
	return func(m *Model) {
		m.data = d
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetData sets the bar data.
func (m *Model) SetData(d Data) {
	m.data = d
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the height of the status bar (always 1).
func (m Model) Height() int {
	return 1
}

// Data returns the current data.
func (m Model) Data() Data {
	return m.data
}

// Init returns an initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(UpdateMsg); ok {
		m.data = msg.Data
	}
	return m, nil
}

func (m Model) items() []string {
	item := func(label, value string) string {
		return m.styles.Label.Render(label+": ") + m.styles.Value.Render(value)
	}

	last := "-"
	if m.data.HasLast {
		last = format.Count(m.data.Last)
	}
	items := []string{
		item("Series", m.data.Series),
		item("Count", last),
	}
	if m.data.Capacity != nil {
		used := "-"
		if m.data.HasLast {
			used = format.Percent(m.data.Last, *m.data.Capacity)
		}
		items = append(items, item("Capacity", format.Count(*m.data.Capacity)+" ("+used+")"))
	}
	items = append(items,
		item("Samples", format.Number(int64(m.data.Samples))),
		item("Redis", format.Number(int64(m.data.Commands))+" cmds"),
	)
	if m.data.Errors > 0 {
		items = append(items, item("Errors", format.Number(int64(m.data.Errors))))
	}
	if m.data.RedisURL != "" {
		items = append(items, m.styles.Label.Render(m.data.RedisURL))
	}
	return items
}

// View renders the status bar. Items that do not fit are dropped from the
// end.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	barStyle := m.styles.Bar.Width(m.width)
	budget := m.width - m.styles.Bar.GetHorizontalPadding()

	sep := m.styles.Separator.Render(" │ ")
	sepWidth := ansi.StringWidth(sep)

	content := ""
	used := 0
	for i, item := range m.items() {
		w := ansi.StringWidth(item)
		if i > 0 {
			w += sepWidth
		}
		if used+w > budget {
			break
		}
		if i > 0 {
			content += sep
		}
		content += item
		used += w
	}

	return barStyle.Render(content)
}
