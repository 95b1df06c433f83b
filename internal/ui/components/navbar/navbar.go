// Package navbar renders the bottom bar with key hints.
package navbar

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Styles holds the styles needed by the navbar.
type Styles struct {
	Bar   lipgloss.Style
	Key   lipgloss.Style
	Item  lipgloss.Style
	Brand lipgloss.Style
}

// DefaultStyles returns default styles for the navbar.
func DefaultStyles() Styles {
	return Styles{
		Bar:   lipgloss.NewStyle().Padding(0, 1),
		Key:   lipgloss.NewStyle().Padding(0, 1),
		Item:  lipgloss.NewStyle().PaddingRight(1),
		Brand: lipgloss.NewStyle().Bold(true),
	}
}

// Model defines state for the navbar component.
type Model struct {
	styles   Styles
	bindings []key.Binding
	brand    string
	width    int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new navbar model.
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

// WithBindings sets the key bindings to hint at.
func WithBindings(bindings []key.Binding) Option {
	return func(m *Model) {
		m.bindings = bindings
	}
}

// WithBrand sets the text shown on the right.
func WithBrand(brand string) Option {
	return func(m *Model) {
		m.brand = brand
	}
}

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetBindings sets the key bindings to hint at.
func (m *Model) SetBindings(bindings []key.Binding) {
	m.bindings = bindings
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the height of the navbar (always 1).
func (m Model) Height() int {
	return 1
}

// Init returns an initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the navbar. Hints that do not fit are dropped from the end,
// and the brand is only drawn when there is room left for it.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	budget := m.width - m.styles.Bar.GetHorizontalPadding()

	items := ""
	for _, b := range m.bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		item := m.styles.Key.Render(help.Key) + m.styles.Item.Render(help.Desc)
		if ansi.StringWidth(items+item) > budget {
			break
		}
		items += item
	}

	if m.brand != "" {
		brand := m.styles.Brand.Render(m.brand)
		if gap := budget - ansi.StringWidth(items) - ansi.StringWidth(brand); gap > 0 {
			items += strings.Repeat(" ", gap) + brand
		}
	}

	return m.styles.Bar.Width(m.width).Render(items)
}
