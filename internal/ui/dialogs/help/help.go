// Package help provides a keybindings help dialog.
package help

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/lazycharts/internal/ui/components/frame"
	"github.com/kpumuk/lazycharts/internal/ui/dialogs"
)

// DialogID identifies the help dialog.
const DialogID dialogs.DialogID = "help"

// Section groups bindings under a title.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Styles holds the styles used by the help dialog.
type Styles struct {
	Title   lipgloss.Style
	Border  lipgloss.Style
	Section lipgloss.Style
	Key     lipgloss.Style
	Desc    lipgloss.Style
}

// Model defines state for the help dialog component.
type Model struct {
	styles       Styles
	sections     []Section
	width        int
	height       int
	windowWidth  int
	windowHeight int
	row          int
	col          int
	yOffset      int
}

// Option configures the help dialog.
type Option func(*Model)

// New creates a new help dialog model.
func New(opts ...Option) *Model {
	m := &Model{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithSections sets the help sections.
func WithSections(sections []Section) Option {
	return func(m *Model) { m.sections = sections }
}

// Init implements dialogs.DialogModel.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles input and dialog lifecycle.
func (m *Model) Update(msg tea.Msg) (dialogs.DialogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.applySize()
	case tea.KeyMsg:
		switch msg.String() {
		case "?":
			return m, dialogs.Close
		case "up", "k":
			m.scrollTo(m.yOffset - 1)
		case "down", "j":
			m.scrollTo(m.yOffset + 1)
		case "home", "g":
			m.scrollTo(0)
		}
	}
	return m, nil
}

// View renders the help dialog.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	lines := m.lines()
	visible := max(m.height-2, 0)
	end := min(m.yOffset+visible, len(lines))
	box := frame.New(
		frame.WithStyles(frame.Styles{
			Title:  m.styles.Title,
			Border: m.styles.Border,
		}),
		frame.WithTitle("Help"),
		frame.WithContent(strings.Join(lines[m.yOffset:end], "\n")),
		frame.WithPadding(1),
		frame.WithSize(m.width, m.height),
	)
	return box.View()
}

// Position returns the dialog position.
func (m *Model) Position() (int, int) {
	return m.row, m.col
}

// ID returns the dialog ID.
func (m *Model) ID() dialogs.DialogID {
	return DialogID
}

// applySize fits the dialog to its content, centred in the window.
func (m *Model) applySize() {
	lines := m.lines()
	contentWidth := 0
	for _, line := range lines {
		contentWidth = max(contentWidth, ansi.StringWidth(line))
	}

	m.width = max(min(contentWidth+4, m.windowWidth-2), 0)
	m.height = max(min(len(lines)+2, m.windowHeight-2), 0)
	m.row = max((m.windowHeight-m.height)/2, 0)
	m.col = max((m.windowWidth-m.width)/2, 0)
	m.scrollTo(m.yOffset)
}

func (m *Model) scrollTo(offset int) {
	maxOffset := max(len(m.lines())-max(m.height-2, 0), 0)
	m.yOffset = min(max(offset, 0), maxOffset)
}

// lines renders each section as a title followed by aligned key and
// description pairs. Disabled bindings and bindings without help are left
// out.
func (m *Model) lines() []string {
	lines := make([]string, 0, len(m.sections)*4)
	for _, section := range m.sections {
		keys := make([]string, 0, len(section.Bindings))
		descs := make([]string, 0, len(section.Bindings))
		keyWidth := 0
		for _, binding := range section.Bindings {
			help := binding.Help()
			if !binding.Enabled() || strings.TrimSpace(help.Key) == "" {
				continue
			}
			keys = append(keys, help.Key)
			descs = append(descs, help.Desc)
			keyWidth = max(keyWidth, ansi.StringWidth(help.Key))
		}
		if len(keys) == 0 {
			continue
		}

		if len(lines) > 0 {
			lines = append(lines, "")
		}
		if section.Title != "" {
			lines = append(lines, m.styles.Section.Render(section.Title))
		}
		for i, k := range keys {
			pad := strings.Repeat(" ", keyWidth-ansi.StringWidth(k))
			lines = append(lines, m.styles.Key.Render(k)+pad+"  "+m.styles.Desc.Render(descs[i]))
		}
	}
	return lines
}
