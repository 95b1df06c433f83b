// Package devtools provides a quake-style log of the Redis commands the
// application sent.
package devtools

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/lazycharts/internal/devtools"
	"github.com/kpumuk/lazycharts/internal/ui/components/frame"
	"github.com/kpumuk/lazycharts/internal/ui/dialogs"
)

// DialogID identifies the dev tools dialog.
const DialogID dialogs.DialogID = "devtools"

// Styles holds the styles used by the dev tools console.
type Styles struct {
	Title  lipgloss.Style
	Border lipgloss.Style
	Header lipgloss.Style
	Text   lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
}

type column struct {
	title string
	width int
	right bool
}

var logColumns = []column{
	{title: "#", width: 5, right: true},
	{title: "Time", width: 12},
	{title: "Origin", width: 14},
	{title: "Dur", width: 6, right: true},
	{title: "Command"},
}

// Model defines state for the dev tools console.
type Model struct {
	styles       Styles
	title        string
	tracker      *devtools.Tracker
	width        int
	height       int
	windowWidth  int
	windowHeight int
	minHeight    int
	yOffset      int
	// follow keeps the newest entry in view as the log grows.
	follow bool
}

// Option configures the dev tools console.
type Option func(*Model)

// New creates a new dev tools console model.
func New(opts ...Option) *Model {
	m := &Model{
		title:     "Redis Commands",
		minHeight: 6,
		follow:    true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithTitle sets the dialog title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithTracker sets the tracker the log is read from.
func WithTracker(tracker *devtools.Tracker) Option {
	return func(m *Model) { m.tracker = tracker }
}

// Init implements dialogs.DialogModel.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles input and console lifecycle.
func (m *Model) Update(msg tea.Msg) (dialogs.DialogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.applySize()
	case tea.KeyMsg:
		switch msg.String() {
		case "t", "~":
			return m, dialogs.Close
		case "up", "k":
			m.scrollTo(m.yOffset - 1)
		case "down", "j":
			m.scrollTo(m.yOffset + 1)
		case "home", "g":
			m.scrollTo(0)
		case "end", "G":
			m.scrollTo(m.maxOffset())
		}
	}
	return m, nil
}

// View renders the console.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	rows := m.rows()
	visible := m.visibleRows()
	if m.follow {
		m.yOffset = m.maxOffset()
	}
	m.yOffset = min(m.yOffset, m.maxOffset())

	lines := make([]string, 0, visible+1)
	lines = append(lines, m.styles.Header.Render(m.formatRow(headerCells())))
	if len(rows) == 0 {
		lines = append(lines, m.styles.Muted.Render("No commands recorded."))
	} else {
		lines = append(lines, rows[m.yOffset:min(m.yOffset+visible, len(rows))]...)
	}

	box := frame.New(
		frame.WithStyles(frame.Styles{
			Title:  m.styles.Title,
			Meta:   m.styles.Muted,
			Border: m.styles.Border,
		}),
		frame.WithTitle(m.title),
		frame.WithMeta(m.meta(len(rows))),
		frame.WithContent(strings.Join(lines, "\n")),
		frame.WithPadding(1),
		frame.WithSize(m.width, m.height),
	)
	return box.View()
}

// Position returns the dialog position.
func (m *Model) Position() (int, int) {
	return 0, 0
}

// ID returns the dialog ID.
func (m *Model) ID() dialogs.DialogID {
	return DialogID
}

func (m *Model) meta(total int) string {
	stats := m.tracker.Stats()
	meta := fmt.Sprintf("%d cmds", stats.Commands)
	if stats.Errors > 0 {
		meta += fmt.Sprintf(", %d errors", stats.Errors)
	}
	if total > m.visibleRows() {
		meta += fmt.Sprintf(" [%d-%d/%d]", m.yOffset+1, min(m.yOffset+m.visibleRows(), total), total)
	}
	return meta
}

// applySize docks the console to the top half of the window.
func (m *Model) applySize() {
	if m.windowWidth == 0 || m.windowHeight == 0 {
		return
	}
	m.width = m.windowWidth
	height := max(m.windowHeight/2, m.minHeight)
	m.height = max(min(height, m.windowHeight-1), 1)
	m.scrollTo(m.yOffset)
}

// visibleRows is the number of log rows below the header.
func (m *Model) visibleRows() int {
	return max(m.height-3, 0)
}

func (m *Model) maxOffset() int {
	return max(len(m.tracker.LogEntries())-m.visibleRows(), 0)
}

func (m *Model) scrollTo(offset int) {
	maxOffset := m.maxOffset()
	m.yOffset = min(max(offset, 0), maxOffset)
	m.follow = m.yOffset == maxOffset
}

func (m *Model) contentWidth() int {
	return max(m.width-4, 0)
}

func headerCells() []string {
	cells := make([]string, len(logColumns))
	for i, c := range logColumns {
		cells[i] = c.title
	}
	return cells
}

func (m *Model) rows() []string {
	entries := m.tracker.LogEntries()
	rows := make([]string, 0, len(entries))
	for _, entry := range entries {
		row := m.formatRow([]string{
			strconv.FormatUint(entry.Seq, 10),
			entry.Time.Format("15:04:05.000"),
			entry.Origin,
			formatDuration(entry),
			entryCommandLabel(entry.Entry),
		})
		if entry.Entry.Err != "" {
			row = m.styles.Error.Render(row)
		} else {
			row = m.styles.Text.Render(row)
		}
		rows = append(rows, row)
	}
	return rows
}

// formatRow lays cells out in the fixed columns. The last column takes the
// remaining width.
func (m *Model) formatRow(cells []string) string {
	var b strings.Builder
	for i, c := range logColumns {
		if i > 0 {
			b.WriteByte(' ')
		}
		cell := cells[i]
		if c.width == 0 {
			b.WriteString(cell)
			continue
		}
		cell = ansi.Truncate(cell, c.width, "…")
		pad := strings.Repeat(" ", c.width-ansi.StringWidth(cell))
		if c.right {
			b.WriteString(pad + cell)
		} else {
			b.WriteString(cell + pad)
		}
	}
	return ansi.Truncate(b.String(), m.contentWidth(), "…")
}

func entryCommandLabel(entry devtools.Entry) string {
	switch entry.Kind {
	case devtools.EntryPipelineBegin:
		return "pipeline begin"
	case devtools.EntryPipelineExec:
		return "pipeline execute"
	}
	if entry.Err != "" {
		return entry.Command + " ! " + entry.Err
	}
	return entry.Command
}

func formatDuration(entry devtools.LogEntry) string {
	if entry.Entry.Kind == devtools.EntryPipelineBegin || entry.Entry.Duration <= 0 {
		return ""
	}
	return devtools.FormatDuration(entry.Entry.Duration)
}
