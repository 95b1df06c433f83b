// Package errorpopup renders a titled error box over the screen content.
package errorpopup

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/kpumuk/lazycharts/internal/ui/charts"
)

const maxWidth = 60

// Styles holds the styles needed by the error popup.
type Styles struct {
	Title   lipgloss.Style
	Message lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns default styles for the error popup.
func DefaultStyles() Styles {
	errorColor := lipgloss.Color("#FF0000")
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		Message: lipgloss.NewStyle().Faint(true),
		Border:  lipgloss.NewStyle().Foreground(errorColor),
	}
}

// Model defines state for the error popup component.
type Model struct {
	styles  Styles
	title   string
	message string
	retry   time.Duration
	width   int
	height  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new error popup model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		title:  "Connection Error",
		retry:  5 * time.Second,
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

// WithSize sets the size of the area the popup is centred in.
func WithSize(w, h int) Option {
	return func(m *Model) {
		m.width = w
		m.height = h
	}
}

// WithMessage sets the error message.
func WithMessage(msg string) Option {
	return func(m *Model) {
		m.message = msg
	}
}

// WithTitle sets the title drawn on the top border.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithRetryInterval sets the interval mentioned below the message. Zero
// hides the hint.
func WithRetryInterval(d time.Duration) Option {
	return func(m *Model) {
		m.retry = d
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetSize sets the width and height.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetMessage sets the error message to display.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// SetRetryInterval sets the interval mentioned below the message.
func (m *Model) SetRetryInterval(d time.Duration) {
	m.retry = d
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// Message returns the current error message.
func (m Model) Message() string {
	return m.message
}

// HasError returns true if there is an error message to display.
func (m Model) HasError() bool {
	return m.message != ""
}

// View renders the popup box alone. It is empty without a message or when
// there is no room for it.
func (m Model) View() string {
	if m.message == "" || m.width < 4 || m.height < 1 {
		return ""
	}

	content := m.styles.Message.Render(m.message)
	if m.retry > 0 {
		content += "\n\n" + m.styles.Message.Render(fmt.Sprintf("Retrying every %s...", humanInterval(m.retry)))
	}
	box := m.renderBox(m.title, content, min(m.width, maxWidth))

	lines := strings.Split(box, "\n")
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

// Overlay centres the popup over background. The background is returned
// unchanged when there is no error.
func (m Model) Overlay(background string) string {
	box := m.View()
	if box == "" {
		return background
	}
	col := (m.width - lipgloss.Width(box)) / 2
	row := (m.height - lipgloss.Height(box)) / 2
	return charts.Overlay(background, box, col, row)
}

func humanInterval(d time.Duration) string {
	if d%time.Second == 0 {
		secs := int(d / time.Second)
		if secs == 1 {
			return "second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	return d.String()
}

// renderBox renders content in a box with the title on the top border.
func (m Model) renderBox(title, content string, width int) string {
	border := lipgloss.RoundedBorder()

	titleText := " " + title + " "
	styledTitle := m.styles.Title.Render(titleText)
	titleWidth := lipgloss.Width(styledTitle)
	if titleWidth > width-3 {
		styledTitle = ""
		titleWidth = 0
	}

	hBar := m.styles.Border.Render(border.Top)
	leftPad := 1
	rightPad := max(width-2-titleWidth-leftPad, 0)
	if titleWidth == 0 {
		leftPad = width - 2
		rightPad = 0
	}
	topBorder := m.styles.Border.Render(border.TopLeft) +
		strings.Repeat(hBar, leftPad) + styledTitle + strings.Repeat(hBar, rightPad) +
		m.styles.Border.Render(border.TopRight)

	vBar := m.styles.Border.Render(border.Left)
	vBarRight := m.styles.Border.Render(border.Right)
	innerWidth := width - 2
	rendered := lipgloss.NewStyle().Width(innerWidth).Padding(0, 1).Render(content)

	lines := []string{topBorder}
	for _, line := range strings.Split(rendered, "\n") {
		if lineWidth := lipgloss.Width(line); lineWidth < innerWidth {
			line += strings.Repeat(" ", innerWidth-lineWidth)
		}
		lines = append(lines, vBar+line+vBarRight)
	}
	lines = append(lines, m.styles.Border.Render(border.BottomLeft)+
		strings.Repeat(hBar, innerWidth)+
		m.styles.Border.Render(border.BottomRight))

	return strings.Join(lines, "\n")
}
