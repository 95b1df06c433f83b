// Package inspector shows a scrollable, syntax-highlighted JSON dump of the
// chart's render state next to the graph.
package inspector

import (
	"encoding/json"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/lazycharts/internal/mathutil"
)

// Styles holds styles for JSON tokens.
type Styles struct {
	Text        lipgloss.Style
	Key         lipgloss.Style
	String      lipgloss.Style
	Number      lipgloss.Style
	Bool        lipgloss.Style
	Null        lipgloss.Style
	Punctuation lipgloss.Style
	Muted       lipgloss.Style
}

// DefaultStyles returns default styles.
func DefaultStyles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle(),
		Key:         lipgloss.NewStyle().Bold(true),
		String:      lipgloss.NewStyle(),
		Number:      lipgloss.NewStyle(),
		Bool:        lipgloss.NewStyle(),
		Null:        lipgloss.NewStyle().Faint(true),
		Punctuation: lipgloss.NewStyle().Faint(true),
		Muted:       lipgloss.NewStyle().Faint(true),
	}
}

// KeyMap holds the scrolling bindings.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
}

// DefaultKeyMap returns the default scrolling bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "scroll up")),
		Down:  key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "scroll down")),
		Left:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "scroll left")),
		Right: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "scroll right")),
		Home:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	}
}

// Model is the inspector state.
type Model struct {
	styles Styles
	keys   KeyMap
	width  int
	height int

	lines  []string
	tokens [][]chroma.Token

	row int
	col int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new inspector.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		keys:   DefaultKeyMap(),
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

// WithSize sets the dimensions.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetSize sets the dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// Width returns the width.
func (m Model) Width() int {
	return m.width
}

// Height returns the height.
func (m Model) Height() int {
	return m.height
}

// LineCount returns the number of lines.
func (m Model) LineCount() int {
	return len(m.lines)
}

// Offset returns the first visible line and column.
func (m Model) Offset() (row, col int) {
	return m.row, m.col
}

// SetValue formats and tokenizes a JSON-serializable value. The scroll
// position is kept so a refreshing value does not jump back to the top.
func (m *Model) SetValue(value any) {
	m.lines = nil
	m.tokens = nil

	if value != nil {
		b, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			m.lines = []string{"{}", "  Error formatting JSON: " + err.Error()}
		} else {
			text := string(b)
			m.lines = strings.Split(text, "\n")
			m.tokens = tokenizeJSONLines(text)
			if len(m.tokens) != len(m.lines) {
				m.tokens = nil
			}
		}
	}
	m.clampScroll()
}

// ScrollBy moves the viewport by the given number of lines and columns.
func (m *Model) ScrollBy(rows, cols int) {
	m.row += rows
	m.col += cols
	m.clampScroll()
}

func (m *Model) clampScroll() {
	m.row = mathutil.Clamp(m.row, 0, max(len(m.lines)-m.height, 0))
	widest := 0
	for _, line := range m.lines {
		widest = max(widest, len(line))
	}
	m.col = mathutil.Clamp(m.col, 0, max(widest-m.width, 0))
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles scrolling keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.ScrollBy(-1, 0)
	case key.Matches(keyMsg, m.keys.Down):
		m.ScrollBy(1, 0)
	case key.Matches(keyMsg, m.keys.Left):
		m.ScrollBy(0, -4)
	case key.Matches(keyMsg, m.keys.Right):
		m.ScrollBy(0, 4)
	case key.Matches(keyMsg, m.keys.Home):
		m.row, m.col = 0, 0
	}
	return m, nil
}

// View renders the visible part of the dump, padded to the full size.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	out := make([]string, m.height)
	for i := range out {
		out[i] = m.RenderLine(m.row+i, m.col, m.width)
		if out[i] == "" {
			out[i] = strings.Repeat(" ", m.width)
		}
	}
	return strings.Join(out, "\n")
}

// RenderLine renders a single line with horizontal scroll and syntax highlighting.
func (m Model) RenderLine(index, offset, width int) string {
	if width <= 0 || index < 0 || index >= len(m.lines) {
		return ""
	}
	if len(m.tokens) == len(m.lines) {
		return m.renderTokens(m.tokens[index], offset, width)
	}

	line := ansi.Cut(m.lines[index], max(offset, 0), max(offset, 0)+width)
	return m.styles.Text.Render(pad(line, width))
}

func (m Model) renderTokens(tokens []chroma.Token, offset, width int) string {
	offset = max(offset, 0)
	end := offset + width

	var builder strings.Builder
	col := 0
	for _, token := range tokens {
		tokenWidth := lipgloss.Width(token.Value)
		if tokenWidth == 0 {
			continue
		}
		tokenStart, tokenEnd := col, col+tokenWidth
		if tokenEnd > offset && tokenStart < end {
			start := mathutil.Clamp(offset-tokenStart, 0, tokenWidth)
			stop := mathutil.Clamp(end-tokenStart, 0, tokenWidth)
			if segment := ansi.Cut(token.Value, start, stop); segment != "" {
				builder.WriteString(m.styleForToken(token).Render(segment))
			}
		}
		col = tokenEnd
		if col >= end {
			break
		}
	}
	return pad(builder.String(), width)
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func (m Model) styleForToken(token chroma.Token) lipgloss.Style {
	switch {
	case token.Type == chroma.NameTag:
		return m.styles.Key
	case token.Type.InSubCategory(chroma.LiteralString):
		return m.styles.String
	case token.Type.InSubCategory(chroma.LiteralNumber):
		return m.styles.Number
	case token.Type.InCategory(chroma.Keyword):
		if token.Value == "null" {
			return m.styles.Null
		}
		return m.styles.Bool
	case token.Type == chroma.Punctuation:
		return m.styles.Punctuation
	default:
		return m.styles.Text
	}
}

// tokenizeJSONLines splits the token stream at newlines so every line can be
// rendered on its own.
func tokenizeJSONLines(text string) [][]chroma.Token {
	if jsonLexer == nil {
		return nil
	}
	iterator, err := jsonLexer.Tokenise(nil, text)
	if err != nil {
		return nil
	}

	lines := [][]chroma.Token{{}}
	for _, token := range iterator.Tokens() {
		if token.Type == chroma.EOFType {
			break
		}
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				lines = append(lines, []chroma.Token{})
			}
			if part != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], chroma.Token{Type: token.Type, Value: part})
			}
		}
	}
	return lines
}

var jsonLexer = func() chroma.Lexer {
	lexer := lexers.Get("json")
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}()
