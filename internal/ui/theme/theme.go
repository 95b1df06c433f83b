// Package theme holds the colors and styles of the terminal UI.
package theme

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/compat"
)

// Theme defines all colors used throughout the UI.
type Theme struct {
	// Base colors
	Primary compat.CompleteAdaptiveColor

	// Text colors
	Text      compat.CompleteAdaptiveColor
	TextMuted compat.CompleteAdaptiveColor

	// Status bar
	StatusBarBg   compat.CompleteAdaptiveColor
	StatusBarText compat.CompleteAdaptiveColor

	// Border colors
	Border      compat.AdaptiveColor
	BorderFocus compat.CompleteAdaptiveColor

	// Chart colors, matching the SVG chart stylesheet
	ChartFill     compat.AdaptiveColor
	ChartCapacity compat.AdaptiveColor
	ChartFlag     compat.AdaptiveColor
	ChartCursor   compat.AdaptiveColor

	Error compat.AdaptiveColor
}

// DefaultTheme is the adaptive color scheme used by default.
// Use Open Color palette when possible to define colors: https://yeun.github.io/open-color/
var DefaultTheme = Theme{
	Primary: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#1c7ed6"), ANSI256: lipgloss.Color("33"), ANSI: lipgloss.Color("12")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#4198FF"), ANSI256: lipgloss.Color("75"), ANSI: lipgloss.Color("12")},
	},

	// Text
	Text: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#111827"), ANSI256: lipgloss.Color("0"), ANSI: lipgloss.Color("0")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F9FAFB"), ANSI256: lipgloss.Color("15"), ANSI: lipgloss.Color("15")},
	},
	TextMuted: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#6B7280"), ANSI256: lipgloss.Color("240"), ANSI: lipgloss.Color("8")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#9CA3AF"), ANSI256: lipgloss.Color("250"), ANSI: lipgloss.Color("7")},
	},

	// Status bar
	StatusBarBg: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#1c7ed6"), ANSI256: lipgloss.Color("33"), ANSI: lipgloss.Color("12")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#4dabf7"), ANSI256: lipgloss.Color("25"), ANSI: lipgloss.Color("4")},
	},
	StatusBarText: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#f8f9fa"), ANSI256: lipgloss.Color("255"), ANSI: lipgloss.Color("15")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#f8f9fa"), ANSI256: lipgloss.Color("255"), ANSI: lipgloss.Color("15")},
	},

	// Borders
	Border: compat.AdaptiveColor{
		Light: lipgloss.Color("#D1D5DB"), // Gray-300
		Dark:  lipgloss.Color("#374151"), // Gray-700
	},
	BorderFocus: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#1c7ed6"), ANSI256: lipgloss.Color("33"), ANSI: lipgloss.Color("12")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#4198FF"), ANSI256: lipgloss.Color("75"), ANSI: lipgloss.Color("12")},
	},

	// Chart
	ChartFill: compat.AdaptiveColor{
		Light: lipgloss.Color("#74c0fc"),
		Dark:  lipgloss.Color("#1971c2"),
	},
	ChartCapacity: compat.AdaptiveColor{
		Light: lipgloss.Color("#adb5bd"),
		Dark:  lipgloss.Color("#868e96"),
	},
	ChartFlag: compat.AdaptiveColor{
		Light: lipgloss.Color("#e8590c"),
		Dark:  lipgloss.Color("#ff922b"),
	},
	ChartCursor: compat.AdaptiveColor{
		Light: lipgloss.Color("#4198FF"),
		Dark:  lipgloss.Color("#4198FF"),
	},

	Error: compat.AdaptiveColor{
		Light: lipgloss.Color("#FF0000"),
		Dark:  lipgloss.Color("#FF0000"),
	},
}

// Styles holds all lipgloss styles derived from a theme
type Styles struct {
	// Status bar
	StatusBar   lipgloss.Style
	StatusLabel lipgloss.Style
	StatusValue lipgloss.Style
	StatusSep   lipgloss.Style

	// Navbar
	NavBar   lipgloss.Style
	NavItem  lipgloss.Style
	NavKey   lipgloss.Style
	NavBrand lipgloss.Style

	// Content
	ViewTitle lipgloss.Style
	ViewText  lipgloss.Style
	ViewMuted lipgloss.Style

	// Layout helpers
	BorderStyle lipgloss.Style
	FocusBorder lipgloss.Style

	// Charts
	ChartAxis     lipgloss.Style
	ChartFill     lipgloss.Style
	ChartCapacity lipgloss.Style
	ChartFlag     lipgloss.Style
	ChartCursor   lipgloss.Style
	ChartDialog   lipgloss.Style
	ChartCount    lipgloss.Style

	// JSON
	JSONKey    lipgloss.Style
	JSONString lipgloss.Style
	JSONNumber lipgloss.Style
	JSONBool   lipgloss.Style

	// Tables
	TableHeader lipgloss.Style

	// Errors
	ErrorTitle  lipgloss.Style
	ErrorBorder lipgloss.Style
	ErrorText   lipgloss.Style
}

// NewStyles creates a Styles instance from the default adaptive theme.
func NewStyles() Styles {
	t := DefaultTheme
	return Styles{
		// Status bar
		StatusBar: lipgloss.NewStyle().
			Foreground(t.StatusBarText).
			Background(t.StatusBarBg).
			Padding(0, 1),

		StatusLabel: lipgloss.NewStyle().
			Foreground(t.StatusBarText).
			Background(t.StatusBarBg),

		StatusValue: lipgloss.NewStyle().
			Foreground(t.StatusBarText).
			Background(t.StatusBarBg).
			Bold(true),

		StatusSep: lipgloss.NewStyle().
			Foreground(t.StatusBarText).
			Background(t.StatusBarBg).
			Faint(true),

		// Navbar
		NavBar: lipgloss.NewStyle().
			Padding(0, 1),

		NavItem: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			PaddingRight(1),

		NavKey: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Border).
			Padding(0, 1),

		NavBrand: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		// Content
		ViewTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		ViewText: lipgloss.NewStyle().
			Foreground(t.Text),

		ViewMuted: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		// Layout helpers
		BorderStyle: lipgloss.NewStyle().
			Foreground(t.Border),

		FocusBorder: lipgloss.NewStyle().
			Foreground(t.BorderFocus),

		// Charts
		ChartAxis: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		ChartFill: lipgloss.NewStyle().
			Foreground(t.ChartFill),

		ChartCapacity: lipgloss.NewStyle().
			Foreground(t.ChartCapacity),

		ChartFlag: lipgloss.NewStyle().
			Foreground(t.ChartFlag),

		ChartCursor: lipgloss.NewStyle().
			Foreground(t.ChartCursor),

		ChartDialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.ChartCursor).
			Padding(0, 1),

		ChartCount: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true),

		// JSON
		JSONKey: lipgloss.NewStyle().
			Foreground(t.Primary),

		JSONString: lipgloss.NewStyle().
			Foreground(t.ChartFlag),

		JSONNumber: lipgloss.NewStyle().
			Foreground(t.ChartFill),

		JSONBool: lipgloss.NewStyle().
			Foreground(t.ChartCapacity),

		TableHeader: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Bold(true),

		ErrorTitle: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		ErrorBorder: lipgloss.NewStyle().
			Foreground(t.Error),

		ErrorText: lipgloss.NewStyle().
			Foreground(t.Error),
	}
}
