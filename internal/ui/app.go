// Package ui renders the Bubble Tea application UI.
package ui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kpumuk/lazycharts/internal/chart/historical"
	"github.com/kpumuk/lazycharts/internal/devtools"
	"github.com/kpumuk/lazycharts/internal/scene"
	"github.com/kpumuk/lazycharts/internal/store"
	"github.com/kpumuk/lazycharts/internal/ui/components/countgraph"
	"github.com/kpumuk/lazycharts/internal/ui/components/errorpopup"
	"github.com/kpumuk/lazycharts/internal/ui/components/frame"
	"github.com/kpumuk/lazycharts/internal/ui/components/inspector"
	"github.com/kpumuk/lazycharts/internal/ui/components/navbar"
	"github.com/kpumuk/lazycharts/internal/ui/components/statusbar"
	"github.com/kpumuk/lazycharts/internal/ui/dialogs"
	devtoolsdialog "github.com/kpumuk/lazycharts/internal/ui/dialogs/devtools"
	"github.com/kpumuk/lazycharts/internal/ui/dialogs/help"
	"github.com/kpumuk/lazycharts/internal/ui/theme"
)

const (
	defaultRefresh = 5 * time.Second
	fetchTimeout   = 3 * time.Second
)

// Loader fetches one window of a series.
type Loader interface {
	Load(ctx context.Context, name string, start, end time.Time) (store.Snapshot, error)
	DisplayRedisURL() string
}

// Options configures the application.
type Options struct {
	// Series is the name of the series to chart.
	Series string
	// Window is how far back from now the chart reaches. Zero charts the
	// whole series.
	Window time.Duration
	// Refresh is the polling interval.
	Refresh time.Duration
	// Config holds the chart defaults.
	Config historical.Config
	// Props carries overrides applied on top of every loaded snapshot, such
	// as the time zone or the axis resolution.
	Props historical.Props
	// Tracker, when set, feeds the command counters of the status bar.
	Tracker *devtools.Tracker
	// Brand is shown in the navbar.
	Brand string
}

// tickMsg is sent every refresh interval to trigger a reload.
type tickMsg time.Time

// snapshotMsg carries a freshly loaded window.
type snapshotMsg struct {
	snapshot store.Snapshot
	at       time.Time
}

// connectionErrorMsg indicates a Redis connection error occurred.
type connectionErrorMsg struct {
	err error
}

// copyErrorMsg reports a failed clipboard copy. It stays on screen until
// the next key press.
type copyErrorMsg struct {
	err error
}

// App is the main application model.
type App struct {
	keys   KeyMap
	opts   Options
	loader Loader
	styles theme.Styles

	width  int
	height int
	ready  bool

	status         statusbar.Model
	graph          countgraph.Model
	inspector      inspector.Model
	inspectorFrame frame.Model
	showInspector  bool
	navbar         navbar.Model
	errorPopup     errorpopup.Model
	copyPopup      errorpopup.Model
	dialogs        dialogs.Stack

	props           historical.Props
	connectionError error
	copyError       error
}

// New creates a new App instance.
func New(loader Loader, opts Options) App {
	styles := theme.NewStyles()
	if opts.Refresh <= 0 {
		opts.Refresh = defaultRefresh
	}
	if opts.Config.Now == nil {
		opts.Config.Now = time.Now
	}
	keys := DefaultKeyMap()

	return App{
		keys:   keys,
		opts:   opts,
		loader: loader,
		styles: styles,
		status: statusbar.New(
			statusbar.WithStyles(statusbar.Styles{
				Bar:       styles.StatusBar,
				Label:     styles.StatusLabel,
				Value:     styles.StatusValue,
				Separator: styles.StatusSep,
			}),
			statusbar.WithData(statusbar.Data{
				Series:   opts.Series,
				RedisURL: loader.DisplayRedisURL(),
			}),
		),
		graph: countgraph.New(
			countgraph.WithStyles(countgraph.Styles{
				Axis:     styles.ChartAxis,
				Fill:     styles.ChartFill,
				Capacity: styles.ChartCapacity,
				Flag:     styles.ChartFlag,
				Cursor:   styles.ChartCursor,
				Muted:    styles.ViewMuted,
				Dialog:   styles.ChartDialog,
				Count:    styles.ChartCount,
			}),
			countgraph.WithConfig(opts.Config),
			countgraph.WithEmptyMessage("Waiting for samples of "+opts.Series+"..."),
		),
		inspector: inspector.New(
			inspector.WithStyles(inspector.Styles{
				Text:        styles.ViewText,
				Key:         styles.JSONKey,
				String:      styles.JSONString,
				Number:      styles.JSONNumber,
				Bool:        styles.JSONBool,
				Null:        styles.ViewMuted,
				Punctuation: styles.ViewMuted,
				Muted:       styles.ViewMuted,
			}),
		),
		inspectorFrame: frame.New(
			frame.WithStyles(frame.Styles{
				Title:  styles.ViewTitle,
				Meta:   styles.ViewMuted,
				Border: styles.BorderStyle,
			}),
			frame.WithTitle("Render state"),
			frame.WithPadding(1),
		),
		navbar: navbar.New(
			navbar.WithStyles(navbar.Styles{
				Bar:   styles.NavBar,
				Key:   styles.NavKey,
				Item:  styles.NavItem,
				Brand: styles.NavBrand,
			}),
			navbar.WithBindings(keys.ShortHelp()),
			navbar.WithBrand(opts.Brand),
		),
		errorPopup: errorpopup.New(
			errorpopup.WithStyles(errorpopup.Styles{
				Title:   styles.ErrorTitle,
				Message: styles.ViewMuted,
				Border:  styles.ErrorBorder,
			}),
			errorpopup.WithRetryInterval(opts.Refresh),
		),
		copyPopup: errorpopup.New(
			errorpopup.WithStyles(errorpopup.Styles{
				Title:   styles.ErrorTitle,
				Message: styles.ViewMuted,
				Border:  styles.ErrorBorder,
			}),
			errorpopup.WithTitle("Copy Failed"),
			errorpopup.WithRetryInterval(0),
		),
		dialogs: dialogs.NewStack(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.fetchCmd(),
		a.tickCmd(),
	)
}

func (a App) tickCmd() tea.Cmd {
	return tea.Tick(a.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd loads the current window of the series.
func (a App) fetchCmd() tea.Cmd {
	loader, opts := a.loader, a.opts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		ctx = devtools.WithOrigin(ctx, "ui.refresh")

		now := opts.Config.Now()
		var start time.Time
		if opts.Window > 0 {
			start = now.Add(-opts.Window)
		}
		snap, err := loader.Load(ctx, opts.Series, start, time.Time{})
		if err != nil {
			return connectionErrorMsg{err: err}
		}
		return snapshotMsg{snapshot: snap, at: now}
	}
}

// buildProps merges a snapshot with the configured overrides.
func (a App) buildProps(snap store.Snapshot, at time.Time) historical.Props {
	p := a.opts.Props
	p.Data = snap.Samples
	if p.InitialCount == nil {
		initial := snap.InitialCount
		p.InitialCount = &initial
	}
	if p.Capacity == nil {
		p.Capacity = snap.Capacity
	}
	if p.TimeZone == "" {
		p.TimeZone = snap.TimeZone
	}
	if a.opts.Window > 0 {
		start := at.Add(-a.opts.Window)
		if p.Start == nil {
			p.Start = &start
		}
		if p.End == nil {
			p.End = &at
		}
	}
	return p
}

func (a *App) applySnapshot(msg snapshotMsg) {
	a.connectionError = nil
	a.props = a.buildProps(msg.snapshot, msg.at)
	a.graph.SetProps(a.props)
	a.inspect()

	data := a.status.Data()
	data.Samples = len(msg.snapshot.Samples)
	data.Capacity = a.props.Capacity
	data.HasLast = len(msg.snapshot.Samples) > 0
	if data.HasLast {
		data.Last = msg.snapshot.Samples[len(msg.snapshot.Samples)-1].Count
	} else {
		data.Last = 0
	}
	stats := a.opts.Tracker.Stats()
	data.Commands = stats.Commands
	data.Errors = stats.Errors
	a.status.SetData(data)
}

// SVG renders the current chart at the configured size, without a cursor.
func (a App) SVG() (string, error) {
	g := scene.New()
	if err := historical.New(g, nil, a.opts.Config).Render(a.props); err != nil {
		return "", err
	}
	return g.String(), nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		cmds = append(cmds, a.fetchCmd(), a.tickCmd())

	case snapshotMsg:
		a.applySnapshot(msg)

	case connectionErrorMsg:
		a.connectionError = msg.err

	case copyErrorMsg:
		a.copyError = msg.err

	case dialogs.OpenDialogMsg, dialogs.CloseDialogMsg:
		var cmd tea.Cmd
		a.dialogs, cmd = a.dialogs.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if a.dialogs.HasDialogs() && msg.String() != "ctrl+c" {
			var cmd tea.Cmd
			a.dialogs, cmd = a.dialogs.Update(msg)
			cmds = append(cmds, cmd)
			break
		}
		a.copyError = nil
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Left):
			a.graph.MoveCursor(-1)
		case key.Matches(msg, a.keys.Right):
			a.graph.MoveCursor(1)
		case key.Matches(msg, a.keys.Leave):
			a.graph.Leave()
		case key.Matches(msg, a.keys.Refresh):
			cmds = append(cmds, a.fetchCmd())
		case key.Matches(msg, a.keys.Inspect):
			a.showInspector = !a.showInspector
			a.layout()
		case key.Matches(msg, a.keys.Copy):
			svg, err := a.SVG()
			if err != nil {
				a.copyError = fmt.Errorf("render svg: %w", err)
				break
			}
			cmds = append(cmds, copyTextCmd(svg))
		case key.Matches(msg, a.keys.Help):
			cmds = append(cmds, a.openDialog(a.helpDialog()))
		case key.Matches(msg, a.keys.Trace):
			cmds = append(cmds, a.openDialog(a.devtoolsDialog()))
		case a.showInspector:
			var cmd tea.Cmd
			a.inspector, cmd = a.inspector.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.graph, cmd = a.graph.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		var cmd tea.Cmd
		a.dialogs, cmd = a.dialogs.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// layout sizes the components: status bar on top, navbar at the bottom and
// the graph in between, sharing its row with the inspector when shown.
func (a *App) layout() {
	a.status.SetWidth(a.width)
	a.navbar.SetWidth(a.width)

	contentHeight := max(a.height-a.status.Height()-a.navbar.Height(), 0)
	graphWidth := a.width
	if a.showInspector {
		inspectorWidth := a.width * 2 / 5
		graphWidth = a.width - inspectorWidth
		a.inspectorFrame.SetSize(inspectorWidth, contentHeight)
		a.inspector.SetSize(a.inspectorFrame.InnerSize())
	}
	a.graph.SetSize(graphWidth, contentHeight)
	a.graph.SetOrigin(0, a.status.Height())
	a.inspect()
	a.errorPopup.SetSize(a.width, contentHeight)
	a.copyPopup.SetSize(a.width, contentHeight)
}

// inspect shows the graph's render state in the inspector.
func (a *App) inspect() {
	if rs := a.graph.State(); rs != nil {
		a.inspector.SetValue(rs)
		return
	}
	a.inspector.SetValue(nil)
}

func (a App) content() string {
	if !a.ready {
		return "Initializing..."
	}

	content := a.graph.View()
	if a.showInspector {
		row, _ := a.inspector.Offset()
		a.inspectorFrame.SetMeta(fmt.Sprintf("%d/%d", min(row+1, a.inspector.LineCount()), a.inspector.LineCount()))
		a.inspectorFrame.SetContent(a.inspector.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, a.inspectorFrame.View())
	}

	if a.connectionError != nil {
		a.errorPopup.SetMessage(a.connectionError.Error())
		content = a.errorPopup.Overlay(content)
	} else if a.copyError != nil {
		a.copyPopup.SetMessage(a.copyError.Error())
		content = a.copyPopup.Overlay(content)
	}

	return a.dialogs.Overlay(lipgloss.JoinVertical(
		lipgloss.Left,
		a.status.View(),
		content,
		a.navbar.View(),
	))
}

func (a App) openDialog(model dialogs.DialogModel) tea.Cmd {
	return func() tea.Msg { return dialogs.OpenDialogMsg{Model: model} }
}

func (a App) helpDialog() *help.Model {
	return help.New(
		help.WithStyles(help.Styles{
			Title:   a.styles.ViewTitle,
			Border:  a.styles.FocusBorder,
			Section: a.styles.ViewTitle,
			Key:     a.styles.NavKey,
			Desc:    a.styles.ViewText,
		}),
		help.WithSections(a.keys.FullHelp()),
	)
}

func (a App) devtoolsDialog() *devtoolsdialog.Model {
	return devtoolsdialog.New(
		devtoolsdialog.WithStyles(devtoolsdialog.Styles{
			Title:  a.styles.ViewTitle,
			Border: a.styles.FocusBorder,
			Header: a.styles.TableHeader,
			Text:   a.styles.ViewText,
			Muted:  a.styles.ViewMuted,
			Error:  a.styles.ErrorText,
		}),
		devtoolsdialog.WithTracker(a.opts.Tracker),
	)
}

// View implements tea.Model.
func (a App) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.SetContent(a.content())
	return v
}
