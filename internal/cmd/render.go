package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"

	"github.com/kpumuk/lazycharts/internal/chart/historical"
	"github.com/kpumuk/lazycharts/internal/chart/overlay"
	"github.com/kpumuk/lazycharts/internal/devtools"
	"github.com/kpumuk/lazycharts/internal/scene"
)

const loadTimeout = 10 * time.Second

var errNoSource = errors.New("either --props or --series is required")

type renderOptions struct {
	props  string
	series string
	out    string

	start        string
	end          string
	now          string
	width        float64
	height       float64
	capacity     float64
	initialCount float64
	tz           string
	resolution   string
	personIcon   bool
	pointer      float64

	dump  bool
	trace bool
}

func newRenderCmd() *cobra.Command {
	var o renderOptions
	c := &cobra.Command{
		Use:   "render",
		Short: "Render a historical count chart as SVG",
		Example: "  lazycharts render --series web --start -6h --out web.svg\n" +
			"  lazycharts render --props chart.json --pointer 240 --dump",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, &o)
		},
	}

	f := c.Flags()
	f.StringVar(&o.props, "props", "", "read props from a JSON file (- for stdin)")
	f.StringVar(&o.series, "series", "", "load samples from this Redis series")
	f.StringVar(&o.out, "out", "", "write the SVG to this file instead of stdout")
	f.StringVar(&o.start, "start", "", "domain start: RFC 3339 time or offset from now such as -6h")
	f.StringVar(&o.end, "end", "", "domain end: RFC 3339 time or offset from now")
	f.StringVar(&o.now, "now", "", "pretend the current time is this RFC 3339 time")
	f.Float64Var(&o.width, "width", 0, "chart width in pixels")
	f.Float64Var(&o.height, "height", 0, "chart height in pixels")
	f.Float64Var(&o.capacity, "capacity", 0, "draw a capacity line at this count")
	f.Float64Var(&o.initialCount, "initial-count", 0, "count in effect before the first sample")
	f.StringVar(&o.tz, "tz", "", "IANA time zone for labels")
	f.StringVar(&o.resolution, "resolution", "", "time axis resolution: hour, day or week")
	f.BoolVar(&o.personIcon, "person-icon", true, "prefix the overlay count with a person icon")
	f.Float64Var(&o.pointer, "pointer", 0, "show the overlay for this x, in plot coordinates")
	f.BoolVar(&o.dump, "dump", false, "print the render state as JSON to stderr")
	f.BoolVar(&o.trace, "trace", false, "print the Redis commands sent to stderr")
	c.MarkFlagsMutuallyExclusive("props", "series")

	return c
}

func runRender(cmd *cobra.Command, o *renderOptions) error {
	stop, err := startProfile(cmd)
	if err != nil {
		return err
	}
	defer stop()

	cfg := historical.DefaultConfig()
	if o.now != "" {
		now, err := time.Parse(time.RFC3339, o.now)
		if err != nil {
			return fmt.Errorf("parse --now: %w", err)
		}
		cfg.Now = func() time.Time { return now }
	}

	var tracker *devtools.Tracker
	if o.trace {
		tracker = devtools.NewTracker()
	}

	props, err := loadProps(cmd, o, cfg.Now(), tracker)
	if err != nil {
		return err
	}
	if tracker != nil {
		if _, err := tracker.WriteTo(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	g := scene.New()
	chart := historical.New(g, nil, cfg)
	if err := chart.Render(props); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if cmd.Flags().Changed("pointer") {
		chart.PointerMove(o.pointer)
	}

	if err := writeSVG(cmd, o.out, g); err != nil {
		return err
	}
	if o.dump {
		return dumpState(cmd.ErrOrStderr(), chart.State(), chart.Overlay())
	}
	return nil
}

// loadProps reads the base props from a file or Redis and applies the flag
// overrides on top.
func loadProps(cmd *cobra.Command, o *renderOptions, now time.Time, tracker *devtools.Tracker) (historical.Props, error) {
	var props historical.Props
	flags := cmd.Flags()

	var start, end time.Time
	var err error
	if o.start != "" {
		if start, err = parseTime(o.start, now); err != nil {
			return props, fmt.Errorf("parse --start: %w", err)
		}
	}
	if o.end != "" {
		if end, err = parseTime(o.end, now); err != nil {
			return props, fmt.Errorf("parse --end: %w", err)
		}
	}

	switch {
	case o.props != "":
		if props, err = readProps(cmd, o.props); err != nil {
			return props, err
		}
	case o.series != "":
		client, err := openStore(cmd, tracker)
		if err != nil {
			return props, err
		}
		defer func() { _ = client.Close() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
		defer cancel()
		snap, err := client.Load(devtools.WithOrigin(ctx, "render"), o.series, start, end)
		if err != nil {
			return props, fmt.Errorf("load series %q: %w", o.series, err)
		}
		props.Data = snap.Samples
		props.InitialCount = &snap.InitialCount
		props.Capacity = snap.Capacity
		props.TimeZone = snap.TimeZone
	default:
		return props, errNoSource
	}

	if !start.IsZero() {
		props.Start = &start
	}
	if !end.IsZero() {
		props.End = &end
	}
	if flags.Changed("width") {
		props.Width = o.width
	}
	if flags.Changed("height") {
		props.Height = o.height
	}
	if flags.Changed("capacity") {
		props.Capacity = &o.capacity
	}
	if flags.Changed("initial-count") {
		props.InitialCount = &o.initialCount
	}
	if o.tz != "" {
		props.TimeZone = o.tz
	}
	if o.resolution != "" {
		props.XAxisResolution = o.resolution
	}
	if flags.Changed("person-icon") {
		props.RenderPersonIcon = &o.personIcon
	}
	return props, nil
}

func readProps(cmd *cobra.Command, path string) (historical.Props, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return historical.Props{}, fmt.Errorf("open props: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return historical.DecodeProps(r)
}

// parseTime accepts an RFC 3339 time, "now" or a signed offset from now.
func parseTime(value string, now time.Time) (time.Time, error) {
	if value == "now" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither an RFC 3339 time nor an offset", value)
	}
	return now.Add(d), nil
}

func writeSVG(cmd *cobra.Command, path string, g *scene.Graph) error {
	if path == "" || path == "-" {
		return g.WriteSVG(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := g.WriteSVG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type stateDump struct {
	State   *historical.RenderState `json:"state"`
	Overlay *overlay.State          `json:"overlay,omitempty"`
}

func dumpState(w io.Writer, rs *historical.RenderState, ov *overlay.State) error {
	out, err := json.MarshalIndent(stateDump{State: rs, Overlay: ov}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode render state: %w", err)
	}
	if err := quick.Highlight(w, string(out)+"\n", "json", "terminal256", "monokai"); err != nil {
		return fmt.Errorf("highlight render state: %w", err)
	}
	return nil
}
