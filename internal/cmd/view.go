package cmd

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/kpumuk/lazycharts/internal/chart/axis"
	"github.com/kpumuk/lazycharts/internal/chart/historical"
	"github.com/kpumuk/lazycharts/internal/devtools"
	"github.com/kpumuk/lazycharts/internal/ui"
)

type viewOptions struct {
	series     string
	window     time.Duration
	refresh    time.Duration
	tz         string
	resolution string
	personIcon bool
}

func newViewCmd(version string) *cobra.Command {
	var o viewOptions
	c := &cobra.Command{
		Use:   "view",
		Short: "Watch a series in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := o.uiOptions(cmd)
			if err != nil {
				return err
			}
			opts.Brand = "lazycharts " + firstLine(version)
			return runView(cmd, opts)
		},
	}

	f := c.Flags()
	f.StringVar(&o.series, "series", "", "Redis series to chart")
	f.DurationVar(&o.window, "window", time.Hour, "how far back to chart, 0 for the whole series")
	f.DurationVar(&o.refresh, "refresh", 5*time.Second, "refresh interval")
	f.StringVar(&o.tz, "tz", "", "IANA time zone for labels, overrides the series zone")
	f.StringVar(&o.resolution, "resolution", "", "time axis resolution: hour, day or week")
	f.BoolVar(&o.personIcon, "person-icon", true, "prefix the overlay count with a person icon")
	_ = c.MarkFlagRequired("series")

	return c
}

func (o viewOptions) uiOptions(cmd *cobra.Command) (ui.Options, error) {
	opts := ui.Options{
		Series:  o.series,
		Window:  o.window,
		Refresh: o.refresh,
		Config:  historical.DefaultConfig(),
		Tracker: devtools.NewTracker(),
	}
	if o.resolution != "" {
		if _, err := axis.ParseResolution(o.resolution); err != nil {
			return opts, err
		}
		opts.Props.XAxisResolution = o.resolution
	}
	opts.Props.TimeZone = o.tz
	if cmd.Flags().Changed("person-icon") {
		opts.Props.RenderPersonIcon = &o.personIcon
	}
	return opts, nil
}

func runView(cmd *cobra.Command, opts ui.Options) error {
	stop, err := startProfile(cmd)
	if err != nil {
		return err
	}
	defer stop()

	client, err := openStore(cmd, opts.Tracker)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	p := tea.NewProgram(ui.New(client, opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	for i := range len(s) {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
