package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kpumuk/lazycharts/internal/chart/series"
	"github.com/kpumuk/lazycharts/internal/devtools"
	"github.com/kpumuk/lazycharts/internal/format"
	"github.com/kpumuk/lazycharts/internal/timefmt"
)

var errNothingToPush = errors.New("nothing to push: pass --count, --capacity or --tz")

type pushOptions struct {
	series   string
	count    float64
	at       string
	flag     bool
	capacity float64
	tz       string
}

func newPushCmd() *cobra.Command {
	var o pushOptions
	c := &cobra.Command{
		Use:     "push",
		Short:   "Append a sample to a Redis series",
		Example: "  lazycharts push --series web --count 12\n  lazycharts push --series web --capacity 20 --tz Europe/Kyiv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPush(cmd, &o)
		},
	}

	f := c.Flags()
	f.StringVar(&o.series, "series", "", "Redis series to write to")
	f.Float64Var(&o.count, "count", 0, "sample count")
	f.StringVar(&o.at, "at", "now", "sample time: RFC 3339 time or offset from now")
	f.BoolVar(&o.flag, "flag", false, "flag the sample")
	f.Float64Var(&o.capacity, "capacity", 0, "set the series capacity")
	f.StringVar(&o.tz, "tz", "", "set the series time zone")
	_ = c.MarkFlagRequired("series")

	return c
}

func runPush(cmd *cobra.Command, o *pushOptions) error {
	flags := cmd.Flags()
	if !flags.Changed("count") && !flags.Changed("capacity") && o.tz == "" {
		return errNothingToPush
	}

	client, err := openStore(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
	defer cancel()
	ctx = devtools.WithOrigin(ctx, "push")
	out := cmd.OutOrStdout()

	if flags.Changed("capacity") {
		if err := client.SetCapacity(ctx, o.series, o.capacity); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s capacity %s\n", o.series, format.Count(o.capacity))
	}
	if o.tz != "" {
		if _, err := timefmt.LoadZone(o.tz); err != nil {
			return err
		}
		if err := client.SetTimeZone(ctx, o.series, o.tz); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s time zone %s\n", o.series, o.tz)
	}
	if !flags.Changed("count") {
		return nil
	}

	at, err := parseTime(o.at, time.Now())
	if err != nil {
		return fmt.Errorf("parse --at: %w", err)
	}
	sample := series.Sample{Timestamp: at, Count: o.count, Flag: o.flag}
	if err := client.Append(ctx, o.series, sample); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s %s %s\n", o.series, at.UTC().Format(time.RFC3339), format.Count(o.count))
	return nil
}
