package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kpumuk/lazycharts/internal/devtools"
	"github.com/kpumuk/lazycharts/internal/format"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the series stored in Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := openStore(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
			defer cancel()
			ctx = devtools.WithOrigin(ctx, "list")

			names, err := client.Series(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				capacity, err := client.Capacity(ctx, name)
				if err != nil {
					return err
				}
				zone, err := client.TimeZone(ctx, name)
				if err != nil {
					return err
				}
				line := name
				if capacity != nil {
					line += " capacity=" + format.Count(*capacity)
				}
				if zone != "" {
					line += " tz=" + zone
				}
				_, _ = fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newTrimCmd() *cobra.Command {
	var (
		name   string
		before string
	)
	c := &cobra.Command{
		Use:   "trim",
		Short: "Remove old samples from a series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cutoff, err := parseTime(before, time.Now())
			if err != nil {
				return fmt.Errorf("parse --before: %w", err)
			}

			client, err := openStore(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
			defer cancel()
			removed, err := client.Trim(devtools.WithOrigin(ctx, "trim"), name, cutoff)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s samples from %s\n", format.Number(removed), name)
			return nil
		},
	}
	c.Flags().StringVar(&name, "series", "", "Redis series to trim")
	c.Flags().StringVar(&before, "before", "-168h", "drop samples older than this RFC 3339 time or offset from now")
	_ = c.MarkFlagRequired("series")
	return c
}
