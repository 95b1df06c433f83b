// Package cmd provides the entrypoint and CLI command configuration for the
// lazycharts application.
package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kpumuk/lazycharts/internal/devtools"
	"github.com/kpumuk/lazycharts/internal/store"
)

const defaultRedisURL = "redis://localhost:6379/0"

func buildVersion(version, commit, date, builtBy string) string {
	result := version
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	if builtBy != "" {
		result = fmt.Sprintf("%s\nbuilt by: %s", result, builtBy)
	}
	result = fmt.Sprintf("%s\ngoos: %s\ngoarch: %s", result, runtime.GOOS, runtime.GOARCH)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		result = fmt.Sprintf("%s\nmodule version: %s, checksum: %s", result, info.Main.Version, info.Main.Sum)
	}

	return result
}

// normalizeFlags maps flag aliases onto their canonical names.
func normalizeFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "timezone", "time-zone":
		name = "tz"
	case "output":
		name = "out"
	}
	return pflag.NormalizedName(name)
}

// newRootCmd builds the command tree without executing it.
func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lazycharts",
		Short: "Historical count charts from Redis, as SVG or in the terminal.",
		Long: "Historical count charts from Redis, as SVG or in the terminal.\n\n" +
			"Samples live in Redis sorted sets. Push them with `lazycharts push`, render\n" +
			"an SVG chart with `lazycharts render` or watch them live with `lazycharts view`.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`lazycharts {{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().String(
		"redis",
		defaultRedisURL,
		"redis URL",
	)
	rootCmd.PersistentFlags().String(
		"cpuprofile",
		"",
		"write cpu profile to file",
	)

	rootCmd.AddCommand(
		newRenderCmd(),
		newViewCmd(version),
		newPushCmd(),
		newListCmd(),
		newTrimCmd(),
	)

	rootCmd.SetGlobalNormalizationFunc(normalizeFlags)

	return rootCmd
}

// Execute initializes and runs the lazycharts application.
func Execute(version, commit, date, builtBy string) error {
	rootCmd := newRootCmd(buildVersion(version, commit, date, builtBy))

	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(rootCmd.Version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}

// openStore connects to the Redis URL given by the --redis flag. A non-nil
// tracker records every command the client sends.
func openStore(cmd *cobra.Command, tracker *devtools.Tracker) (*store.Client, error) {
	redisURL, err := cmd.Flags().GetString("redis")
	if err != nil {
		return nil, fmt.Errorf("parse redis flag: %w", err)
	}
	client, err := store.NewClient(redisURL)
	if err != nil {
		return nil, fmt.Errorf("create redis client: %w", err)
	}
	if tracker != nil {
		client.AddHook(tracker.Hook())
	}
	return client, nil
}

// startProfile starts CPU profiling when --cpuprofile is set. The returned
// function stops it.
func startProfile(cmd *cobra.Command) (func(), error) {
	cpuprofile, err := cmd.Flags().GetString("cpuprofile")
	if err != nil {
		return nil, fmt.Errorf("parse cpuprofile flag: %w", err)
	}
	if cpuprofile == "" {
		return func() {}, nil
	}

	profileFile, err := os.Create(cpuprofile)
	if err != nil {
		return nil, fmt.Errorf("create cpuprofile file: %w", err)
	}
	if err := pprof.StartCPUProfile(profileFile); err != nil {
		_ = profileFile.Close()
		return nil, fmt.Errorf("start cpu profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = profileFile.Close()
	}, nil
}
