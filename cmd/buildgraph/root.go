package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"

	// workspaceDir is the workspace root BUILD packages are loaded from.
	workspaceDir string

	// verbose enables debug logging on stderr.
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "buildgraph",
		Short: "Inspect BUILD package manifests and their dependency graphs",
		Long: `buildgraph parses Bazel-style BUILD files and resolves target
dependency graphs.

It validates package declarations (target names, visibility patterns,
test sizing and sharding), resolves a target's transitive dependency
closure across the workspace, computes deterministic build orders, and
plans test-shard partitions.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(shardsCmd)
}

// newLogger builds the CLI logger; resolution debug output is only
// emitted with --verbose.
func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "buildgraph",
		Level:  log.DebugLevel,
	})
	return slog.New(handler)
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
