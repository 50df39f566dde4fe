package main

import (
	"fmt"

	"github.com/spf13/cobra"

	buildgraph "github.com/buildgraph/go-buildgraph"
)

var orderCmd = &cobra.Command{
	Use:   "order <target-label>",
	Short: "Print the build order of a target's dependency closure",
	Long: `Order resolves the named target's transitive dependencies and prints a
deterministic topological build order, one label per line: every target
appears after all of its dependencies.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := buildgraph.Resolve(cmd.Context(), workspaceDir, args[0],
			buildgraph.ResolveOptions{Logger: newLogger()})
		if err != nil {
			return err
		}
		for _, l := range res.BuildOrder {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}
