package main

import (
	"fmt"

	"github.com/spf13/cobra"

	buildgraph "github.com/buildgraph/go-buildgraph"
)

var graphFormat string

var graphCmd = &cobra.Command{
	Use:   "graph <target-label>",
	Short: "Render a target's dependency graph",
	Long: `Graph resolves the named target's dependency closure and renders it in
the requested format: a human-readable tree (text), Graphviz DOT (dot),
or machine-readable JSON (json).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := buildgraph.Resolve(cmd.Context(), workspaceDir, args[0],
			buildgraph.ResolveOptions{Logger: newLogger()})
		if err != nil {
			return err
		}

		switch graphFormat {
		case "text":
			fmt.Fprint(cmd.OutOrStdout(), res.Graph.ToText())
		case "dot":
			fmt.Fprint(cmd.OutOrStdout(), res.Graph.ToDOT())
		case "json":
			data, err := res.Graph.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		default:
			return fmt.Errorf("unknown format %q (want text, dot, or json)", graphFormat)
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "text", "output format: text, dot, or json")
}
