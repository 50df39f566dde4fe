package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	buildgraph "github.com/buildgraph/go-buildgraph"
)

var checkCmd = &cobra.Command{
	Use:   "check <package-path>...",
	Short: "Validate BUILD packages",
	Long: `Check parses the BUILD file of each named package (workspace-relative
path) and reports static validation findings: malformed target names and
labels, duplicate targets, invalid enum values, and sharding mistakes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws := buildgraph.NewWorkspace(workspaceDir)
		failed := false
		for _, pkgPath := range args {
			pkgPath = filepath.ToSlash(filepath.Clean(pkgPath))
			if pkgPath == "." {
				pkgPath = ""
			}

			pkg, err := ws.Package(pkgPath)
			if err != nil {
				return err
			}

			report := buildgraph.Validate(pkg)
			fmt.Fprintln(cmd.OutOrStdout(), report)
			if !report.OK() {
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}
