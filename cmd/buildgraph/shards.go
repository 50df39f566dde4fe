package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	buildgraph "github.com/buildgraph/go-buildgraph"
	"github.com/buildgraph/go-buildgraph/shard"
)

var shardIndex int

var shardsCmd = &cobra.Command{
	Use:   "shards <target-label> [case...]",
	Short: "Show the shard partition of a test target",
	Long: `Shards resolves the named py_test target and partitions test cases
across its declared shard_count. Case names are taken from the
positional arguments; without any, the target's srcs stand in.

With --index, only the cases of that one shard are printed, one per
line, mirroring what a single shard executes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := buildgraph.Resolve(cmd.Context(), workspaceDir, args[0],
			buildgraph.ResolveOptions{Logger: newLogger()})
		if err != nil {
			return err
		}

		target := res.Targets[res.Root]
		if target == nil || !target.Kind.IsTest() {
			return fmt.Errorf("target %s is not a test rule", res.Root)
		}

		count := target.ShardCount
		if count == 0 {
			count = 1
		}
		cases := args[1:]
		if len(cases) == 0 {
			cases = target.Srcs
		}

		if cmd.Flags().Changed("index") {
			picked, err := shard.ForShard(shardIndex, count, cases)
			if err != nil {
				return err
			}
			for _, c := range picked {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		}

		plan, err := shard.Plan(count, cases)
		if err != nil {
			return err
		}
		for i, shardCases := range plan {
			fmt.Fprintf(cmd.OutOrStdout(), "shard %d/%d: %s\n", i+1, count, strings.Join(shardCases, ", "))
		}
		return nil
	},
}

func init() {
	shardsCmd.Flags().IntVar(&shardIndex, "index", 0, "print only the cases of this shard (0-based)")
}
