// Package shard partitions test cases across parallel execution shards
// and runs the shards as independent workers.
//
// Partitioning is deterministic: case i always lands on shard i mod n,
// so the union of all shards is exactly the input, shards are pairwise
// disjoint, and re-planning the same input yields the same partition.
package shard

import (
	"fmt"
)

// Plan partitions cases across count shards by round-robin index
// assignment. Every shard slice is returned, including empty ones when
// count exceeds the number of cases.
func Plan(count int, cases []string) ([][]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("shard count must be >= 1, got %d", count)
	}

	shards := make([][]string, count)
	for i, c := range cases {
		idx := i % count
		shards[idx] = append(shards[idx], c)
	}
	return shards, nil
}

// ForShard returns the cases assigned to one shard of a plan. index is
// zero-based and must be less than total.
func ForShard(index, total int, cases []string) ([]string, error) {
	if total < 1 {
		return nil, fmt.Errorf("shard count must be >= 1, got %d", total)
	}
	if index < 0 || index >= total {
		return nil, fmt.Errorf("shard index %d out of range [0, %d)", index, total)
	}

	var out []string
	for i, c := range cases {
		if i%total == index {
			out = append(out, c)
		}
	}
	return out, nil
}
