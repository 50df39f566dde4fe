package shard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// RunFunc executes the cases of one shard. index is the zero-based
// shard number. The context carries the shard's deadline; the function
// should return the first error encountered.
type RunFunc func(ctx context.Context, index int, cases []string) error

// Result is the outcome of one shard's run.
type Result struct {
	// Index is the zero-based shard number.
	Index int `json:"index"`

	// Cases are the test cases assigned to the shard.
	Cases []string `json:"cases,omitempty"`

	// Duration is the shard's wall-clock run time.
	Duration time.Duration `json:"duration"`

	// Err is the shard's failure, or nil on success. Shards fail
	// independently: a failure here says nothing about sibling shards.
	Err error `json:"-"`
}

// Runner executes a sharded test suite. Each shard runs in its own
// goroutine with its own derived context: a failing or timed-out shard
// never cancels its siblings, and every shard reports a Result.
type Runner struct {
	// Count is the number of shards. Must be >= 1.
	Count int

	// Timeout bounds each shard's run independently. Zero means no
	// per-shard timeout.
	Timeout time.Duration

	// Logger receives per-shard progress output. Nil uses the package
	// default logger.
	Logger *log.Logger
}

// Run partitions cases across the runner's shards and executes fn once
// per shard, concurrently. Results are returned for all shards, sorted
// by shard index, regardless of individual failures. Canceling ctx
// cancels every shard; one shard's failure does not.
func (r *Runner) Run(ctx context.Context, cases []string, fn RunFunc) ([]Result, error) {
	shards, err := Plan(r.Count, cases)
	if err != nil {
		return nil, err
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	results := make([]Result, len(shards))
	var wg sync.WaitGroup

	wg.Add(len(shards))
	for i, shardCases := range shards {
		go func(index int, shardCases []string) {
			defer wg.Done()

			shardCtx := ctx
			cancel := context.CancelFunc(func() {})
			if r.Timeout > 0 {
				shardCtx, cancel = context.WithTimeout(ctx, r.Timeout)
			}
			defer cancel()

			logger.Debug("shard started", "shard", index, "cases", len(shardCases))
			start := time.Now()
			err := fn(shardCtx, index, shardCases)
			elapsed := time.Since(start)

			if err != nil {
				logger.Error("shard failed", "shard", index, "duration", elapsed, "err", err)
			} else {
				logger.Debug("shard passed", "shard", index, "duration", elapsed)
			}
			results[index] = Result{
				Index:    index,
				Cases:    shardCases,
				Duration: elapsed,
				Err:      err,
			}
		}(i, shardCases)
	}
	wg.Wait()

	return results, nil
}

// Failed returns the subset of results that carry an error, preserving
// shard order.
func Failed(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Summarize renders a one-line status per shard.
func Summarize(results []Result) string {
	out := ""
	for _, res := range results {
		status := "PASSED"
		if res.Err != nil {
			status = fmt.Sprintf("FAILED: %v", res.Err)
		}
		out += fmt.Sprintf("shard %d (%d cases, %s): %s\n", res.Index, len(res.Cases), res.Duration.Round(time.Millisecond), status)
	}
	return out
}
