package buildgraph

import (
	"fmt"
	"regexp"

	"github.com/buildgraph/go-buildgraph/label"
)

// Bazel allows shard counts between 1 and 50.
const maxShardCount = 50

// Target names may be file-path shaped, e.g. "testdata/input.txt".
var targetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._+=,@~-]+(/[a-zA-Z0-9._+=,@~-]+)*$`)

// Validate performs static checks on a parsed package: target naming,
// duplicate names, enum validity, and sharding constraints. It returns
// a Report; graph-level checks (dependency resolution, visibility,
// cycles) are the Resolver's job.
func Validate(pkg *Package) *Report {
	r := &Report{Package: pkg.Path}
	add := func(target, format string, args ...any) {
		r.Findings = append(r.Findings, Finding{
			Package: pkg.Path,
			Target:  target,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if _, err := label.ParseSpec(pkg.DefaultVisibility); err != nil {
		add("", "invalid default_visibility: %v", err)
	}

	seen := make(map[string]bool, len(pkg.Targets))
	for _, t := range pkg.Targets {
		if !targetNameRegex.MatchString(t.Name) {
			add(t.Name, "invalid target name")
		}
		if seen[t.Name] {
			add(t.Name, "duplicate target name")
		}
		seen[t.Name] = true

		if _, err := label.ParseSpec(t.Visibility); err != nil {
			add(t.Name, "invalid visibility: %v", err)
		}
		for _, dep := range t.Deps {
			if _, err := label.ParseRelative(dep, pkg.Path); err != nil {
				add(t.Name, "invalid dependency label %q: %v", dep, err)
			}
		}

		if !t.SrcsVersion.IsValid() {
			add(t.Name, "invalid srcs_version %q", t.SrcsVersion)
		}
		if !t.PythonVersion.IsValid() {
			add(t.Name, "invalid python_version %q", t.PythonVersion)
		}
		if t.PythonVersion != PyDefault && !t.Kind.IsExecutable() {
			add(t.Name, "python_version is only allowed on executable rules, not %s", t.Kind)
		}

		if t.Kind.IsTest() {
			validateTest(t, add)
		} else {
			if t.Size != "" {
				add(t.Name, "size is only allowed on test rules")
			}
			if t.ShardCount != 0 {
				add(t.Name, "shard_count is only allowed on test rules")
			}
		}
	}

	return r
}

func validateTest(t *Target, add func(target, format string, args ...any)) {
	if t.Size != "" && !t.Size.IsValid() {
		add(t.Name, "invalid test size %q (want small, medium, large, or enormous)", t.Size)
	}
	if t.ShardCount < 0 || t.ShardCount > maxShardCount {
		add(t.Name, "shard_count %d out of range: must be 0 (unsharded) or 1..%d", t.ShardCount, maxShardCount)
	}
	if len(t.Srcs) == 0 {
		add(t.Name, "test target declares no srcs")
	}
}
