// Package buildgraph provides a Go library for parsing, validating, and
// resolving Bazel-style BUILD package manifests.
//
// A BUILD manifest declares named targets (libraries, binaries, tests)
// with source files, dependency labels, visibility, runtime-version
// gating, and test metadata such as size and shard_count. This package
// models those declarations and resolves their dependency graphs.
//
// # Overview
//
// The package provides three main components:
//
//   - Parser: Parses BUILD files into Package/Target models
//   - Workspace: Loads and caches packages from a directory tree
//   - Resolver: Resolves a target's transitive dependency closure and
//     computes a deterministic build order
//
// Graph queries and rendering live in the graph subpackage, label and
// visibility handling in label, and test-shard planning/execution in
// shard.
//
// # Quick Start
//
// Validate a single BUILD file:
//
//	report, err := buildgraph.Check("neutra", buildContent)
//
// Resolve a target across a workspace and get its build order:
//
//	res, err := buildgraph.Resolve(ctx, "/path/to/workspace",
//	    "//neutra:neutra_test", buildgraph.ResolveOptions{})
//	for _, l := range res.BuildOrder {
//	    fmt.Println(l)
//	}
//
// # Error Handling
//
// Graph errors identify the offending edge: see
// [UnresolvedDependencyError], [VisibilityError],
// [VersionMismatchError], and [DependencyCycleError]. All are fatal to
// the resolution request; none are recoverable locally.
//
// # Thread Safety
//
// Workspace and Resolver are safe for concurrent use. Package and
// Target models are read-only after parsing.
package buildgraph

import (
	"context"
	"fmt"

	"github.com/buildgraph/go-buildgraph/label"
)

// Check parses BUILD content for the package at pkgPath and runs static
// validation on the result.
func Check(pkgPath, content string) (*Report, error) {
	pkg, err := ParseBuildContent(pkgPath, content)
	if err != nil {
		return nil, err
	}
	return Validate(pkg), nil
}

// CheckFile parses the BUILD file at path (with package paths relative
// to root) and runs static validation on the result.
func CheckFile(root, path string) (*Report, error) {
	pkg, err := ParseBuildFile(root, path)
	if err != nil {
		return nil, err
	}
	return Validate(pkg), nil
}

// Resolve loads the workspace rooted at dir and resolves the dependency
// closure of the named target.
func Resolve(ctx context.Context, dir, target string, opts ResolveOptions) (*Resolution, error) {
	root, err := label.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse target label: %w", err)
	}
	resolver := NewResolver(NewWorkspace(dir), opts)
	return resolver.Resolve(ctx, root)
}

// BuildOrder resolves the named target in the workspace rooted at dir
// and returns the deterministic build order of its closure.
func BuildOrder(ctx context.Context, dir, target string) ([]label.Label, error) {
	res, err := Resolve(ctx, dir, target, ResolveOptions{})
	if err != nil {
		return nil, err
	}
	return res.BuildOrder, nil
}
