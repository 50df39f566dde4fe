package buildgraph

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bazelbuild/buildtools/build"

	"github.com/buildgraph/go-buildgraph/internal/buildutil"
)

// ParseBuildFile reads and parses a BUILD file from disk. The package
// path is derived from the file's directory relative to root; pass an
// empty root to use the directory path as-is.
func ParseBuildFile(root, path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read BUILD file: %w", err)
	}

	pkgPath := filepath.ToSlash(filepath.Dir(path))
	if root != "" {
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("package path for %s: %w", path, err)
		}
		pkgPath = filepath.ToSlash(rel)
	}
	if pkgPath == "." {
		pkgPath = ""
	}

	return ParseBuildContent(pkgPath, string(data))
}

// ParseBuildContent parses the content of a BUILD file belonging to the
// package at pkgPath.
func ParseBuildContent(pkgPath, content string) (*Package, error) {
	f, err := build.ParseBuild("BUILD", []byte(content))
	if err != nil {
		return nil, fmt.Errorf("parse BUILD file for //%s: %w", pkgPath, err)
	}
	return extractPackage(pkgPath, f), nil
}

// extractPackage builds the package model from a parsed BUILD file.
func extractPackage(pkgPath string, f *build.File) *Package {
	pkg := &Package{Path: pkgPath}

	for _, stmt := range f.Stmt {
		call, ok := stmt.(*build.CallExpr)
		if !ok {
			continue
		}

		switch buildutil.FuncName(call) {
		case "package":
			pkg.DefaultVisibility = buildutil.StringList(call, "default_visibility")
			// Some repositories declare licenses inside package().
			if lic := buildutil.StringList(call, "licenses"); lic != nil {
				pkg.Licenses = lic
			}

		case "licenses":
			pkg.Licenses = buildutil.PositionalStringList(call)

		case "exports_files":
			pkg.ExportedFiles = append(pkg.ExportedFiles, buildutil.PositionalStringList(call)...)

		case "load":
			// Starlark load() carries no target declarations.

		case "":
			// Method calls and other non-rule statements.

		default:
			if t := extractTarget(call); t != nil {
				pkg.Targets = append(pkg.Targets, t)
			}
		}
	}

	return pkg
}

// extractTarget converts a rule call into a Target. Calls without a
// name attribute are not targets and yield nil.
func extractTarget(call *build.CallExpr) *Target {
	name := buildutil.String(call, "name")
	if name == "" {
		return nil
	}

	kind := RuleKind(buildutil.FuncName(call))
	t := &Target{
		Name:       name,
		Kind:       kind,
		Srcs:       buildutil.StringList(call, "srcs"),
		Deps:       buildutil.StringList(call, "deps"),
		Visibility: buildutil.StringList(call, "visibility"),
		Tags:       buildutil.StringList(call, "tags"),
		TestOnly:   buildutil.Bool(call, "testonly"),
	}

	switch kind {
	case RulePyLibrary, RulePyBinary, RulePyTest:
		t.SrcsVersion = SrcsVersion(buildutil.String(call, "srcs_version"))
		t.PythonVersion = PythonVersion(buildutil.String(call, "python_version"))
		t.Size = TestSize(buildutil.String(call, "size"))
		t.ShardCount = buildutil.Int(call, "shard_count")
	default:
		// Unrecognized rule: keep every attribute for forward
		// compatibility, the typed fields above still cover the
		// common ones.
		t.Attrs = buildutil.Attrs(call)
	}

	return t
}
