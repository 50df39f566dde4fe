// Package label provides strongly-typed, validated Bazel labels and
// visibility patterns for BUILD package manifests.
//
// All types in this package are immutable value types that validate at
// construction time. Zero values are generally invalid - use the Parse
// functions to create valid instances.
//
// # Types
//
// The main types are:
//   - [Label]: A target reference (e.g., "//neutra:neutra_kernel" or
//     "@tensorflow//tensorflow:tensorflow_py")
//   - [Pattern]: A single visibility entry (e.g.,
//     "//tensorflow_probability:__subpackages__")
//   - [Spec]: An ordered visibility list checked with [Spec.Allows]
//
// # Validation Patterns
//
// Repository names must match: [a-zA-Z][a-zA-Z0-9._-]*
// Package paths are slash-separated segments of: [a-zA-Z0-9._-]+
// Target names are slash-separated segments of: [a-zA-Z0-9._+=,@~-]+
// (file-path-shaped names like "testdata/input.txt" are valid)
package label

import (
	"fmt"
	"regexp"
	"strings"
)

// Label identifies a target within a workspace.
// Canonical form: @repo//pkg:name. Repo is empty for the main repository.
type Label struct {
	// Repo is the external repository name without the leading "@".
	// Empty for targets in the main repository.
	Repo string `json:"repo,omitempty"`

	// Pkg is the package path relative to the repository root,
	// e.g. "tensorflow_probability/python/experimental/mcmc".
	Pkg string `json:"pkg"`

	// Name is the target name within the package.
	Name string `json:"name"`
}

var (
	repoNameRegex   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._-]*$`)
	pkgSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	// Target names may be file-path shaped, e.g. "testdata/input.txt".
	targetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._+=,@~-]+(/[a-zA-Z0-9._+=,@~-]+)*$`)
)

// Parse parses an absolute label string.
//
// Accepted forms:
//
//	//pkg:name
//	//pkg            (shorthand for //pkg:last_segment)
//	@repo//pkg:name
//	@repo//pkg
//
// Relative forms (":name", "name") require a package context; use
// [ParseRelative] for those.
func Parse(s string) (Label, error) {
	if s == "" {
		return Label{}, fmt.Errorf("label cannot be empty")
	}

	var l Label
	rest := s

	if strings.HasPrefix(rest, "@") {
		slash := strings.Index(rest, "//")
		if slash < 0 {
			return Label{}, fmt.Errorf("invalid label %q: external repo reference must contain //", s)
		}
		l.Repo = rest[1:slash]
		if !repoNameRegex.MatchString(l.Repo) {
			return Label{}, fmt.Errorf("invalid label %q: bad repository name %q", s, l.Repo)
		}
		rest = rest[slash:]
	}

	if !strings.HasPrefix(rest, "//") {
		return Label{}, fmt.Errorf("invalid label %q: absolute labels must start with // or @", s)
	}
	rest = rest[2:]

	if colon := strings.IndexByte(rest, ':'); colon >= 0 {
		l.Pkg = rest[:colon]
		l.Name = rest[colon+1:]
	} else {
		// //pkg shorthand: target name defaults to the last package segment.
		l.Pkg = rest
		if i := strings.LastIndexByte(rest, '/'); i >= 0 {
			l.Name = rest[i+1:]
		} else {
			l.Name = rest
		}
	}

	if err := validatePkg(l.Pkg); err != nil {
		return Label{}, fmt.Errorf("invalid label %q: %w", s, err)
	}
	if l.Name == "" || !targetNameRegex.MatchString(l.Name) {
		return Label{}, fmt.Errorf("invalid label %q: bad target name %q", s, l.Name)
	}
	return l, nil
}

// ParseRelative parses a label string that may be relative to the given
// package path. ":name" and bare "name" resolve to a target in pkg;
// absolute forms are handled as in [Parse].
func ParseRelative(s, pkg string) (Label, error) {
	if s == "" {
		return Label{}, fmt.Errorf("label cannot be empty")
	}
	if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "@") {
		return Parse(s)
	}

	name := strings.TrimPrefix(s, ":")
	if name == "" || !targetNameRegex.MatchString(name) {
		return Label{}, fmt.Errorf("invalid label %q: bad target name %q", s, name)
	}
	if err := validatePkg(pkg); err != nil {
		return Label{}, fmt.Errorf("invalid package context %q: %w", pkg, err)
	}
	return Label{Pkg: pkg, Name: name}, nil
}

// Must parses an absolute label or panics. Use only for constants/tests.
func Must(s string) Label {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// validatePkg checks a package path. The empty path (repository root
// package) is valid.
func validatePkg(pkg string) error {
	if pkg == "" {
		return nil
	}
	for _, seg := range strings.Split(pkg, "/") {
		if !pkgSegmentRegex.MatchString(seg) {
			return fmt.Errorf("bad package path segment %q", seg)
		}
	}
	return nil
}

// String returns the canonical label form: @repo//pkg:name.
// The repository prefix is omitted for the main repository.
func (l Label) String() string {
	var sb strings.Builder
	if l.Repo != "" {
		sb.WriteByte('@')
		sb.WriteString(l.Repo)
	}
	sb.WriteString("//")
	sb.WriteString(l.Pkg)
	sb.WriteByte(':')
	sb.WriteString(l.Name)
	return sb.String()
}

// IsExternal returns true if the label points into an external repository.
func (l Label) IsExternal() bool {
	return l.Repo != ""
}

// IsEmpty returns true if this is a zero-value Label.
func (l Label) IsEmpty() bool {
	return l.Pkg == "" && l.Name == "" && l.Repo == ""
}
