package buildgraph

import (
	"fmt"
	"strings"
	"time"

	"github.com/buildgraph/go-buildgraph/label"
)

// RuleKind identifies the rule that declared a target.
type RuleKind string

const (
	// RulePyLibrary is a Python library target.
	RulePyLibrary RuleKind = "py_library"

	// RulePyBinary is an executable Python target.
	RulePyBinary RuleKind = "py_binary"

	// RulePyTest is a Python test target.
	RulePyTest RuleKind = "py_test"

	// RuleExternal marks a boundary node for a target living in a
	// declared external repository. Such targets are not loaded; they
	// terminate graph traversal.
	RuleExternal RuleKind = "external"
)

// IsTest returns true for test rule kinds.
func (k RuleKind) IsTest() bool { return k == RulePyTest }

// IsExecutable returns true for rule kinds that select a runtime via
// python_version.
func (k RuleKind) IsExecutable() bool { return k == RulePyTest || k == RulePyBinary }

// TestSize is the declared resource cost of a test target.
type TestSize string

const (
	SizeSmall    TestSize = "small"
	SizeMedium   TestSize = "medium"
	SizeLarge    TestSize = "large"
	SizeEnormous TestSize = "enormous"
)

// IsValid reports whether the size is a recognized enum value.
func (s TestSize) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeEnormous:
		return true
	}
	return false
}

// Timeout returns the default test timeout associated with the size.
func (s TestSize) Timeout() time.Duration {
	switch s {
	case SizeSmall:
		return 1 * time.Minute
	case SizeLarge:
		return 15 * time.Minute
	case SizeEnormous:
		return 60 * time.Minute
	}
	return 5 * time.Minute
}

// PythonVersion is the runtime major version an executable target is
// built for.
type PythonVersion string

const (
	// PyDefault means no explicit python_version was declared.
	PyDefault PythonVersion = ""

	PY2 PythonVersion = "PY2"
	PY3 PythonVersion = "PY3"
)

// IsValid reports whether the version is a recognized enum value.
// The empty default is valid.
func (v PythonVersion) IsValid() bool {
	return v == PyDefault || v == PY2 || v == PY3
}

// SrcsVersion declares which runtime major versions a target's sources
// are compatible with.
type SrcsVersion string

const (
	// SrcsDefault means no explicit srcs_version; treated as PY2AND3.
	SrcsDefault SrcsVersion = ""

	SrcsPY2AND3 SrcsVersion = "PY2AND3"
	SrcsPY2     SrcsVersion = "PY2"
	SrcsPY2ONLY SrcsVersion = "PY2ONLY"
	SrcsPY3     SrcsVersion = "PY3"
	SrcsPY3ONLY SrcsVersion = "PY3ONLY"
)

// IsValid reports whether the srcs_version is a recognized enum value.
func (v SrcsVersion) IsValid() bool {
	switch v {
	case SrcsDefault, SrcsPY2AND3, SrcsPY2, SrcsPY2ONLY, SrcsPY3, SrcsPY3ONLY:
		return true
	}
	return false
}

// Supports reports whether sources with this srcs_version can run under
// the given runtime version.
func (v SrcsVersion) Supports(runtime PythonVersion) bool {
	switch v {
	case SrcsDefault, SrcsPY2AND3:
		return true
	case SrcsPY2, SrcsPY2ONLY:
		return runtime == PY2
	case SrcsPY3, SrcsPY3ONLY:
		return runtime == PY3
	}
	return false
}

// Target is a single rule declaration in a BUILD package.
type Target struct {
	// Name is the target name, unique within the owning package.
	Name string `json:"name"`

	// Kind is the declaring rule, e.g. py_library or py_test.
	Kind RuleKind `json:"kind"`

	// Srcs lists the source file paths, relative to the package.
	Srcs []string `json:"srcs,omitempty"`

	// Deps lists dependency labels as written in the BUILD file
	// (absolute or package-relative).
	Deps []string `json:"deps,omitempty"`

	// Visibility lists visibility patterns for this target. When empty,
	// the package's default visibility applies.
	Visibility []string `json:"visibility,omitempty"`

	// SrcsVersion declares runtime compatibility of the sources.
	SrcsVersion SrcsVersion `json:"srcs_version,omitempty"`

	// PythonVersion gates executable targets to one runtime major
	// version. Only meaningful for py_test and py_binary.
	PythonVersion PythonVersion `json:"python_version,omitempty"`

	// Size is the resource-cost class of a test target.
	Size TestSize `json:"size,omitempty"`

	// ShardCount distributes a test target's cases across parallel
	// execution partitions. Zero means unsharded.
	ShardCount int `json:"shard_count,omitempty"`

	// TestOnly restricts dependents to test targets.
	TestOnly bool `json:"testonly,omitempty"`

	// Tags carries free-form target tags.
	Tags []string `json:"tags,omitempty"`

	// Attrs holds attributes of rules the parser has no typed fields
	// for, keyed by attribute name. Nil for recognized rules.
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Label returns the absolute label of the target within pkg.
func (t *Target) Label(pkg string) label.Label {
	return label.Label{Pkg: pkg, Name: t.Name}
}

// Package is a parsed BUILD package: a visibility boundary containing
// targets plus package-level administrative metadata.
type Package struct {
	// Path is the package path relative to the workspace root.
	Path string `json:"path"`

	// DefaultVisibility applies to targets that declare no visibility
	// of their own. Empty means private to the package.
	DefaultVisibility []string `json:"default_visibility,omitempty"`

	// Licenses lists the package's declared license-type tags.
	Licenses []string `json:"licenses,omitempty"`

	// ExportedFiles lists filenames made visible to dependents beyond
	// normal target visibility.
	ExportedFiles []string `json:"exported_files,omitempty"`

	// Targets lists the declared targets in source order.
	Targets []*Target `json:"targets"`

	byName map[string]*Target
}

// Target returns the named target, or nil if the package does not
// declare it.
func (p *Package) Target(name string) *Target {
	if p.byName == nil {
		p.index()
	}
	return p.byName[name]
}

// ExportsFile reports whether the package exports the named file.
func (p *Package) ExportsFile(name string) bool {
	for _, f := range p.ExportedFiles {
		if f == name {
			return true
		}
	}
	return false
}

// index builds the name lookup map. Later duplicates do not shadow the
// first declaration; Validate reports them.
func (p *Package) index() {
	p.byName = make(map[string]*Target, len(p.Targets))
	for _, t := range p.Targets {
		if _, exists := p.byName[t.Name]; !exists {
			p.byName[t.Name] = t
		}
	}
}

// Finding is a single validation diagnostic for a package or target.
type Finding struct {
	// Package is the path of the package the finding applies to.
	Package string `json:"package"`

	// Target is the offending target name, or empty for package-level
	// findings.
	Target string `json:"target,omitempty"`

	// Message describes the problem.
	Message string `json:"message"`
}

func (f Finding) String() string {
	at := "//" + f.Package
	if f.Target != "" {
		at += ":" + f.Target
	}
	return at + ": " + f.Message
}

// Report aggregates validation findings for one package.
type Report struct {
	// Package is the validated package path.
	Package string `json:"package"`

	// Findings lists the diagnostics, in declaration order.
	Findings []Finding `json:"findings,omitempty"`
}

// OK returns true when the report carries no findings.
func (r *Report) OK() bool { return len(r.Findings) == 0 }

func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("//%s: ok", r.Package)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "//%s: %d finding(s)", r.Package, len(r.Findings))
	for _, f := range r.Findings {
		sb.WriteString("\n  ")
		sb.WriteString(f.String())
	}
	return sb.String()
}
