package buildgraph

import (
	"errors"
	"fmt"

	"github.com/buildgraph/go-buildgraph/label"
)

// Sentinel errors for common workspace failures.
var (
	// ErrPackageNotFound indicates the referenced package directory does
	// not exist in the workspace.
	ErrPackageNotFound = errors.New("package not found")

	// ErrNoBuildFile indicates the package directory exists but contains
	// no BUILD or BUILD.bazel file.
	ErrNoBuildFile = errors.New("no BUILD file")

	// ErrTargetNotFound indicates the referenced target is not declared
	// in its package.
	ErrTargetNotFound = errors.New("target not found")
)

// UnresolvedDependencyError is returned when a dependency reference does
// not resolve to a declared target or external package.
type UnresolvedDependencyError struct {
	// Consumer is the target declaring the dependency.
	Consumer label.Label

	// Dep is the dependency reference as written in the BUILD file.
	Dep string

	// Reason explains why resolution failed.
	Reason string

	// Err is the underlying cause, when one exists, e.g.
	// ErrTargetNotFound or a wrapped ErrPackageNotFound.
	Err error
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("unresolved dependency %q of %s: %s", e.Dep, e.Consumer, e.Reason)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *UnresolvedDependencyError) Unwrap() error {
	return e.Err
}

// VisibilityError is returned when a target depends on another target
// whose visibility does not include the consumer's package.
type VisibilityError struct {
	// Consumer is the target declaring the dependency.
	Consumer label.Label

	// Dep is the dependency target being protected.
	Dep label.Label

	// Visibility is the effective visibility list of the dependency.
	Visibility []string
}

func (e *VisibilityError) Error() string {
	if len(e.Visibility) == 0 {
		return fmt.Sprintf("target %s is not visible from %s: it declares no visibility and its package default is private", e.Dep, e.Consumer)
	}
	return fmt.Sprintf("target %s is not visible from %s: visibility is %v", e.Dep, e.Consumer, e.Visibility)
}

// VersionMismatchError is returned when a target gated to one runtime
// major version depends on sources restricted to an incompatible one.
type VersionMismatchError struct {
	// Consumer is the target declaring the dependency.
	Consumer label.Label

	// Runtime is the runtime version the consumer requires.
	Runtime PythonVersion

	// Dep is the incompatible dependency.
	Dep label.Label

	// DepSrcsVersion is the dependency's declared srcs_version.
	DepSrcsVersion SrcsVersion
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("target %s requires runtime %s but dependency %s declares srcs_version %s",
		e.Consumer, e.Runtime, e.Dep, e.DepSrcsVersion)
}

// TestOnlyError is returned when a non-test target depends on a target
// marked testonly.
type TestOnlyError struct {
	// Consumer is the non-test target declaring the dependency.
	Consumer label.Label

	// Dep is the testonly dependency.
	Dep label.Label
}

func (e *TestOnlyError) Error() string {
	return fmt.Sprintf("non-test target %s cannot depend on testonly target %s", e.Consumer, e.Dep)
}

// DependencyCycleError is returned when the target graph contains a
// cycle. Unlike module-level resolution, BUILD target graphs must be
// strictly acyclic.
type DependencyCycleError struct {
	// Cycle is the dependency path forming the cycle. The first and
	// last entries are the same target.
	Cycle []label.Label
}

func (e *DependencyCycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "dependency cycle detected"
	}
	return "dependency cycle detected: " + formatCyclePath(e.Cycle)
}

// formatCyclePath formats a cycle path for display.
// Example: [A, B, A] -> "//p:A -> //p:B -> //p:A".
func formatCyclePath(cycle []label.Label) string {
	if len(cycle) == 0 {
		return ""
	}
	result := cycle[0].String()
	for i := 1; i < len(cycle); i++ {
		result += " -> " + cycle[i].String()
	}
	return result
}
