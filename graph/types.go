// Package graph models resolved BUILD target graphs.
//
// A Graph supports bidirectional traversal (dependencies and
// dependents), cycle detection, deterministic build-order computation,
// and rendering to DOT, JSON, and text.
package graph

import (
	"github.com/buildgraph/go-buildgraph/label"
)

// TargetKey is an alias for label.Label to provide a consistent API
// within the graph package.
type TargetKey = label.Label

// Graph represents a resolved target dependency graph.
type Graph struct {
	// Root is the target the resolution started from.
	Root TargetKey

	// Targets contains all nodes in the graph, keyed by label.
	Targets map[TargetKey]*Node
}

// Node represents a target in the dependency graph.
type Node struct {
	// Key uniquely identifies this target.
	Key TargetKey

	// Kind is the declaring rule kind; "external" for boundary nodes.
	Kind string

	// Dependencies are the direct dependencies of this target.
	Dependencies []TargetKey

	// Dependents are targets that directly depend on this one
	// (reverse edges).
	Dependents []TargetKey

	// TestOnly is true if the target is restricted to test usage.
	TestOnly bool

	// External is true for boundary nodes in declared external
	// repositories, which are not expanded further.
	External bool

	// IsRoot is true if this is the root of the resolution.
	IsRoot bool
}

// New creates an empty graph rooted at the given target.
func New(root TargetKey) *Graph {
	return &Graph{
		Root:    root,
		Targets: make(map[TargetKey]*Node),
	}
}

// AddNode ensures a node exists for key and returns it. Kind and flags
// are set on first insertion only.
func (g *Graph) AddNode(key TargetKey, kind string, testOnly, external bool) *Node {
	if node, ok := g.Targets[key]; ok {
		return node
	}
	node := &Node{
		Key:      key,
		Kind:     kind,
		TestOnly: testOnly,
		External: external,
		IsRoot:   key == g.Root,
	}
	g.Targets[key] = node
	return node
}

// AddEdge records a dependency edge and its reverse. Both nodes must
// already exist.
func (g *Graph) AddEdge(from, to TargetKey) {
	fromNode, toNode := g.Targets[from], g.Targets[to]
	if fromNode == nil || toNode == nil {
		return
	}
	for _, dep := range fromNode.Dependencies {
		if dep == to {
			return
		}
	}
	fromNode.Dependencies = append(fromNode.Dependencies, to)
	toNode.Dependents = append(toNode.Dependents, from)
}

// Stats provides aggregate statistics about the graph.
type Stats struct {
	// TotalTargets is the number of nodes in the graph.
	TotalTargets int

	// DirectDependencies is the number of direct dependencies of the root.
	DirectDependencies int

	// TransitiveDependencies is the number of transitive dependencies.
	TransitiveDependencies int

	// MaxDepth is the maximum depth of the dependency tree.
	MaxDepth int

	// ExternalTargets is the number of external boundary nodes.
	ExternalTargets int
}
