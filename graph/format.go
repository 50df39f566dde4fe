package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const separatorWidth = 60 // Width of separator lines in text output

// jsonNode is the JSON shape of a graph node.
type jsonNode struct {
	Label        string   `json:"label"`
	Kind         string   `json:"kind,omitempty"`
	TestOnly     bool     `json:"testonly,omitempty"`
	External     bool     `json:"external,omitempty"`
	Root         bool     `json:"root,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// ToJSON outputs the graph as a deterministic JSON array of nodes,
// sorted by label.
func (g *Graph) ToJSON() ([]byte, error) {
	nodes := make([]jsonNode, 0, len(g.Targets))
	for _, key := range g.sortedKeys() {
		node := g.Targets[key]
		deps := make([]string, len(node.Dependencies))
		for i, dep := range node.Dependencies {
			deps[i] = dep.String()
		}
		nodes = append(nodes, jsonNode{
			Label:        key.String(),
			Kind:         node.Kind,
			TestOnly:     node.TestOnly,
			External:     node.External,
			Root:         node.IsRoot,
			Dependencies: deps,
		})
	}
	return json.MarshalIndent(nodes, "", "  ")
}

// ToDOT outputs the graph in Graphviz DOT format.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer

	buf.WriteString("digraph targets {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	for _, key := range g.sortedKeys() {
		node := g.Targets[key]
		attrs := fmt.Sprintf("label=%q", key.String())
		if node.IsRoot {
			attrs += ", style=bold"
		}
		if node.External {
			attrs += ", style=dashed"
		}
		buf.WriteString(fmt.Sprintf("  %q [%s];\n", key.String(), attrs))
	}

	buf.WriteString("\n")

	for _, key := range g.sortedKeys() {
		for _, dep := range g.Targets[key].Dependencies {
			buf.WriteString(fmt.Sprintf("  %q -> %q;\n", key.String(), dep.String()))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText outputs a human-readable text representation of the graph.
func (g *Graph) ToText() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Target Graph (root: %s)\n", g.Root.String()))
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")

	stats := g.Stats()
	buf.WriteString(fmt.Sprintf("Total targets: %d\n", stats.TotalTargets))
	buf.WriteString(fmt.Sprintf("Direct dependencies: %d\n", stats.DirectDependencies))
	buf.WriteString(fmt.Sprintf("Transitive dependencies: %d\n", stats.TransitiveDependencies))
	buf.WriteString(fmt.Sprintf("Max depth: %d\n", stats.MaxDepth))
	if stats.ExternalTargets > 0 {
		buf.WriteString(fmt.Sprintf("External targets: %d\n", stats.ExternalTargets))
	}
	buf.WriteString("\nDependency Tree:\n")

	buf.WriteString(g.Root.String() + "\n")
	visited := map[TargetKey]bool{g.Root: true}
	if root := g.Targets[g.Root]; root != nil {
		for i, dep := range root.Dependencies {
			g.printTree(&buf, dep, "", i == len(root.Dependencies)-1, visited)
		}
	}

	return buf.String()
}

func (g *Graph) printTree(buf *bytes.Buffer, key TargetKey, prefix string, isLast bool, visited map[TargetKey]bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	buf.WriteString(prefix + connector + key.String())

	node := g.Targets[key]
	if node != nil && node.External {
		buf.WriteString(" (external)")
	}

	if visited[key] {
		buf.WriteString(" (circular)\n")
		return
	}
	buf.WriteString("\n")

	visited[key] = true
	defer func() { visited[key] = false }()

	if node == nil {
		return
	}

	childPrefix := prefix + "│   "
	if isLast {
		childPrefix = prefix + "    "
	}
	for i, dep := range node.Dependencies {
		g.printTree(buf, dep, childPrefix, i == len(node.Dependencies)-1, visited)
	}
}
