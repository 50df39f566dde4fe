package graph

import (
	"fmt"
	"sort"
)

// Get returns the node for a target key, or nil if not found.
func (g *Graph) Get(key TargetKey) *Node {
	return g.Targets[key]
}

// Contains returns true if the graph contains the given target.
func (g *Graph) Contains(key TargetKey) bool {
	_, ok := g.Targets[key]
	return ok
}

// DirectDeps returns the direct dependencies of a target.
func (g *Graph) DirectDeps(key TargetKey) []TargetKey {
	if node := g.Targets[key]; node != nil {
		return node.Dependencies
	}
	return nil
}

// DirectDependents returns targets that directly depend on the given
// target.
func (g *Graph) DirectDependents(key TargetKey) []TargetKey {
	if node := g.Targets[key]; node != nil {
		return node.Dependents
	}
	return nil
}

// TransitiveDeps returns all transitive dependencies of a target in
// breadth-first order.
func (g *Graph) TransitiveDeps(key TargetKey) []TargetKey {
	return g.walk(key, func(n *Node) []TargetKey { return n.Dependencies })
}

// TransitiveDependents returns all targets that transitively depend on
// the given target, closest dependents first.
func (g *Graph) TransitiveDependents(key TargetKey) []TargetKey {
	return g.walk(key, func(n *Node) []TargetKey { return n.Dependents })
}

func (g *Graph) walk(start TargetKey, next func(*Node) []TargetKey) []TargetKey {
	result := make([]TargetKey, 0)
	visited := map[TargetKey]bool{start: true}
	queue := []TargetKey{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Targets[current]
		if node == nil {
			continue
		}
		for _, k := range next(node) {
			if !visited[k] {
				visited[k] = true
				result = append(result, k)
				queue = append(queue, k)
			}
		}
	}
	return result
}

// Path finds the shortest dependency path from one target to another.
// Returns nil if no path exists.
func (g *Graph) Path(from, to TargetKey) []TargetKey {
	if from == to {
		return []TargetKey{from}
	}

	type queueItem struct {
		key  TargetKey
		path []TargetKey
	}

	visited := map[TargetKey]bool{from: true}
	queue := []queueItem{{key: from, path: []TargetKey{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Targets[current.key]
		if node == nil {
			continue
		}
		for _, dep := range node.Dependencies {
			if dep == to {
				return append(current.path, dep)
			}
			if !visited[dep] {
				visited[dep] = true
				newPath := make([]TargetKey, len(current.path)+1)
				copy(newPath, current.path)
				newPath[len(current.path)] = dep
				queue = append(queue, queueItem{key: dep, path: newPath})
			}
		}
	}
	return nil
}

// HasCycles returns true if the graph contains a dependency cycle.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// FindCycles returns all dependency cycles in the graph. Each cycle
// path starts and ends at the same target.
func (g *Graph) FindCycles() [][]TargetKey {
	var cycles [][]TargetKey
	visited := make(map[TargetKey]bool)
	onStack := make(map[TargetKey]bool)
	path := make([]TargetKey, 0)

	var visit func(key TargetKey)
	visit = func(key TargetKey) {
		visited[key] = true
		onStack[key] = true
		path = append(path, key)

		if node := g.Targets[key]; node != nil {
			for _, dep := range node.Dependencies {
				if !visited[dep] {
					visit(dep)
				} else if onStack[dep] {
					start := -1
					for i, k := range path {
						if k == dep {
							start = i
							break
						}
					}
					if start >= 0 {
						cycle := make([]TargetKey, 0, len(path)-start+1)
						cycle = append(cycle, path[start:]...)
						cycle = append(cycle, dep)
						cycles = append(cycles, cycle)
					}
				}
			}
		}

		path = path[:len(path)-1]
		onStack[key] = false
	}

	for _, key := range g.sortedKeys() {
		if !visited[key] {
			visit(key)
		}
	}
	return cycles
}

// BuildOrder returns a deterministic topological order of the graph:
// every target appears after all of its dependencies, so a build tool
// processing the slice front to back never sees an unbuilt dependency.
// Ties are broken by label. Returns an error if the graph is cyclic.
func (g *Graph) BuildOrder() ([]TargetKey, error) {
	remaining := make(map[TargetKey]int, len(g.Targets))
	for key, node := range g.Targets {
		remaining[key] = len(node.Dependencies)
	}

	ready := make([]TargetKey, 0)
	for key, n := range remaining {
		if n == 0 {
			ready = append(ready, key)
		}
	}

	order := make([]TargetKey, 0, len(g.Targets))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i].String() < ready[j].String() })
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, dependent := range g.Targets[next].Dependents {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) != len(g.Targets) {
		return nil, fmt.Errorf("build order impossible: graph contains a cycle among %d target(s)", len(g.Targets)-len(order))
	}
	return order, nil
}

// Leaves returns all targets with no dependencies, sorted by label.
func (g *Graph) Leaves() []TargetKey {
	var leaves []TargetKey
	for key, node := range g.Targets {
		if len(node.Dependencies) == 0 {
			leaves = append(leaves, key)
		}
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].String() < leaves[j].String() })
	return leaves
}

// Stats returns aggregate statistics about the graph.
func (g *Graph) Stats() Stats {
	stats := Stats{TotalTargets: len(g.Targets)}

	if root := g.Targets[g.Root]; root != nil {
		stats.DirectDependencies = len(root.Dependencies)
	}
	stats.TransitiveDependencies = stats.TotalTargets - stats.DirectDependencies - 1
	if stats.TransitiveDependencies < 0 {
		stats.TransitiveDependencies = 0
	}

	for _, node := range g.Targets {
		if node.External {
			stats.ExternalTargets++
		}
	}

	stats.MaxDepth = g.maxDepth()
	return stats
}

func (g *Graph) maxDepth() int {
	depths := make(map[TargetKey]int)
	onPath := make(map[TargetKey]bool)
	var maxDepth int

	var dfs func(key TargetKey, depth int)
	dfs = func(key TargetKey, depth int) {
		// A node already on the current DFS path means a cycle
		// back-edge; don't follow it.
		if onPath[key] {
			return
		}
		if existing, ok := depths[key]; ok && existing >= depth {
			return
		}
		depths[key] = depth
		if depth > maxDepth {
			maxDepth = depth
		}
		node := g.Targets[key]
		if node == nil {
			return
		}
		onPath[key] = true
		for _, dep := range node.Dependencies {
			dfs(dep, depth+1)
		}
		delete(onPath, key)
	}

	dfs(g.Root, 0)
	return maxDepth
}

// sortedKeys returns all target keys sorted by label for deterministic
// iteration.
func (g *Graph) sortedKeys() []TargetKey {
	keys := make([]TargetKey, 0, len(g.Targets))
	for key := range g.Targets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
