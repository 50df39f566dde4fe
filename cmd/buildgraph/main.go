// Command buildgraph inspects Bazel-style BUILD package manifests:
// it validates packages, resolves target dependency closures, renders
// dependency graphs, and plans test sharding.
package main

func main() {
	Execute()
}
