package graph

import (
	"reflect"
	"strings"
	"testing"

	"github.com/buildgraph/go-buildgraph/label"
)

// chainGraph builds the canonical three-node chain:
// test -> aggregator -> kernel.
func chainGraph() *Graph {
	test := label.Must("//neutra:neutra_test")
	agg := label.Must("//neutra:neutra")
	kernel := label.Must("//neutra:neutra_impl")

	g := New(test)
	g.AddNode(test, "py_test", false, false)
	g.AddNode(agg, "py_library", false, false)
	g.AddNode(kernel, "py_library", false, false)
	g.AddEdge(test, agg)
	g.AddEdge(agg, kernel)
	return g
}

func TestBuildOrderChain(t *testing.T) {
	g := chainGraph()

	order, err := g.BuildOrder()
	if err != nil {
		t.Fatalf("BuildOrder failed: %v", err)
	}

	want := []TargetKey{
		label.Must("//neutra:neutra_impl"),
		label.Must("//neutra:neutra"),
		label.Must("//neutra:neutra_test"),
	}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("BuildOrder = %v, want kernel before aggregator before test", order)
	}
}

func TestBuildOrderDeterministic(t *testing.T) {
	root := label.Must("//app:main")
	g := New(root)
	g.AddNode(root, "py_binary", false, false)
	for _, name := range []string{"c", "a", "b"} {
		key := label.Must("//app:" + name)
		g.AddNode(key, "py_library", false, false)
		g.AddEdge(root, key)
	}

	first, err := g.BuildOrder()
	if err != nil {
		t.Fatalf("BuildOrder failed: %v", err)
	}
	want := []TargetKey{
		label.Must("//app:a"),
		label.Must("//app:b"),
		label.Must("//app:c"),
		root,
	}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("BuildOrder = %v, want label-sorted ties %v", first, want)
	}

	for i := 0; i < 10; i++ {
		again, err := g.BuildOrder()
		if err != nil {
			t.Fatalf("BuildOrder failed: %v", err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("BuildOrder not deterministic: %v vs %v", again, first)
		}
	}
}

func TestBuildOrderCycle(t *testing.T) {
	a := label.Must("//p:a")
	b := label.Must("//p:b")
	g := New(a)
	g.AddNode(a, "py_library", false, false)
	g.AddNode(b, "py_library", false, false)
	g.AddEdge(a, b)
	g.AddEdge(b, a)

	if _, err := g.BuildOrder(); err == nil {
		t.Fatal("BuildOrder on cyclic graph must fail")
	}
	if !g.HasCycles() {
		t.Error("HasCycles = false on cyclic graph")
	}

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("FindCycles found %d cycles, want 1", len(cycles))
	}
	cycle := cycles[0]
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("cycle path must close on itself: %v", cycle)
	}
}

func TestTraversal(t *testing.T) {
	g := chainGraph()
	test := label.Must("//neutra:neutra_test")
	agg := label.Must("//neutra:neutra")
	kernel := label.Must("//neutra:neutra_impl")

	if got := g.DirectDeps(test); !reflect.DeepEqual(got, []TargetKey{agg}) {
		t.Errorf("DirectDeps(test) = %v, want aggregator only", got)
	}
	if got := g.TransitiveDeps(test); !reflect.DeepEqual(got, []TargetKey{agg, kernel}) {
		t.Errorf("TransitiveDeps(test) = %v", got)
	}
	if got := g.TransitiveDependents(kernel); !reflect.DeepEqual(got, []TargetKey{agg, test}) {
		t.Errorf("TransitiveDependents(kernel) = %v", got)
	}
	if got := g.Path(test, kernel); len(got) != 3 {
		t.Errorf("Path(test, kernel) = %v, want 3 hops", got)
	}
	if got := g.Path(kernel, test); got != nil {
		t.Errorf("Path(kernel, test) = %v, want nil (edges are directed)", got)
	}
	if got := g.Leaves(); !reflect.DeepEqual(got, []TargetKey{kernel}) {
		t.Errorf("Leaves = %v, want kernel only", got)
	}
}

func TestStats(t *testing.T) {
	g := chainGraph()
	stats := g.Stats()
	if stats.TotalTargets != 3 {
		t.Errorf("TotalTargets = %d", stats.TotalTargets)
	}
	if stats.DirectDependencies != 1 {
		t.Errorf("DirectDependencies = %d", stats.DirectDependencies)
	}
	if stats.TransitiveDependencies != 1 {
		t.Errorf("TransitiveDependencies = %d", stats.TransitiveDependencies)
	}
	if stats.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d", stats.MaxDepth)
	}
}

func TestFormats(t *testing.T) {
	g := chainGraph()

	dot := g.ToDOT()
	if !strings.Contains(dot, `"//neutra:neutra_test" -> "//neutra:neutra"`) {
		t.Errorf("DOT output missing edge:\n%s", dot)
	}

	text := g.ToText()
	if !strings.Contains(text, "Total targets: 3") {
		t.Errorf("text output missing stats:\n%s", text)
	}
	if !strings.Contains(text, "└── //neutra:neutra") {
		t.Errorf("text output missing tree:\n%s", text)
	}

	data, err := g.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"//neutra:neutra_impl"`) {
		t.Errorf("JSON output missing kernel node:\n%s", data)
	}
}
