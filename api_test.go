package buildgraph

import (
	"context"
	"testing"

	"github.com/buildgraph/go-buildgraph/label"
)

func TestCheck(t *testing.T) {
	report, err := Check("tensorflow_probability/examples/neutra", neutraBuild)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !report.OK() {
		t.Errorf("Check() findings:\n%s", report)
	}

	report, err = Check("p", `py_test(name = "t", srcs = ["t.py"], shard_count = 99)`)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if report.OK() {
		t.Error("Check() = ok, want shard_count finding")
	}
}

func TestBuildOrderConvenience(t *testing.T) {
	root := t.TempDir()
	writeBuildFile(t, root, "neutra", `
py_library(
    name = "neutra_impl",
    srcs = ["neutra_impl.py"],
)

py_library(
    name = "neutra",
    srcs = ["__init__.py"],
    deps = [":neutra_impl"],
)
`)

	order, err := BuildOrder(context.Background(), root, "//neutra:neutra")
	if err != nil {
		t.Fatalf("BuildOrder() error = %v", err)
	}
	want := []label.Label{
		label.Must("//neutra:neutra_impl"),
		label.Must("//neutra:neutra"),
	}
	for i, l := range want {
		if order[i] != l {
			t.Errorf("order[%d] = %v, want %v", i, order[i], l)
		}
	}
}

func TestResolveBadRootLabel(t *testing.T) {
	if _, err := Resolve(context.Background(), t.TempDir(), "not a label", ResolveOptions{}); err == nil {
		t.Fatal("Resolve() error = nil, want label parse error")
	}
}
