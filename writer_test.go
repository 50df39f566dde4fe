package buildgraph

import (
	"reflect"
	"strings"
	"testing"
)

func TestWriteBuildRoundTrip(t *testing.T) {
	pkg, err := ParseBuildContent("tensorflow_probability/examples/neutra", neutraBuild)
	if err != nil {
		t.Fatalf("ParseBuildContent() error = %v", err)
	}

	out := WriteBuild(pkg)
	reparsed, err := ParseBuildContent(pkg.Path, string(out))
	if err != nil {
		t.Fatalf("reparse written BUILD: %v\n%s", err, out)
	}

	if !reflect.DeepEqual(reparsed.DefaultVisibility, pkg.DefaultVisibility) {
		t.Errorf("DefaultVisibility = %v, want %v", reparsed.DefaultVisibility, pkg.DefaultVisibility)
	}
	if !reflect.DeepEqual(reparsed.Licenses, pkg.Licenses) {
		t.Errorf("Licenses = %v, want %v", reparsed.Licenses, pkg.Licenses)
	}
	if !reflect.DeepEqual(reparsed.ExportedFiles, pkg.ExportedFiles) {
		t.Errorf("ExportedFiles = %v, want %v", reparsed.ExportedFiles, pkg.ExportedFiles)
	}
	if len(reparsed.Targets) != len(pkg.Targets) {
		t.Fatalf("len(Targets) = %d, want %d", len(reparsed.Targets), len(pkg.Targets))
	}
	for i, want := range pkg.Targets {
		got := reparsed.Targets[i]
		if got.Name != want.Name || got.Kind != want.Kind {
			t.Errorf("Targets[%d] = %s %s, want %s %s", i, got.Kind, got.Name, want.Kind, want.Name)
		}
		if !reflect.DeepEqual(got.Deps, want.Deps) {
			t.Errorf("%s Deps = %v, want %v", want.Name, got.Deps, want.Deps)
		}
		if got.ShardCount != want.ShardCount {
			t.Errorf("%s ShardCount = %d, want %d", want.Name, got.ShardCount, want.ShardCount)
		}
		if got.Size != want.Size || got.PythonVersion != want.PythonVersion || got.SrcsVersion != want.SrcsVersion {
			t.Errorf("%s metadata = (%s, %s, %s), want (%s, %s, %s)",
				want.Name, got.Size, got.PythonVersion, got.SrcsVersion,
				want.Size, want.PythonVersion, want.SrcsVersion)
		}
	}
}

func TestWriteBuildLayout(t *testing.T) {
	pkg := &Package{
		Path:     "p",
		Licenses: []string{"notice"},
		Targets: []*Target{
			{
				Name:       "t",
				Kind:       RulePyTest,
				Srcs:       []string{"t.py"},
				Size:       SizeSmall,
				TestOnly:   true,
				ShardCount: 2,
			},
		},
	}

	out := string(WriteBuild(pkg))

	for _, want := range []string{
		`licenses(["notice"])`,
		`name = "t"`,
		`size = "small"`,
		`shard_count = 2`,
		`testonly = True`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// name comes before srcs within the rule.
	if strings.Index(out, `name = "t"`) > strings.Index(out, `srcs`) {
		t.Errorf("name not first attribute:\n%s", out)
	}
}
