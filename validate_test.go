package buildgraph

import (
	"strings"
	"testing"
)

func TestValidateCleanPackage(t *testing.T) {
	pkg, err := ParseBuildContent("tensorflow_probability/examples/neutra", neutraBuild)
	if err != nil {
		t.Fatalf("ParseBuildContent() error = %v", err)
	}
	report := Validate(pkg)
	if !report.OK() {
		t.Errorf("Validate() findings:\n%s", report)
	}
}

func TestValidateFindings(t *testing.T) {
	tests := []struct {
		name    string
		pkg     *Package
		want    string // substring expected in a finding message
		target  string
		noIssue bool
	}{
		{
			name: "duplicate target name",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "lib", Kind: RulePyLibrary},
				{Name: "lib", Kind: RulePyLibrary},
			}},
			want:   "duplicate target name",
			target: "lib",
		},
		{
			name: "invalid target name",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "has space", Kind: RulePyLibrary},
			}},
			want:   "invalid target name",
			target: "has space",
		},
		{
			name: "bad default visibility",
			pkg: &Package{
				Path:              "a",
				DefaultVisibility: []string{"not-a-pattern"},
			},
			want: "invalid default_visibility",
		},
		{
			name: "bad target visibility",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "lib", Kind: RulePyLibrary, Visibility: []string{"//visibility:everyone"}},
			}},
			want:   "invalid visibility",
			target: "lib",
		},
		{
			name: "bad dependency label",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "lib", Kind: RulePyLibrary, Deps: []string{"//bad pkg:x"}},
			}},
			want:   "invalid dependency label",
			target: "lib",
		},
		{
			name: "bad srcs_version",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "lib", Kind: RulePyLibrary, SrcsVersion: "PY4"},
			}},
			want:   "invalid srcs_version",
			target: "lib",
		},
		{
			name: "python_version on a library",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "lib", Kind: RulePyLibrary, PythonVersion: PY3},
			}},
			want:   "python_version is only allowed on executable rules",
			target: "lib",
		},
		{
			name: "size on a library",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "lib", Kind: RulePyLibrary, Size: SizeMedium},
			}},
			want:   "size is only allowed on test rules",
			target: "lib",
		},
		{
			name: "shard_count on a binary",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "bin", Kind: RulePyBinary, Srcs: []string{"bin.py"}, ShardCount: 3},
			}},
			want:   "shard_count is only allowed on test rules",
			target: "bin",
		},
		{
			name: "shard_count out of range",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "t", Kind: RulePyTest, Srcs: []string{"t.py"}, ShardCount: 51},
			}},
			want:   "out of range",
			target: "t",
		},
		{
			name: "invalid test size",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "t", Kind: RulePyTest, Srcs: []string{"t.py"}, Size: "huge"},
			}},
			want:   "invalid test size",
			target: "t",
		},
		{
			name: "test without srcs",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "t", Kind: RulePyTest},
			}},
			want:   "no srcs",
			target: "t",
		},
		{
			name: "unsharded test is fine",
			pkg: &Package{Path: "a", Targets: []*Target{
				{Name: "t", Kind: RulePyTest, Srcs: []string{"t.py"}, Size: SizeSmall},
			}},
			noIssue: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(tt.pkg)
			if tt.noIssue {
				if !report.OK() {
					t.Errorf("Validate() findings:\n%s", report)
				}
				return
			}
			found := false
			for _, f := range report.Findings {
				if strings.Contains(f.Message, tt.want) && f.Target == tt.target {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want finding containing %q for target %q", report.Findings, tt.want, tt.target)
			}
		})
	}
}

func TestValidateNegativeShardCount(t *testing.T) {
	pkg, err := ParseBuildContent("p", `
py_test(
    name = "t",
    srcs = ["t.py"],
    shard_count = -5,
)
`)
	if err != nil {
		t.Fatalf("ParseBuildContent() error = %v", err)
	}
	if got := pkg.Target("t").ShardCount; got != -5 {
		t.Fatalf("parsed ShardCount = %d, want -5", got)
	}

	report := Validate(pkg)
	found := false
	for _, f := range report.Findings {
		if f.Target == "t" && strings.Contains(f.Message, "shard_count") {
			found = true
		}
	}
	if !found {
		t.Errorf("Validate() = %v, want shard_count finding", report.Findings)
	}
}

func TestReportString(t *testing.T) {
	ok := &Report{Package: "neutra"}
	if got := ok.String(); got != "//neutra: ok" {
		t.Errorf("String() = %q", got)
	}

	bad := &Report{
		Package: "neutra",
		Findings: []Finding{
			{Package: "neutra", Target: "lib", Message: "duplicate target name"},
		},
	}
	s := bad.String()
	if !strings.Contains(s, "1 finding(s)") || !strings.Contains(s, "//neutra:lib") {
		t.Errorf("String() = %q", s)
	}
}
