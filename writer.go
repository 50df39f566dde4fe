package buildgraph

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// WriteBuild renders a package model back to BUILD file text using the
// buildtools formatter. Attribute order follows the conventional BUILD
// layout: name first, then sources, dependencies, and metadata.
func WriteBuild(pkg *Package) []byte {
	f := &build.File{Type: build.TypeBuild}

	if len(pkg.DefaultVisibility) > 0 {
		f.Stmt = append(f.Stmt, ruleCall("package",
			listAttr("default_visibility", pkg.DefaultVisibility),
		))
	}
	if len(pkg.Licenses) > 0 {
		f.Stmt = append(f.Stmt, &build.CallExpr{
			X:    &build.Ident{Name: "licenses"},
			List: []build.Expr{stringListExpr(pkg.Licenses)},
		})
	}
	if len(pkg.ExportedFiles) > 0 {
		f.Stmt = append(f.Stmt, &build.CallExpr{
			X:    &build.Ident{Name: "exports_files"},
			List: []build.Expr{stringListExpr(pkg.ExportedFiles)},
		})
	}

	for _, t := range pkg.Targets {
		f.Stmt = append(f.Stmt, targetCall(t))
	}

	return build.Format(f)
}

func targetCall(t *Target) *build.CallExpr {
	args := []build.Expr{stringAttr("name", t.Name)}
	args = appendList(args, "srcs", t.Srcs)
	args = appendList(args, "deps", t.Deps)

	if t.Size != "" {
		args = append(args, stringAttr("size", string(t.Size)))
	}
	if t.ShardCount > 0 {
		args = append(args, intAttr("shard_count", t.ShardCount))
	}
	if t.SrcsVersion != SrcsDefault {
		args = append(args, stringAttr("srcs_version", string(t.SrcsVersion)))
	}
	if t.PythonVersion != PyDefault {
		args = append(args, stringAttr("python_version", string(t.PythonVersion)))
	}
	if t.TestOnly {
		args = append(args, boolAttr("testonly", true))
	}
	args = appendList(args, "tags", t.Tags)
	args = appendList(args, "visibility", t.Visibility)

	return &build.CallExpr{
		X:              &build.Ident{Name: string(t.Kind)},
		List:           args,
		ForceMultiLine: true,
	}
}

func ruleCall(name string, args ...build.Expr) *build.CallExpr {
	return &build.CallExpr{X: &build.Ident{Name: name}, List: args}
}

func appendList(args []build.Expr, name string, values []string) []build.Expr {
	if len(values) == 0 {
		return args
	}
	return append(args, listAttr(name, values))
}

func stringAttr(name, value string) build.Expr {
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: &build.StringExpr{Value: value},
	}
}

func intAttr(name string, value int) build.Expr {
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: &build.LiteralExpr{Token: strconv.Itoa(value)},
	}
}

func boolAttr(name string, value bool) build.Expr {
	token := "False"
	if value {
		token = "True"
	}
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: &build.Ident{Name: token},
	}
}

func listAttr(name string, values []string) build.Expr {
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: stringListExpr(values),
	}
}

func stringListExpr(values []string) *build.ListExpr {
	list := &build.ListExpr{ForceMultiLine: len(values) > 1}
	for _, v := range values {
		list.List = append(list.List, &build.StringExpr{Value: v})
	}
	return list
}

