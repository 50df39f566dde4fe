// Package buildutil provides helpers for extracting rule attributes
// from buildtools AST nodes.
package buildutil

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// String extracts a string attribute from a rule call by name.
// Returns empty string if the attribute is not present or not a string.
func String(call *build.CallExpr, name string) string {
	if expr := attr(call, name); expr != nil {
		if str, ok := expr.(*build.StringExpr); ok {
			return str.Value
		}
	}
	return ""
}

// Int extracts an integer attribute from a rule call by name.
// Negative values parse as a unary minus wrapping the literal.
// Returns 0 if the attribute is not present or not a valid integer.
func Int(call *build.CallExpr, name string) int {
	expr := attr(call, name)
	if expr == nil {
		return 0
	}
	negative := false
	if unary, ok := expr.(*build.UnaryExpr); ok && unary.Op == "-" {
		negative = true
		expr = unary.X
	}
	if lit, ok := expr.(*build.LiteralExpr); ok {
		if val, err := strconv.Atoi(lit.Token); err == nil {
			if negative {
				return -val
			}
			return val
		}
	}
	return 0
}

// Bool extracts a boolean attribute from a rule call by name.
// Returns false if the attribute is not present or not True/False.
func Bool(call *build.CallExpr, name string) bool {
	if expr := attr(call, name); expr != nil {
		if ident, ok := expr.(*build.Ident); ok {
			return ident.Name == "True"
		}
	}
	return false
}

// StringList extracts a list-of-strings attribute from a rule call by
// name. Non-string elements are skipped. Returns nil if the attribute
// is not present or not a list.
func StringList(call *build.CallExpr, name string) []string {
	expr := attr(call, name)
	if expr == nil {
		return nil
	}
	list, ok := expr.(*build.ListExpr)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		if str, ok := elem.(*build.StringExpr); ok {
			result = append(result, str.Value)
		}
	}
	return result
}

// PositionalStringList returns the first positional list-of-strings
// argument of a call, e.g. the argument of exports_files([...]).
func PositionalStringList(call *build.CallExpr) []string {
	for _, arg := range call.List {
		if _, ok := arg.(*build.AssignExpr); ok {
			continue
		}
		list, ok := arg.(*build.ListExpr)
		if !ok {
			continue
		}
		result := make([]string, 0, len(list.List))
		for _, elem := range list.List {
			if str, ok := elem.(*build.StringExpr); ok {
				result = append(result, str.Value)
			}
		}
		return result
	}
	return nil
}

// Attrs returns all named attributes of a call as a map of Go values.
func Attrs(call *build.CallExpr) map[string]any {
	result := make(map[string]any)
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok {
			continue
		}
		result[lhs.Name] = ExtractValue(assign.RHS)
	}
	return result
}

// attr returns the RHS expression of the named attribute, or nil.
func attr(call *build.CallExpr, name string) build.Expr {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok || lhs.Name != name {
			continue
		}
		return assign.RHS
	}
	return nil
}

// ExtractValue converts a build.Expr to a Go value.
// Handles strings, integers, booleans (True/False/None), lists, and
// dicts. Returns the raw expression for unhandled types.
func ExtractValue(expr build.Expr) any {
	switch e := expr.(type) {
	case *build.StringExpr:
		return e.Value
	case *build.LiteralExpr:
		if val, err := strconv.Atoi(e.Token); err == nil {
			return val
		}
		return e.Token
	case *build.Ident:
		switch e.Name {
		case "True":
			return true
		case "False":
			return false
		case "None":
			return nil
		default:
			return e.Name
		}
	case *build.UnaryExpr:
		if e.Op == "-" {
			if val, ok := ExtractValue(e.X).(int); ok {
				return -val
			}
		}
		return expr
	case *build.ListExpr:
		result := make([]any, 0, len(e.List))
		for _, item := range e.List {
			result = append(result, ExtractValue(item))
		}
		return result
	case *build.DictExpr:
		result := make(map[string]any)
		for _, kv := range e.List {
			if keyStr, ok := kv.Key.(*build.StringExpr); ok {
				result[keyStr.Value] = ExtractValue(kv.Value)
			}
		}
		return result
	default:
		return expr
	}
}

// FuncName returns the function name from a CallExpr, or empty string
// for non-simple calls (e.g. method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}
