// Package buildutil provides utilities for reading arguments of Starlark
// calls parsed with buildtools.
package buildutil

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// FuncName returns the function name from a CallExpr.
// Returns empty string if the call is not a simple function call
// (e.g., method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}

// Arg returns the argument bound to name, either as a keyword argument or,
// failing that, at positional index pos. A negative pos disables the
// positional lookup.
func Arg(call *build.CallExpr, name string, pos int) (build.Expr, bool) {
	positional := 0
	var byPos build.Expr
	for _, arg := range call.List {
		if assign, ok := arg.(*build.AssignExpr); ok {
			if lhs, ok := assign.LHS.(*build.Ident); ok && lhs.Name == name {
				return assign.RHS, true
			}
			continue
		}
		if positional == pos {
			byPos = arg
		}
		positional++
	}
	return byPos, byPos != nil
}

// Keywords returns the keyword argument names of call in order.
func Keywords(call *build.CallExpr) []string {
	var names []string
	for _, arg := range call.List {
		if assign, ok := arg.(*build.AssignExpr); ok {
			if lhs, ok := assign.LHS.(*build.Ident); ok {
				names = append(names, lhs.Name)
			}
		}
	}
	return names
}

// String extracts the string argument bound to name (or at pos).
// ok is false if the argument is missing or not a string literal.
func String(call *build.CallExpr, name string, pos int) (string, bool) {
	expr, found := Arg(call, name, pos)
	if !found {
		return "", false
	}
	str, ok := expr.(*build.StringExpr)
	if !ok {
		return "", false
	}
	return str.Value, true
}

// List extracts the list argument bound to name (or at pos) as Go values.
// ok is false if the argument is missing or not a list literal.
func List(call *build.CallExpr, name string, pos int) ([]any, bool) {
	expr, found := Arg(call, name, pos)
	if !found {
		return nil, false
	}
	list, ok := expr.(*build.ListExpr)
	if !ok {
		return nil, false
	}
	values := make([]any, 0, len(list.List))
	for _, item := range list.List {
		values = append(values, ExtractValue(item))
	}
	return values, true
}

// ExtractValue converts a build.Expr to a Go value.
// Handles strings, integers, booleans (True/False/None), lists, and dicts.
// Returns the raw expression for unhandled types.
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
