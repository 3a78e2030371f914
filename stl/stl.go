// Package stl is the front end for compiling signal temporal logic
// requirements. It ties together lexing, parsing, validation, and
// translation so most callers need only one call:
//
//	decls, err := trans.NewDecls(
//		trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
//	)
//	if err != nil {
//		// handle
//	}
//
//	spec, err := stl.CompileLinear("always (alt >= 0)", decls)
//
// The sub-packages remain available for callers that want individual stages:
// syntax for lexing and parsing, trans for validation and translation.
package stl

import (
	"github.com/dekarrin/stlspec/stl/syntax"
	"github.com/dekarrin/stlspec/stl/trans"
)

// Parse converts requirement text into a formula AST. The returned error is a
// syntax.LexError or syntax.SyntaxError describing the first problem found.
func Parse(text string) (syntax.AST, error) {
	ts, err := syntax.Lex(text)
	if err != nil {
		return syntax.AST{}, err
	}

	return syntax.Parse(&ts)
}

// Validate parses requirement text and checks it against the given
// declarations and target without translating it.
func Validate(text string, decls trans.Decls, target trans.Target) error {
	ast, err := Parse(text)
	if err != nil {
		return err
	}

	return trans.Validate(ast, decls, target)
}

// CompileLinear parses, validates, and translates requirement text for the
// dense-time linear-constraint target.
func CompileLinear(text string, decls trans.Decls) (trans.LinearSpec, error) {
	ast, err := Parse(text)
	if err != nil {
		return trans.LinearSpec{}, err
	}

	if err := trans.Validate(ast, decls, trans.TargetLinear); err != nil {
		return trans.LinearSpec{}, err
	}

	return trans.TranslateLinear(ast, decls)
}

// CompileTree parses, validates, and translates requirement text for the
// discrete-time tree-walking target.
func CompileTree(text string, decls trans.Decls) (trans.TreeSpec, error) {
	ast, err := Parse(text)
	if err != nil {
		return trans.TreeSpec{}, err
	}

	if err := trans.Validate(ast, decls, trans.TargetTree); err != nil {
		return trans.TreeSpec{}, err
	}

	return trans.TranslateTree(ast, decls)
}

// Canonical parses requirement text and returns its canonical spelling:
// symbolic operators, every binary application parenthesized. Parsing the
// returned text produces a tree identical to parsing the input.
func Canonical(text string) (string, error) {
	ast, err := Parse(text)
	if err != nil {
		return "", err
	}

	return ast.STLString(), nil
}
