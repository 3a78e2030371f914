package trans

import (
	"fmt"

	"github.com/dekarrin/stlspec/stl/syntax"
)

// InferDecls builds a declaration set from the signal references in a formula
// when no external declarations are available. Each distinct name becomes a
// binding on the next free trace column, in first-appearance order. Names
// compared against a threshold are declared Float; bare names are declared
// Bool.
//
// A name used both ways cannot be given a single type and results in an
// error.
func InferDecls(ast syntax.AST) (Decls, error) {
	if ast.Root == nil {
		return Decls{}, nil
	}

	var bindings []Binding
	seen := map[string]int{}

	var visit func(n syntax.Node) error
	visit = func(n syntax.Node) error {
		switch n.Type() {
		case syntax.ASTPredicate:
			p := n.AsPredicateNode()

			dt := Bool
			if p.Comparison {
				dt = Float
			}

			if idx, ok := seen[p.Name]; ok {
				if bindings[idx].DType != dt {
					return fmt.Errorf("signal %q is used both as a bare predicate and in a comparison", p.Name)
				}
				return nil
			}

			seen[p.Name] = len(bindings)
			bindings = append(bindings, Binding{
				Name:   p.Name,
				Column: len(bindings),
				DType:  dt,
			})
			return nil
		case syntax.ASTNot:
			return visit(n.AsNotNode().Operand)
		case syntax.ASTAnd:
			nd := n.AsAndNode()
			if err := visit(nd.Left); err != nil {
				return err
			}
			return visit(nd.Right)
		case syntax.ASTOr:
			nd := n.AsOrNode()
			if err := visit(nd.Left); err != nil {
				return err
			}
			return visit(nd.Right)
		case syntax.ASTImplies:
			nd := n.AsImpliesNode()
			if err := visit(nd.Left); err != nil {
				return err
			}
			return visit(nd.Right)
		case syntax.ASTEquiv:
			nd := n.AsEquivNode()
			if err := visit(nd.Left); err != nil {
				return err
			}
			return visit(nd.Right)
		case syntax.ASTNext:
			return visit(n.AsNextNode().Operand)
		case syntax.ASTFuture:
			return visit(n.AsFutureNode().Operand)
		case syntax.ASTGlobally:
			return visit(n.AsGloballyNode().Operand)
		case syntax.ASTUntil:
			nd := n.AsUntilNode()
			if err := visit(nd.Left); err != nil {
				return err
			}
			return visit(nd.Right)
		case syntax.ASTRelease:
			nd := n.AsReleaseNode()
			if err := visit(nd.Left); err != nil {
				return err
			}
			return visit(nd.Right)
		default:
			return nil
		}
	}

	if err := visit(ast.Root); err != nil {
		return Decls{}, err
	}

	return NewDecls(bindings...)
}
