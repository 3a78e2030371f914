package trans

import (
	"github.com/dekarrin/stlspec/stl/syntax"
)

// Validate walks a formula AST and checks it against the given declarations
// and compilation target. It returns nil if the formula can be translated for
// the target.
//
// Name and type problems are aggregated so one call reports every bad signal
// reference in the formula; the returned error is an ErrorList when more than
// one is found. A malformed time window stops the walk immediately, since
// nothing below the bad window can be meaningfully interpreted.
func Validate(ast syntax.AST, decls Decls, target Target) error {
	if ast.Root == nil {
		return nil
	}

	v := validator{decls: decls, target: target}

	if err := v.walk(ast.Root); err != nil {
		return err
	}

	if len(v.errs) == 1 {
		return v.errs[0]
	}
	if len(v.errs) > 0 {
		return ErrorList(v.errs)
	}
	return nil
}

type validator struct {
	decls  Decls
	target Target
	errs   []error
}

// walk visits every node exactly once. Its return value is non-nil only for
// window errors, which short-circuit; everything else lands in v.errs.
func (v *validator) walk(n syntax.Node) error {
	switch n.Type() {
	case syntax.ASTPredicate:
		v.checkPredicate(n.AsPredicateNode())
		return nil
	case syntax.ASTNot:
		return v.walk(n.AsNotNode().Operand)
	case syntax.ASTAnd:
		nd := n.AsAndNode()
		if err := v.walk(nd.Left); err != nil {
			return err
		}
		return v.walk(nd.Right)
	case syntax.ASTOr:
		nd := n.AsOrNode()
		if err := v.walk(nd.Left); err != nil {
			return err
		}
		return v.walk(nd.Right)
	case syntax.ASTImplies:
		nd := n.AsImpliesNode()
		if err := v.walk(nd.Left); err != nil {
			return err
		}
		return v.walk(nd.Right)
	case syntax.ASTEquiv:
		nd := n.AsEquivNode()
		if err := v.walk(nd.Left); err != nil {
			return err
		}
		return v.walk(nd.Right)
	case syntax.ASTNext:
		nd := n.AsNextNode()
		if v.target == TargetLinear {
			v.errs = append(v.errs, UnsupportedOperatorError{
				Op:     "X",
				Target: v.target,
				Line:   nd.Source().Line,
				Pos:    nd.Source().Pos,
			})
		}
		if err := v.checkInterval(nd.Interval, nd.Source()); err != nil {
			return err
		}
		return v.walk(nd.Operand)
	case syntax.ASTFuture:
		nd := n.AsFutureNode()
		if err := v.checkInterval(nd.Interval, nd.Source()); err != nil {
			return err
		}
		return v.walk(nd.Operand)
	case syntax.ASTGlobally:
		nd := n.AsGloballyNode()
		if err := v.checkInterval(nd.Interval, nd.Source()); err != nil {
			return err
		}
		return v.walk(nd.Operand)
	case syntax.ASTUntil:
		nd := n.AsUntilNode()
		if err := v.checkInterval(nd.Interval, nd.Source()); err != nil {
			return err
		}
		if err := v.walk(nd.Left); err != nil {
			return err
		}
		return v.walk(nd.Right)
	case syntax.ASTRelease:
		nd := n.AsReleaseNode()
		if err := v.checkInterval(nd.Interval, nd.Source()); err != nil {
			return err
		}
		if err := v.walk(nd.Left); err != nil {
			return err
		}
		return v.walk(nd.Right)
	default:
		// cannot happen; the variant set is closed
		return nil
	}
}

func (v *validator) checkPredicate(p syntax.PredicateNode) {
	b, ok := v.decls.Get(p.Name)
	if !ok {
		v.errs = append(v.errs, UndeclaredVariableError{
			Name: p.Name,
			Line: p.Source().Line,
			Pos:  p.Source().Pos,
		})
		return
	}

	if p.Comparison && b.DType != Float {
		v.errs = append(v.errs, TypeMismatchError{
			Name:    p.Name,
			DType:   b.DType,
			Message: "compared against a threshold",
			Line:    p.Source().Line,
			Pos:     p.Source().Pos,
		})
		return
	}
	if !p.Comparison && b.DType != Bool {
		v.errs = append(v.errs, TypeMismatchError{
			Name:    p.Name,
			DType:   b.DType,
			Message: "used as a bare predicate",
			Line:    p.Source().Line,
			Pos:     p.Source().Pos,
		})
		return
	}

	if v.target == TargetLinear {
		if p.Comparison && p.Op.Strict() {
			v.errs = append(v.errs, UnsupportedOperatorError{
				Op:     p.Op.String(),
				Target: v.target,
				Line:   p.Source().Line,
				Pos:    p.Source().Pos,
			})
		}
		if !p.Comparison && (b.Row == nil || b.Bound == nil) {
			v.errs = append(v.errs, TypeMismatchError{
				Name:    p.Name,
				DType:   b.DType,
				Message: "used as a bare predicate with no predefined linear constraint",
				Line:    p.Source().Line,
				Pos:     p.Source().Pos,
			})
		}
	}
}

func (v *validator) checkInterval(iv *syntax.Interval, src syntax.Token) error {
	if iv == nil {
		return nil
	}

	if !iv.WellOrdered() {
		return InvalidIntervalError{
			Interval: *iv,
			Line:     src.Line,
			Pos:      src.Pos,
		}
	}

	return nil
}
