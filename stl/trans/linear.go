package trans

import (
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/stlspec/stl/syntax"
)

// LinearPredicate is one compiled predicate of a LinearSpec: the constraint
// Row . trace_step <= Bound.
type LinearPredicate struct {
	// Name is the signal name the predicate was written against.
	Name string

	// Row is the coefficient row over the trace columns.
	Row []float64

	// Bound is the constraint's right-hand side.
	Bound float64
}

// Equal returns whether a LinearPredicate is equal to another. It will return
// false if anything besides a LinearPredicate is passed in.
func (lp LinearPredicate) Equal(o any) bool {
	other, ok := o.(LinearPredicate)
	if !ok {
		otherPtr, ok := o.(*LinearPredicate)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if lp.Name != other.Name {
		return false
	}
	if lp.Bound != other.Bound {
		return false
	}
	if len(lp.Row) != len(other.Row) {
		return false
	}
	for i := range lp.Row {
		if lp.Row[i] != other.Row[i] {
			return false
		}
	}

	return true
}

// LinearSpec is a formula compiled for the dense-time linear-constraint
// target: a flattened predicate table in left-to-right encounter order, plus
// the operator skeleton referencing the table by index.
type LinearSpec struct {
	// Columns is one signal name per trace column, ordered by column index.
	Columns []string

	// Predicates is the compiled predicate table.
	Predicates []LinearPredicate

	// Root is the operator skeleton. It is nil only for an empty formula.
	Root *OpTree
}

// TranslateLinear compiles a formula for the dense-time linear-constraint
// target. Each comparison predicate becomes a one-hot coefficient row over
// the declared columns, normalized to the form Row . step <= Bound; a bare
// bool predicate emits its declaration's predefined row and bound.
//
// Bindings are checked here even if Validate was already run, so an unbound
// or misused name can never silently produce a constraint.
func TranslateLinear(ast syntax.AST, decls Decls) (LinearSpec, error) {
	spec := LinearSpec{Columns: decls.ColumnNames()}
	if ast.Root == nil {
		return spec, nil
	}

	tr := linearTranslator{decls: decls}

	root, err := tr.walk(ast.Root)
	if err != nil {
		return LinearSpec{}, err
	}

	spec.Predicates = tr.preds
	spec.Root = root
	return spec, nil
}

type linearTranslator struct {
	decls Decls
	preds []LinearPredicate
}

func (tr *linearTranslator) walk(n syntax.Node) (*OpTree, error) {
	switch n.Type() {
	case syntax.ASTPredicate:
		return tr.pred(n.AsPredicateNode())
	case syntax.ASTNot:
		return tr.unary(OpNot, nil, n.AsNotNode().Operand, n.Source())
	case syntax.ASTAnd:
		nd := n.AsAndNode()
		return tr.binary(OpAnd, nil, nd.Left, nd.Right, n.Source())
	case syntax.ASTOr:
		nd := n.AsOrNode()
		return tr.binary(OpOr, nil, nd.Left, nd.Right, n.Source())
	case syntax.ASTImplies:
		nd := n.AsImpliesNode()
		return tr.binary(OpImplies, nil, nd.Left, nd.Right, n.Source())
	case syntax.ASTEquiv:
		nd := n.AsEquivNode()
		return tr.binary(OpEquiv, nil, nd.Left, nd.Right, n.Source())
	case syntax.ASTNext:
		return nil, UnsupportedOperatorError{
			Op:     "X",
			Target: TargetLinear,
			Line:   n.Source().Line,
			Pos:    n.Source().Pos,
		}
	case syntax.ASTFuture:
		nd := n.AsFutureNode()
		return tr.unary(OpFuture, nd.Interval, nd.Operand, n.Source())
	case syntax.ASTGlobally:
		nd := n.AsGloballyNode()
		return tr.unary(OpGlobally, nd.Interval, nd.Operand, n.Source())
	case syntax.ASTUntil:
		nd := n.AsUntilNode()
		return tr.binary(OpUntil, nd.Interval, nd.Left, nd.Right, n.Source())
	case syntax.ASTRelease:
		nd := n.AsReleaseNode()
		return tr.binary(OpRelease, nd.Interval, nd.Left, nd.Right, n.Source())
	default:
		return nil, fmt.Errorf("unknown formula node type %v", n.Type())
	}
}

func (tr *linearTranslator) unary(kind OpKind, iv *syntax.Interval, operand syntax.Node, src syntax.Token) (*OpTree, error) {
	if err := checkWindow(iv, src); err != nil {
		return nil, err
	}

	child, err := tr.walk(operand)
	if err != nil {
		return nil, err
	}

	return &OpTree{Kind: kind, Interval: iv, Left: child}, nil
}

func (tr *linearTranslator) binary(kind OpKind, iv *syntax.Interval, left, right syntax.Node, src syntax.Token) (*OpTree, error) {
	if err := checkWindow(iv, src); err != nil {
		return nil, err
	}

	leftTree, err := tr.walk(left)
	if err != nil {
		return nil, err
	}
	rightTree, err := tr.walk(right)
	if err != nil {
		return nil, err
	}

	return &OpTree{Kind: kind, Interval: iv, Left: leftTree, Right: rightTree}, nil
}

// pred compiles one predicate leaf and appends it to the table. The
// constraint is normalized so satisfaction is always Row . step <= Bound:
// 'x <= c' keeps its sign, 'x >= c' is emitted as '-x <= -c', and a leading
// minus on the name flips the coefficient.
func (tr *linearTranslator) pred(p syntax.PredicateNode) (*OpTree, error) {
	b, ok := tr.decls.Get(p.Name)
	if !ok {
		return nil, UndeclaredVariableError{
			Name: p.Name,
			Line: p.Source().Line,
			Pos:  p.Source().Pos,
		}
	}

	var lp LinearPredicate
	lp.Name = p.Name

	if !p.Comparison {
		if b.DType != Bool {
			return nil, TypeMismatchError{
				Name:    p.Name,
				DType:   b.DType,
				Message: "used as a bare predicate",
				Line:    p.Source().Line,
				Pos:     p.Source().Pos,
			}
		}
		if b.Row == nil || b.Bound == nil {
			return nil, TypeMismatchError{
				Name:    p.Name,
				DType:   b.DType,
				Message: "used as a bare predicate with no predefined linear constraint",
				Line:    p.Source().Line,
				Pos:     p.Source().Pos,
			}
		}
		if len(b.Row) != tr.decls.Width() {
			return nil, fmt.Errorf("predefined row for %q spans %d columns; declarations span %d", p.Name, len(b.Row), tr.decls.Width())
		}

		lp.Row = make([]float64, len(b.Row))
		copy(lp.Row, b.Row)
		lp.Bound = *b.Bound
	} else {
		if b.DType != Float {
			return nil, TypeMismatchError{
				Name:    p.Name,
				DType:   b.DType,
				Message: "compared against a threshold",
				Line:    p.Source().Line,
				Pos:     p.Source().Pos,
			}
		}
		if p.Op.Strict() {
			return nil, UnsupportedOperatorError{
				Op:     p.Op.String(),
				Target: TargetLinear,
				Line:   p.Source().Line,
				Pos:    p.Source().Pos,
			}
		}

		var coef, bound float64
		switch p.Op {
		case syntax.OpLessEq:
			coef = 1
			bound = p.Threshold
		case syntax.OpGreaterEq:
			coef = -1
			bound = -p.Threshold
		}
		if p.NegatedName {
			coef = -coef
		}

		lp.Row = make([]float64, tr.decls.Width())
		lp.Row[b.Column] = coef
		lp.Bound = bound
	}

	idx := len(tr.preds)
	tr.preds = append(tr.preds, lp)

	return &OpTree{Kind: OpPred, Pred: idx}, nil
}

func checkWindow(iv *syntax.Interval, src syntax.Token) error {
	if iv == nil || iv.WellOrdered() {
		return nil
	}

	return InvalidIntervalError{
		Interval: *iv,
		Line:     src.Line,
		Pos:      src.Pos,
	}
}

// MarshalBinary converts the spec to a slice of bytes suitable for storage.
func (s LinearSpec) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.EncInt(len(s.Columns))...)
	for _, col := range s.Columns {
		enc = append(enc, rezi.EncString(col)...)
	}

	enc = append(enc, rezi.EncInt(len(s.Predicates))...)
	for _, p := range s.Predicates {
		enc = append(enc, rezi.EncString(p.Name)...)
		enc = append(enc, rezi.EncInt(len(p.Row))...)
		for _, v := range p.Row {
			enc = append(enc, encFloat(v)...)
		}
		enc = append(enc, encFloat(p.Bound)...)
	}

	enc = append(enc, encOpTree(s.Root)...)

	return enc, nil
}

// UnmarshalBinary replaces the contents of the spec with the one encoded in
// data, which must have been produced by MarshalBinary.
func (s *LinearSpec) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	var colCount int
	colCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("column count: %w", err)
	}
	data = data[n:]

	s.Columns = nil
	for i := 0; i < colCount; i++ {
		var col string
		col, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
		data = data[n:]
		s.Columns = append(s.Columns, col)
	}

	var predCount int
	predCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("predicate count: %w", err)
	}
	data = data[n:]

	s.Predicates = nil
	for i := 0; i < predCount; i++ {
		var p LinearPredicate

		p.Name, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("predicate %d name: %w", i, err)
		}
		data = data[n:]

		var rowLen int
		rowLen, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("predicate %d row length: %w", i, err)
		}
		data = data[n:]

		for j := 0; j < rowLen; j++ {
			var v float64
			v, n, err = decFloat(data)
			if err != nil {
				return fmt.Errorf("predicate %d row: %w", i, err)
			}
			data = data[n:]
			p.Row = append(p.Row, v)
		}

		p.Bound, n, err = decFloat(data)
		if err != nil {
			return fmt.Errorf("predicate %d bound: %w", i, err)
		}
		data = data[n:]

		s.Predicates = append(s.Predicates, p)
	}

	s.Root, _, err = decOpTree(data)
	if err != nil {
		return fmt.Errorf("operator tree: %w", err)
	}

	return nil
}

func encOpTree(t *OpTree) []byte {
	enc := rezi.EncBool(t != nil)
	if t == nil {
		return enc
	}

	enc = append(enc, rezi.EncInt(int(t.Kind))...)
	enc = append(enc, rezi.EncInt(t.Pred)...)
	enc = append(enc, encInterval(t.Interval)...)
	enc = append(enc, encOpTree(t.Left)...)
	enc = append(enc, encOpTree(t.Right)...)

	return enc
}

func decOpTree(data []byte) (*OpTree, int, error) {
	var readBytes int

	present, n, err := rezi.DecBool(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node presence: %w", err)
	}
	readBytes += n
	data = data[n:]

	if !present {
		return nil, readBytes, nil
	}

	var t OpTree

	kind, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node kind: %w", err)
	}
	t.Kind = OpKind(kind)
	readBytes += n
	data = data[n:]

	t.Pred, n, err = rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node predicate index: %w", err)
	}
	readBytes += n
	data = data[n:]

	t.Interval, n, err = decInterval(data)
	if err != nil {
		return nil, 0, err
	}
	readBytes += n
	data = data[n:]

	t.Left, n, err = decOpTree(data)
	if err != nil {
		return nil, 0, err
	}
	readBytes += n
	data = data[n:]

	t.Right, n, err = decOpTree(data)
	if err != nil {
		return nil, 0, err
	}
	readBytes += n

	return &t, readBytes, nil
}
