package trans

import (
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/stlspec/stl/syntax"
)

// ResolvedNode is one node of a formula compiled for the discrete-time tree
// target. It mirrors the source AST but predicate leaves carry resolved trace
// column indices instead of signal names; unary operators use only the Left
// child.
type ResolvedNode struct {
	Kind OpKind

	// Column is the trace column of a predicate leaf; it is meaningless
	// unless Kind is OpPred.
	Column int

	// NegatedName, Comparison, Op, and Threshold carry the predicate's
	// comparison, when Kind is OpPred. They mean the same as the fields of
	// syntax.PredicateNode.
	NegatedName bool
	Comparison  bool
	Op          syntax.RelOp
	Threshold   float64

	// Interval is the temporal operator's time window, or nil for untimed
	// operators.
	Interval *syntax.Interval

	Left  *ResolvedNode
	Right *ResolvedNode
}

// Equal returns whether a ResolvedNode is structurally equal to another. It
// will return false if anything besides a *ResolvedNode is passed in.
func (rn *ResolvedNode) Equal(o any) bool {
	other, ok := o.(*ResolvedNode)
	if !ok {
		return false
	}

	if rn == nil || other == nil {
		return rn == other
	}

	if rn.Kind != other.Kind {
		return false
	}
	if rn.Kind == OpPred {
		if rn.Column != other.Column {
			return false
		}
		if rn.NegatedName != other.NegatedName {
			return false
		}
		if rn.Comparison != other.Comparison {
			return false
		}
		if rn.Comparison && (rn.Op != other.Op || rn.Threshold != other.Threshold) {
			return false
		}
	}
	if (rn.Interval == nil) != (other.Interval == nil) {
		return false
	}
	if rn.Interval != nil && !rn.Interval.Equal(*other.Interval) {
		return false
	}

	return rn.Left.Equal(other.Left) && rn.Right.Equal(other.Right)
}

// TreeSpec is a formula compiled for the discrete-time tree-walking target:
// the operator tree with signal names resolved to trace columns, plus the
// declaration table the resolution used.
type TreeSpec struct {
	// Decls is the declaration table, in declaration order.
	Decls []Binding

	// Root is the resolved operator tree. It is nil only for an empty
	// formula.
	Root *ResolvedNode
}

// TranslateTree compiles a formula for the discrete-time tree-walking target.
// The operator tree is kept intact; every predicate's name is replaced with
// its declared trace column.
//
// Bindings are checked here even if Validate was already run, so an unbound
// or misused name can never silently resolve.
func TranslateTree(ast syntax.AST, decls Decls) (TreeSpec, error) {
	spec := TreeSpec{Decls: decls.Bindings()}
	if ast.Root == nil {
		return spec, nil
	}

	root, err := resolveNode(ast.Root, decls)
	if err != nil {
		return TreeSpec{}, err
	}

	spec.Root = root
	return spec, nil
}

func resolveNode(n syntax.Node, decls Decls) (*ResolvedNode, error) {
	switch n.Type() {
	case syntax.ASTPredicate:
		return resolvePred(n.AsPredicateNode(), decls)
	case syntax.ASTNot:
		return resolveUnary(OpNot, nil, n.AsNotNode().Operand, n.Source(), decls)
	case syntax.ASTAnd:
		nd := n.AsAndNode()
		return resolveBinary(OpAnd, nil, nd.Left, nd.Right, n.Source(), decls)
	case syntax.ASTOr:
		nd := n.AsOrNode()
		return resolveBinary(OpOr, nil, nd.Left, nd.Right, n.Source(), decls)
	case syntax.ASTImplies:
		nd := n.AsImpliesNode()
		return resolveBinary(OpImplies, nil, nd.Left, nd.Right, n.Source(), decls)
	case syntax.ASTEquiv:
		nd := n.AsEquivNode()
		return resolveBinary(OpEquiv, nil, nd.Left, nd.Right, n.Source(), decls)
	case syntax.ASTNext:
		nd := n.AsNextNode()
		return resolveUnary(OpNext, nd.Interval, nd.Operand, n.Source(), decls)
	case syntax.ASTFuture:
		nd := n.AsFutureNode()
		return resolveUnary(OpFuture, nd.Interval, nd.Operand, n.Source(), decls)
	case syntax.ASTGlobally:
		nd := n.AsGloballyNode()
		return resolveUnary(OpGlobally, nd.Interval, nd.Operand, n.Source(), decls)
	case syntax.ASTUntil:
		nd := n.AsUntilNode()
		return resolveBinary(OpUntil, nd.Interval, nd.Left, nd.Right, n.Source(), decls)
	case syntax.ASTRelease:
		nd := n.AsReleaseNode()
		return resolveBinary(OpRelease, nd.Interval, nd.Left, nd.Right, n.Source(), decls)
	default:
		return nil, fmt.Errorf("unknown formula node type %v", n.Type())
	}
}

func resolveUnary(kind OpKind, iv *syntax.Interval, operand syntax.Node, src syntax.Token, decls Decls) (*ResolvedNode, error) {
	if err := checkWindow(iv, src); err != nil {
		return nil, err
	}

	child, err := resolveNode(operand, decls)
	if err != nil {
		return nil, err
	}

	return &ResolvedNode{Kind: kind, Interval: iv, Left: child}, nil
}

func resolveBinary(kind OpKind, iv *syntax.Interval, left, right syntax.Node, src syntax.Token, decls Decls) (*ResolvedNode, error) {
	if err := checkWindow(iv, src); err != nil {
		return nil, err
	}

	leftNode, err := resolveNode(left, decls)
	if err != nil {
		return nil, err
	}
	rightNode, err := resolveNode(right, decls)
	if err != nil {
		return nil, err
	}

	return &ResolvedNode{Kind: kind, Interval: iv, Left: leftNode, Right: rightNode}, nil
}

func resolvePred(p syntax.PredicateNode, decls Decls) (*ResolvedNode, error) {
	b, ok := decls.Get(p.Name)
	if !ok {
		return nil, UndeclaredVariableError{
			Name: p.Name,
			Line: p.Source().Line,
			Pos:  p.Source().Pos,
		}
	}

	if p.Comparison && b.DType != Float {
		return nil, TypeMismatchError{
			Name:    p.Name,
			DType:   b.DType,
			Message: "compared against a threshold",
			Line:    p.Source().Line,
			Pos:     p.Source().Pos,
		}
	}
	if !p.Comparison && b.DType != Bool {
		return nil, TypeMismatchError{
			Name:    p.Name,
			DType:   b.DType,
			Message: "used as a bare predicate",
			Line:    p.Source().Line,
			Pos:     p.Source().Pos,
		}
	}

	return &ResolvedNode{
		Kind:        OpPred,
		Column:      b.Column,
		NegatedName: p.NegatedName,
		Comparison:  p.Comparison,
		Op:          p.Op,
		Threshold:   p.Threshold,
	}, nil
}

// MarshalBinary converts the spec to a slice of bytes suitable for storage.
func (s TreeSpec) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.EncInt(len(s.Decls))...)
	for _, b := range s.Decls {
		enc = append(enc, rezi.EncString(b.Name)...)
		enc = append(enc, rezi.EncInt(b.Column)...)
		enc = append(enc, rezi.EncInt(int(b.DType))...)
	}

	enc = append(enc, encResolvedNode(s.Root)...)

	return enc, nil
}

// UnmarshalBinary replaces the contents of the spec with the one encoded in
// data, which must have been produced by MarshalBinary. Predefined linear
// rows on the declarations are not preserved; they are meaningless to the
// tree target.
func (s *TreeSpec) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	var declCount int
	declCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("declaration count: %w", err)
	}
	data = data[n:]

	s.Decls = nil
	for i := 0; i < declCount; i++ {
		var b Binding

		b.Name, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("declaration %d name: %w", i, err)
		}
		data = data[n:]

		b.Column, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("declaration %d column: %w", i, err)
		}
		data = data[n:]

		var dt int
		dt, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("declaration %d dtype: %w", i, err)
		}
		b.DType = DType(dt)
		data = data[n:]

		s.Decls = append(s.Decls, b)
	}

	s.Root, _, err = decResolvedNode(data)
	if err != nil {
		return fmt.Errorf("operator tree: %w", err)
	}

	return nil
}

func encResolvedNode(rn *ResolvedNode) []byte {
	enc := rezi.EncBool(rn != nil)
	if rn == nil {
		return enc
	}

	enc = append(enc, rezi.EncInt(int(rn.Kind))...)
	enc = append(enc, rezi.EncInt(rn.Column)...)
	enc = append(enc, rezi.EncBool(rn.NegatedName)...)
	enc = append(enc, rezi.EncBool(rn.Comparison)...)
	enc = append(enc, rezi.EncInt(int(rn.Op))...)
	enc = append(enc, encFloat(rn.Threshold)...)
	enc = append(enc, encInterval(rn.Interval)...)
	enc = append(enc, encResolvedNode(rn.Left)...)
	enc = append(enc, encResolvedNode(rn.Right)...)

	return enc
}

func decResolvedNode(data []byte) (*ResolvedNode, int, error) {
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

	var rn ResolvedNode

	kind, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node kind: %w", err)
	}
	rn.Kind = OpKind(kind)
	readBytes += n
	data = data[n:]

	rn.Column, n, err = rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node column: %w", err)
	}
	readBytes += n
	data = data[n:]

	rn.NegatedName, n, err = rezi.DecBool(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node negated flag: %w", err)
	}
	readBytes += n
	data = data[n:]

	rn.Comparison, n, err = rezi.DecBool(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node comparison flag: %w", err)
	}
	readBytes += n
	data = data[n:]

	op, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node relop: %w", err)
	}
	rn.Op = syntax.RelOp(op)
	readBytes += n
	data = data[n:]

	rn.Threshold, n, err = decFloat(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node threshold: %w", err)
	}
	readBytes += n
	data = data[n:]

	rn.Interval, n, err = decInterval(data)
	if err != nil {
		return nil, 0, err
	}
	readBytes += n
	data = data[n:]

	rn.Left, n, err = decResolvedNode(data)
	if err != nil {
		return nil, 0, err
	}
	readBytes += n
	data = data[n:]

	rn.Right, n, err = decResolvedNode(data)
	if err != nil {
		return nil, 0, err
	}
	readBytes += n

	return &rn, readBytes, nil
}
