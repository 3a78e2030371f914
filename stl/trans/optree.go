package trans

import (
	"fmt"

	"github.com/dekarrin/stlspec/stl/syntax"
)

// OpKind identifies the operator at a node of a translated formula tree.
type OpKind int

const (
	OpPred OpKind = iota
	OpNot
	OpAnd
	OpOr
	OpImplies
	OpEquiv
	OpNext
	OpFuture
	OpGlobally
	OpUntil
	OpRelease
)

func (k OpKind) String() string {
	switch k {
	case OpPred:
		return "PRED"
	case OpNot:
		return "NOT"
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpImplies:
		return "IMPLIES"
	case OpEquiv:
		return "EQUIV"
	case OpNext:
		return "NEXT"
	case OpFuture:
		return "FUTURE"
	case OpGlobally:
		return "GLOBALLY"
	case OpUntil:
		return "UNTIL"
	case OpRelease:
		return "RELEASE"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// OpTree is the operator skeleton of a formula compiled for the linear
// target. Predicate leaves are replaced by indices into the compiled
// predicate table; unary operators use only the Left child.
type OpTree struct {
	Kind OpKind

	// Pred is the index into LinearSpec.Predicates; it is meaningless unless
	// Kind is OpPred.
	Pred int

	// Interval is the temporal operator's time window, or nil for untimed
	// operators.
	Interval *syntax.Interval

	Left  *OpTree
	Right *OpTree
}

func (t *OpTree) String() string {
	if t == nil {
		return "<nil>"
	}

	if t.Kind == OpPred {
		return fmt.Sprintf("(PRED %d)", t.Pred)
	}

	label := t.Kind.String()
	if t.Interval != nil {
		label += " " + t.Interval.String()
	}

	if t.Right == nil {
		return fmt.Sprintf("(%s %s)", label, t.Left.String())
	}
	return fmt.Sprintf("(%s %s %s)", label, t.Left.String(), t.Right.String())
}

// Equal returns whether an OpTree is structurally equal to another. It will
// return false if anything besides an *OpTree is passed in.
func (t *OpTree) Equal(o any) bool {
	other, ok := o.(*OpTree)
	if !ok {
		return false
	}

	if t == nil || other == nil {
		return t == other
	}

	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == OpPred && t.Pred != other.Pred {
		return false
	}
	if (t.Interval == nil) != (other.Interval == nil) {
		return false
	}
	if t.Interval != nil && !t.Interval.Equal(*other.Interval) {
		return false
	}

	return t.Left.Equal(other.Left) && t.Right.Equal(other.Right)
}
