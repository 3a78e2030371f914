package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// File ast.go contains the formula AST produced by Parse. The AST is a closed
// tagged union with one variant per operator plus the atomic predicate. Every
// sub-formula is a fully-owned, acyclic tree with no shared or back
// references, so a built AST may be freely shared read-only across goroutines
// without synchronization.

// AST is a complete parsed STL formula.
type AST struct {
	Root Node
}

const (
	astTreeLevelEmpty               = "        "
	astTreeLevelOngoing             = "  |     "
	astTreeLevelPrefix              = "  |%s: "
	astTreeLevelPrefixLast          = `  \%s: `
	astTreeLevelPrefixNamePadChar   = '-'
	astTreeLevelPrefixNamePadAmount = 3
)

func makeASTTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < astTreeLevelPrefixNamePadAmount {
		msg = string(astTreeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(astTreeLevelPrefix, msg)
}

func makeASTTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < astTreeLevelPrefixNamePadAmount {
		msg = string(astTreeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(astTreeLevelPrefixLast, msg)
}

// String returns a prettified representation of the entire AST suitable for
// use in line-by-line comparisons of tree structure. Two ASTs are considered
// structurally identical if they produce identical String() output.
func (ast AST) String() string {
	var sb strings.Builder

	sb.WriteString("(AST)\n")

	if ast.Root != nil {
		sb.WriteString(ast.Root.leveledStr(makeASTTreeLevelPrefixLast(""), astTreeLevelEmpty))
	}

	return sb.String()
}

// Equal returns whether the AST is structurally identical to another AST (or
// *AST). Source tokens are not considered.
func (ast AST) Equal(o any) bool {
	other, ok := o.(AST)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*AST)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if (ast.Root == nil) != (other.Root == nil) {
		return false
	}
	if ast.Root == nil {
		return true
	}

	return ast.Root.Equal(other.Root)
}

// STLString returns canonical requirement text that, when parsed, produces a
// structurally identical AST. Every binary operator is parenthesized and
// operator synonyms are rendered with their symbolic spelling, so the output
// is stable regardless of which spellings the original text used.
func (ast AST) STLString() string {
	if ast.Root == nil {
		return ""
	}
	return ast.Root.STLString()
}

// NodeType identifies the variant of a Node.
type NodeType int

const (
	ASTPredicate NodeType = iota
	ASTNot
	ASTAnd
	ASTOr
	ASTImplies
	ASTEquiv
	ASTNext
	ASTFuture
	ASTGlobally
	ASTUntil
	ASTRelease
)

func (nt NodeType) String() string {
	switch nt {
	case ASTPredicate:
		return "PREDICATE"
	case ASTNot:
		return "NOT"
	case ASTAnd:
		return "AND"
	case ASTOr:
		return "OR"
	case ASTImplies:
		return "IMPLIES"
	case ASTEquiv:
		return "EQUIV"
	case ASTNext:
		return "NEXT"
	case ASTFuture:
		return "FUTURE"
	case ASTGlobally:
		return "GLOBALLY"
	case ASTUntil:
		return "UNTIL"
	case ASTRelease:
		return "RELEASE"
	default:
		return fmt.Sprintf("NodeType(%d)", int(nt))
	}
}

// Node is a single node of a formula AST. Call Type() to find out the variant
// and then the matching As*Node() function to get the concrete value; calling
// any other As*Node() panics.
type Node interface {
	Type() NodeType
	AsPredicateNode() PredicateNode
	AsNotNode() NotNode
	AsAndNode() AndNode
	AsOrNode() OrNode
	AsImpliesNode() ImpliesNode
	AsEquivNode() EquivNode
	AsNextNode() NextNode
	AsFutureNode() FutureNode
	AsGloballyNode() GloballyNode
	AsUntilNode() UntilNode
	AsReleaseNode() ReleaseNode

	// Source is the first token from source text that was lexed as part of
	// this node.
	Source() Token

	// String returns the leveled string representation of the node.
	String() string

	// STLString returns requirement text that would be parsed as an identical
	// node (with perhaps a slightly different value returned for Source()).
	STLString() string

	// Equal returns whether a node is equal to another. It will return false
	// if anything besides a Node is passed in.
	Equal(o any) bool

	leveledStr(firstPrefix, contPrefix string) string
}

// RelOp is a relational operator used to compare a signal against a constant
// threshold in a predicate.
type RelOp int

const (
	OpLess RelOp = iota
	OpGreater
	OpLessEq
	OpGreaterEq
)

func (op RelOp) String() string {
	switch op {
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEq:
		return "<="
	case OpGreaterEq:
		return ">="
	default:
		return fmt.Sprintf("RelOp(%d)", int(op))
	}
}

// Strict returns whether the operator excludes the threshold value itself.
func (op RelOp) Strict() bool {
	return op == OpLess || op == OpGreater
}

// ParseRelOp converts relational operator text to a RelOp.
func ParseRelOp(s string) (RelOp, error) {
	switch s {
	case "<":
		return OpLess, nil
	case ">":
		return OpGreater, nil
	case "<=":
		return OpLessEq, nil
	case ">=":
		return OpGreaterEq, nil
	default:
		return OpLess, fmt.Errorf("not a relational operator: %q", s)
	}
}

func formatThreshold(v float64) string {
	// 'f' keeps large and tiny values in plain decimal form; the lexer has no
	// exponent spelling, so 'g' output would not re-lex.
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PredicateNode is an atomic proposition over a single named signal. If
// Comparison is set, the signal is compared against Threshold with Op; if
// not, the predicate is the boolean signal named Name and Op and Threshold
// are meaningless. NegatedName records a leading minus on the signal name,
// which is distinct from a negative Threshold.
type PredicateNode struct {
	Name        string
	NegatedName bool
	Comparison  bool
	Op          RelOp
	Threshold   float64

	src Token
}

func (n PredicateNode) Type() NodeType                 { return ASTPredicate }
func (n PredicateNode) AsPredicateNode() PredicateNode { return n }
func (n PredicateNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n PredicateNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n PredicateNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n PredicateNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n PredicateNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n PredicateNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n PredicateNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n PredicateNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n PredicateNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n PredicateNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n PredicateNode) Source() Token                  { return n.src }

func (n PredicateNode) STLString() string {
	if !n.Comparison {
		return n.Name
	}

	name := n.Name
	if n.NegatedName {
		name = "-" + name
	}
	return name + " " + n.Op.String() + " " + formatThreshold(n.Threshold)
}

func (n PredicateNode) String() string {
	return n.leveledStr("", "")
}

func (n PredicateNode) leveledStr(firstPrefix, contPrefix string) string {
	return firstPrefix + fmt.Sprintf("(PREDICATE %q)", n.STLString())
}

// Does not consider Source.
func (n PredicateNode) Equal(o any) bool {
	other, ok := o.(PredicateNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*PredicateNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if n.Name != other.Name {
		return false
	}
	if n.NegatedName != other.NegatedName {
		return false
	}
	if n.Comparison != other.Comparison {
		return false
	}
	if n.Comparison && (n.Op != other.Op || n.Threshold != other.Threshold) {
		return false
	}

	return true
}

// NotNode is the logical negation of its operand.
type NotNode struct {
	Operand Node

	src Token
}

func (n NotNode) Type() NodeType                 { return ASTNot }
func (n NotNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n NotNode) AsNotNode() NotNode             { return n }
func (n NotNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n NotNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n NotNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n NotNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n NotNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n NotNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n NotNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n NotNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n NotNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n NotNode) Source() Token                  { return n.src }

func (n NotNode) STLString() string {
	return "!" + prefixOperandSTLString(n.Operand)
}

func (n NotNode) String() string {
	return n.leveledStr("", "")
}

func (n NotNode) leveledStr(firstPrefix, contPrefix string) string {
	return prefixLeveledStr("(NOT)", n.Operand, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n NotNode) Equal(o any) bool {
	other, ok := o.(NotNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*NotNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return equalChild(n.Operand, other.Operand)
}

// AndNode is the conjunction of its operands.
type AndNode struct {
	Left  Node
	Right Node

	src Token
}

func (n AndNode) Type() NodeType                 { return ASTAnd }
func (n AndNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n AndNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n AndNode) AsAndNode() AndNode             { return n }
func (n AndNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n AndNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n AndNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n AndNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n AndNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n AndNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n AndNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n AndNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n AndNode) Source() Token                  { return n.src }

func (n AndNode) STLString() string {
	return binarySTLString(n.Left, `/\`, n.Right, nil)
}

func (n AndNode) String() string {
	return n.leveledStr("", "")
}

func (n AndNode) leveledStr(firstPrefix, contPrefix string) string {
	return binaryLeveledStr("(AND)", n.Left, n.Right, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n AndNode) Equal(o any) bool {
	other, ok := o.(AndNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*AndNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return equalChild(n.Left, other.Left) && equalChild(n.Right, other.Right)
}

// OrNode is the disjunction of its operands.
type OrNode struct {
	Left  Node
	Right Node

	src Token
}

func (n OrNode) Type() NodeType                 { return ASTOr }
func (n OrNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n OrNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n OrNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n OrNode) AsOrNode() OrNode               { return n }
func (n OrNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n OrNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n OrNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n OrNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n OrNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n OrNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n OrNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n OrNode) Source() Token                  { return n.src }

func (n OrNode) STLString() string {
	return binarySTLString(n.Left, `\/`, n.Right, nil)
}

func (n OrNode) String() string {
	return n.leveledStr("", "")
}

func (n OrNode) leveledStr(firstPrefix, contPrefix string) string {
	return binaryLeveledStr("(OR)", n.Left, n.Right, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n OrNode) Equal(o any) bool {
	other, ok := o.(OrNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*OrNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return equalChild(n.Left, other.Left) && equalChild(n.Right, other.Right)
}

// ImpliesNode is material implication; it is satisfied unless its left
// operand holds and its right operand does not.
type ImpliesNode struct {
	Left  Node
	Right Node

	src Token
}

func (n ImpliesNode) Type() NodeType                 { return ASTImplies }
func (n ImpliesNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n ImpliesNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n ImpliesNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n ImpliesNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n ImpliesNode) AsImpliesNode() ImpliesNode     { return n }
func (n ImpliesNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n ImpliesNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n ImpliesNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n ImpliesNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n ImpliesNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n ImpliesNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n ImpliesNode) Source() Token                  { return n.src }

func (n ImpliesNode) STLString() string {
	return binarySTLString(n.Left, "->", n.Right, nil)
}

func (n ImpliesNode) String() string {
	return n.leveledStr("", "")
}

func (n ImpliesNode) leveledStr(firstPrefix, contPrefix string) string {
	return binaryLeveledStr("(IMPLIES)", n.Left, n.Right, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n ImpliesNode) Equal(o any) bool {
	other, ok := o.(ImpliesNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*ImpliesNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return equalChild(n.Left, other.Left) && equalChild(n.Right, other.Right)
}

// EquivNode is the biconditional; it is satisfied when both operands hold or
// neither does.
type EquivNode struct {
	Left  Node
	Right Node

	src Token
}

func (n EquivNode) Type() NodeType                 { return ASTEquiv }
func (n EquivNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n EquivNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n EquivNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n EquivNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n EquivNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n EquivNode) AsEquivNode() EquivNode         { return n }
func (n EquivNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n EquivNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n EquivNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n EquivNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n EquivNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n EquivNode) Source() Token                  { return n.src }

func (n EquivNode) STLString() string {
	return binarySTLString(n.Left, "<->", n.Right, nil)
}

func (n EquivNode) String() string {
	return n.leveledStr("", "")
}

func (n EquivNode) leveledStr(firstPrefix, contPrefix string) string {
	return binaryLeveledStr("(EQUIV)", n.Left, n.Right, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n EquivNode) Equal(o any) bool {
	other, ok := o.(EquivNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*EquivNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return equalChild(n.Left, other.Left) && equalChild(n.Right, other.Right)
}

// NextNode requires its operand to hold at the next discrete time step. The
// Interval is optional and nil denotes no window restriction. Next has no
// meaning under dense-time semantics and is rejected when translating for a
// dense-time target.
type NextNode struct {
	Interval *Interval
	Operand  Node

	src Token
}

func (n NextNode) Type() NodeType                 { return ASTNext }
func (n NextNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n NextNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n NextNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n NextNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n NextNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n NextNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n NextNode) AsNextNode() NextNode           { return n }
func (n NextNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n NextNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n NextNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n NextNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n NextNode) Source() Token                  { return n.src }

func (n NextNode) STLString() string {
	return "X" + intervalSuffix(n.Interval) + prefixOperandSTLString(n.Operand)
}

func (n NextNode) String() string {
	return n.leveledStr("", "")
}

func (n NextNode) leveledStr(firstPrefix, contPrefix string) string {
	return prefixLeveledStr(temporalLabel("NEXT", n.Interval), n.Operand, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n NextNode) Equal(o any) bool {
	other, ok := o.(NextNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*NextNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !equalIntervalPtrs(n.Interval, other.Interval) {
		return false
	}

	return equalChild(n.Operand, other.Operand)
}

// FutureNode requires its operand to hold at some time in the (optionally
// windowed) future.
type FutureNode struct {
	Interval *Interval
	Operand  Node

	src Token
}

func (n FutureNode) Type() NodeType                 { return ASTFuture }
func (n FutureNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n FutureNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n FutureNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n FutureNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n FutureNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n FutureNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n FutureNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n FutureNode) AsFutureNode() FutureNode       { return n }
func (n FutureNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n FutureNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n FutureNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n FutureNode) Source() Token                  { return n.src }

func (n FutureNode) STLString() string {
	return "<>" + intervalSuffix(n.Interval) + prefixOperandSTLString(n.Operand)
}

func (n FutureNode) String() string {
	return n.leveledStr("", "")
}

func (n FutureNode) leveledStr(firstPrefix, contPrefix string) string {
	return prefixLeveledStr(temporalLabel("FUTURE", n.Interval), n.Operand, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n FutureNode) Equal(o any) bool {
	other, ok := o.(FutureNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*FutureNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !equalIntervalPtrs(n.Interval, other.Interval) {
		return false
	}

	return equalChild(n.Operand, other.Operand)
}

// GloballyNode requires its operand to hold at every time in the (optionally
// windowed) future.
type GloballyNode struct {
	Interval *Interval
	Operand  Node

	src Token
}

func (n GloballyNode) Type() NodeType                 { return ASTGlobally }
func (n GloballyNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n GloballyNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n GloballyNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n GloballyNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n GloballyNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n GloballyNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n GloballyNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n GloballyNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n GloballyNode) AsGloballyNode() GloballyNode   { return n }
func (n GloballyNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n GloballyNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n GloballyNode) Source() Token                  { return n.src }

func (n GloballyNode) STLString() string {
	return "[]" + intervalSuffix(n.Interval) + prefixOperandSTLString(n.Operand)
}

func (n GloballyNode) String() string {
	return n.leveledStr("", "")
}

func (n GloballyNode) leveledStr(firstPrefix, contPrefix string) string {
	return prefixLeveledStr(temporalLabel("GLOBALLY", n.Interval), n.Operand, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n GloballyNode) Equal(o any) bool {
	other, ok := o.(GloballyNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*GloballyNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !equalIntervalPtrs(n.Interval, other.Interval) {
		return false
	}

	return equalChild(n.Operand, other.Operand)
}

// UntilNode requires its right operand to hold at some time in the
// (optionally windowed) future, with the left operand holding at every moment
// before that.
type UntilNode struct {
	Interval *Interval
	Left     Node
	Right    Node

	src Token
}

func (n UntilNode) Type() NodeType                 { return ASTUntil }
func (n UntilNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n UntilNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n UntilNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n UntilNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n UntilNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n UntilNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n UntilNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n UntilNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n UntilNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n UntilNode) AsUntilNode() UntilNode         { return n }
func (n UntilNode) AsReleaseNode() ReleaseNode     { panic("Type() is not ASTRelease") }
func (n UntilNode) Source() Token                  { return n.src }

func (n UntilNode) STLString() string {
	return binarySTLString(n.Left, "U", n.Right, n.Interval)
}

func (n UntilNode) String() string {
	return n.leveledStr("", "")
}

func (n UntilNode) leveledStr(firstPrefix, contPrefix string) string {
	return binaryLeveledStr(temporalLabel("UNTIL", n.Interval), n.Left, n.Right, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n UntilNode) Equal(o any) bool {
	other, ok := o.(UntilNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*UntilNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !equalIntervalPtrs(n.Interval, other.Interval) {
		return false
	}

	return equalChild(n.Left, other.Left) && equalChild(n.Right, other.Right)
}

// ReleaseNode is the dual of until: the right operand must hold up to and
// including the moment the left operand first holds; if the left operand
// never holds, the right must hold forever (within the optional window).
type ReleaseNode struct {
	Interval *Interval
	Left     Node
	Right    Node

	src Token
}

func (n ReleaseNode) Type() NodeType                 { return ASTRelease }
func (n ReleaseNode) AsPredicateNode() PredicateNode { panic("Type() is not ASTPredicate") }
func (n ReleaseNode) AsNotNode() NotNode             { panic("Type() is not ASTNot") }
func (n ReleaseNode) AsAndNode() AndNode             { panic("Type() is not ASTAnd") }
func (n ReleaseNode) AsOrNode() OrNode               { panic("Type() is not ASTOr") }
func (n ReleaseNode) AsImpliesNode() ImpliesNode     { panic("Type() is not ASTImplies") }
func (n ReleaseNode) AsEquivNode() EquivNode         { panic("Type() is not ASTEquiv") }
func (n ReleaseNode) AsNextNode() NextNode           { panic("Type() is not ASTNext") }
func (n ReleaseNode) AsFutureNode() FutureNode       { panic("Type() is not ASTFuture") }
func (n ReleaseNode) AsGloballyNode() GloballyNode   { panic("Type() is not ASTGlobally") }
func (n ReleaseNode) AsUntilNode() UntilNode         { panic("Type() is not ASTUntil") }
func (n ReleaseNode) AsReleaseNode() ReleaseNode     { return n }
func (n ReleaseNode) Source() Token                  { return n.src }

func (n ReleaseNode) STLString() string {
	return binarySTLString(n.Left, "R", n.Right, n.Interval)
}

func (n ReleaseNode) String() string {
	return n.leveledStr("", "")
}

func (n ReleaseNode) leveledStr(firstPrefix, contPrefix string) string {
	return binaryLeveledStr(temporalLabel("RELEASE", n.Interval), n.Left, n.Right, firstPrefix, contPrefix)
}

// Does not consider Source.
func (n ReleaseNode) Equal(o any) bool {
	other, ok := o.(ReleaseNode)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*ReleaseNode)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !equalIntervalPtrs(n.Interval, other.Interval) {
		return false
	}

	return equalChild(n.Left, other.Left) && equalChild(n.Right, other.Right)
}

func equalChild(a, b Node) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Equal(b)
}

func temporalLabel(name string, iv *Interval) string {
	if iv == nil {
		return "(" + name + ")"
	}
	return "(" + name + " " + iv.String() + ")"
}

func intervalSuffix(iv *Interval) string {
	if iv == nil {
		return ""
	}
	return iv.String()
}

// prefixOperandSTLString renders the operand of a prefix operator, wrapping
// it in parentheses unless it is a bare predicate, so that the output always
// re-parses to the same tree.
func prefixOperandSTLString(operand Node) string {
	if operand.Type() == ASTPredicate {
		return " " + operand.STLString()
	}
	return " (" + operand.STLString() + ")"
}

// binarySTLString renders a fully-parenthesized binary operator application,
// with the operator's interval (if any) attached directly to the operator
// symbol.
func binarySTLString(left Node, op string, right Node, iv *Interval) string {
	return "(" + left.STLString() + " " + op + intervalSuffix(iv) + " " + right.STLString() + ")"
}

func prefixLeveledStr(label string, operand Node, firstPrefix, contPrefix string) string {
	fullStr := firstPrefix + label

	leveledFirst := contPrefix + makeASTTreeLevelPrefixLast("")
	leveledCont := contPrefix + astTreeLevelEmpty

	operandOut := operand.leveledStr(leveledFirst, leveledCont)

	if len(operandOut) > 0 {
		fullStr += "\n" + operandOut
	}

	return fullStr
}

func binaryLeveledStr(label string, left, right Node, firstPrefix, contPrefix string) string {
	fullStr := firstPrefix + label

	leftFirst := contPrefix + makeASTTreeLevelPrefix("L")
	leftCont := contPrefix + astTreeLevelOngoing
	rightFirst := contPrefix + makeASTTreeLevelPrefixLast("R")
	rightCont := contPrefix + astTreeLevelEmpty

	leftOut := left.leveledStr(leftFirst, leftCont)
	rightOut := right.leveledStr(rightFirst, rightCont)

	if len(leftOut) > 0 {
		fullStr += "\n" + leftOut
	}
	if len(rightOut) > 0 {
		fullStr += "\n" + rightOut
	}

	return fullStr
}
