package syntax

import (
	"strconv"
)

// Binding powers for infix operators, and the powers that prefix operators
// bind their operand with. Until/release bind tighter than the boolean
// connectives, and the unary temporal operators bind tighter still, with
// negation tightest of all the operators. And/or share a single tier, as do
// implies/equiv; sharing a tier with left-to-right grouping avoids silently
// meaning something other than what a mixed, unparenthesized expression
// visually suggests.
const (
	bpImpliesEquiv = 10
	bpAndOr        = 20
	bpUntilRelease = 30

	bpTemporalOperand = 40
	bpNotOperand      = 50
)

// Parse converts a stream of tokens into an AST. All tokens in the stream up
// to the end-of-text marker must be consumed by the formula or a SyntaxError
// is returned.
func Parse(ts *TokenStream) (AST, error) {
	root, err := parseFormula(ts, 0)
	if err != nil {
		return AST{}, err
	}

	if tok := ts.Next(); tok.Class != TCEndOfText {
		return AST{}, syntaxErrorFromToken("unparsed text after formula", tok)
	}

	return AST{Root: root}, nil
}

// parseFormula is the core pratt-parser loop. It parses the prefix portion of
// the formula at the current stream position, then consumes infix operators
// for as long as they bind more tightly than minPower.
func parseFormula(ts *TokenStream, minPower int) (Node, error) {
	left, err := parsePrefix(ts)
	if err != nil {
		return nil, err
	}

	for minPower < infixPower(ts.Peek()) {
		op := ts.Next()

		left, err = parseInfix(op, left, ts)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func infixPower(tok Token) int {
	switch tok.Class {
	case TCUntil, TCRelease:
		return bpUntilRelease
	case TCAnd, TCOr:
		return bpAndOr
	case TCImplies, TCEquiv:
		return bpImpliesEquiv
	default:
		return 0
	}
}

func parsePrefix(ts *TokenStream) (Node, error) {
	tok := ts.Next()

	switch tok.Class {
	case TCParenOpen:
		inner, err := parseFormula(ts, 0)
		if err != nil {
			return nil, err
		}
		if closer := ts.Next(); closer.Class != TCParenClose {
			return nil, syntaxErrorFromToken("unmatched '('; expected a ')' here", closer)
		}
		// parens group only; they leave no node of their own behind
		return inner, nil
	case TCNot:
		operand, err := parseFormula(ts, bpNotOperand)
		if err != nil {
			return nil, err
		}
		return NotNode{Operand: operand, src: tok}, nil
	case TCNext, TCFuture, TCGlobally:
		return parseUnaryTemporal(tok, ts)
	case TCMinus:
		return parsePredicate(tok, ts)
	case TCName:
		return parsePredicate(tok, ts)
	case TCEndOfText:
		return nil, syntaxErrorFromToken("formula ends too early; expected more tokens after this point", tok)
	default:
		return nil, syntaxErrorFromToken("expected the start of a formula here", tok)
	}
}

func parseInfix(op Token, left Node, ts *TokenStream) (Node, error) {
	switch op.Class {
	case TCAnd:
		right, err := parseFormula(ts, bpAndOr)
		if err != nil {
			return nil, err
		}
		return AndNode{Left: left, Right: right, src: op}, nil
	case TCOr:
		right, err := parseFormula(ts, bpAndOr)
		if err != nil {
			return nil, err
		}
		return OrNode{Left: left, Right: right, src: op}, nil
	case TCImplies:
		right, err := parseFormula(ts, bpImpliesEquiv)
		if err != nil {
			return nil, err
		}
		return ImpliesNode{Left: left, Right: right, src: op}, nil
	case TCEquiv:
		right, err := parseFormula(ts, bpImpliesEquiv)
		if err != nil {
			return nil, err
		}
		return EquivNode{Left: left, Right: right, src: op}, nil
	case TCUntil, TCRelease:
		var iv *Interval
		if startsInterval(ts) {
			parsed, err := parseInterval(ts)
			if err != nil {
				return nil, err
			}
			iv = &parsed
		}

		right, err := parseFormula(ts, bpUntilRelease)
		if err != nil {
			return nil, err
		}

		if op.Class == TCUntil {
			return UntilNode{Interval: iv, Left: left, Right: right, src: op}, nil
		}
		return ReleaseNode{Interval: iv, Left: left, Right: right, src: op}, nil
	default:
		return nil, syntaxErrorFromToken("expected an operator here", op)
	}
}

func parseUnaryTemporal(op Token, ts *TokenStream) (Node, error) {
	var iv *Interval
	if startsInterval(ts) {
		parsed, err := parseInterval(ts)
		if err != nil {
			return nil, err
		}
		iv = &parsed
	}

	operand, err := parseFormula(ts, bpTemporalOperand)
	if err != nil {
		return nil, err
	}

	switch op.Class {
	case TCNext:
		return NextNode{Interval: iv, Operand: operand, src: op}, nil
	case TCFuture:
		return FutureNode{Interval: iv, Operand: operand, src: op}, nil
	default:
		return GloballyNode{Interval: iv, Operand: operand, src: op}, nil
	}
}

// startsInterval reports whether the tokens at the current stream position
// begin a time window rather than a parenthesized sub-formula. A '(' or '['
// followed by a number or inf can only be a window, because no formula may
// begin with a bare number.
func startsInterval(ts *TokenStream) bool {
	opener := ts.Peek()
	if opener.Class != TCParenOpen && opener.Class != TCBrackOpen {
		return false
	}

	first := ts.PeekAhead(1)
	return first.Class == TCNumber || first.Class == TCInf
}

// parseInterval consumes a complete time window, preserving which of the
// bracket styles each end used. Well-orderedness of the bounds is not checked
// here.
func parseInterval(ts *TokenStream) (Interval, error) {
	var iv Interval

	opener := ts.Next()
	switch opener.Class {
	case TCBrackOpen:
		iv.LowerClosed = true
	case TCParenOpen:
		iv.LowerClosed = false
	default:
		return iv, syntaxErrorFromToken("expected a '[' or '(' to open the time window", opener)
	}

	lower, err := parseBound(ts)
	if err != nil {
		return iv, err
	}
	iv.Lower = lower

	if sep := ts.Next(); sep.Class != TCComma {
		return iv, syntaxErrorFromToken("expected a ',' between the time window bounds", sep)
	}

	upper, err := parseBound(ts)
	if err != nil {
		return iv, err
	}
	iv.Upper = upper

	closer := ts.Next()
	switch closer.Class {
	case TCBrackClose:
		iv.UpperClosed = true
	case TCParenClose:
		iv.UpperClosed = false
	default:
		return iv, syntaxErrorFromToken("expected a ']' or ')' to close the time window", closer)
	}

	return iv, nil
}

func parseBound(ts *TokenStream) (Bound, error) {
	tok := ts.Next()

	switch tok.Class {
	case TCInf:
		return Bound{Infinite: true}, nil
	case TCNumber:
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return Bound{}, syntaxErrorFromToken("not a valid number: "+err.Error(), tok)
		}
		return Bound{Value: v}, nil
	default:
		return Bound{}, syntaxErrorFromToken("expected a number or inf as a time window bound", tok)
	}
}

// parsePredicate parses an atomic proposition. first is either the name token
// itself or a leading minus, in which case a name and a comparison must
// follow; a bare name with no comparison is the boolean signal of that name.
func parsePredicate(first Token, ts *TokenStream) (Node, error) {
	pred := PredicateNode{src: first}

	nameTok := first
	if first.Class == TCMinus {
		pred.NegatedName = true
		nameTok = ts.Next()
		if nameTok.Class != TCName {
			return nil, syntaxErrorFromToken("expected a signal name after '-'", nameTok)
		}
	}
	pred.Name = nameTok.Lexeme

	next := ts.Peek()
	if next.Class == TCEqOp {
		return nil, syntaxErrorFromToken("'"+next.Lexeme+"' is reserved and cannot be used in a predicate; use <= and >= to bound the signal from both sides", next)
	}

	if next.Class != TCRelOp {
		if pred.NegatedName {
			return nil, syntaxErrorFromToken("a negated signal name must be followed by a comparison", next)
		}
		// bare boolean signal
		return pred, nil
	}

	opTok := ts.Next()
	op, err := ParseRelOp(opTok.Lexeme)
	if err != nil {
		return nil, syntaxErrorFromToken(err.Error(), opTok)
	}
	pred.Comparison = true
	pred.Op = op

	numTok := ts.Next()
	if numTok.Class != TCNumber {
		return nil, syntaxErrorFromToken("expected a number after '"+opTok.Lexeme+"'", numTok)
	}
	v, err := strconv.ParseFloat(numTok.Lexeme, 64)
	if err != nil {
		return nil, syntaxErrorFromToken("not a valid number: "+err.Error(), numTok)
	}
	pred.Threshold = v

	return pred, nil
}
