package syntax

import "fmt"

// TokenClass identifies the lexical class of a token produced by Lex.
type TokenClass int

const (
	TCEndOfText TokenClass = iota
	TCParenOpen
	TCParenClose
	TCBrackOpen
	TCBrackClose
	TCComma
	TCMinus
	TCNot
	TCRelOp
	TCEqOp
	TCNext
	TCFuture
	TCGlobally
	TCUntil
	TCRelease
	TCAnd
	TCOr
	TCImplies
	TCEquiv
	TCInf
	TCName
	TCNumber
)

func (tc TokenClass) String() string {
	switch tc {
	case TCEndOfText:
		return "end of text"
	case TCParenOpen:
		return "'('"
	case TCParenClose:
		return "')'"
	case TCBrackOpen:
		return "'['"
	case TCBrackClose:
		return "']'"
	case TCComma:
		return "','"
	case TCMinus:
		return "'-'"
	case TCNot:
		return "negation operator"
	case TCRelOp:
		return "relational operator"
	case TCEqOp:
		return "equality operator"
	case TCNext:
		return "next operator"
	case TCFuture:
		return "future operator"
	case TCGlobally:
		return "globally operator"
	case TCUntil:
		return "until operator"
	case TCRelease:
		return "release operator"
	case TCAnd:
		return "and operator"
	case TCOr:
		return "or operator"
	case TCImplies:
		return "implication operator"
	case TCEquiv:
		return "biconditional operator"
	case TCInf:
		return "'inf'"
	case TCName:
		return "name"
	case TCNumber:
		return "number"
	default:
		return fmt.Sprintf("TokenClass(%d)", int(tc))
	}
}

// Token is a single lexeme read from formula text along with its class and
// where in the source text it was found. Tokens are immutable value objects;
// they are produced by Lex and consumed by Parse.
type Token struct {
	// Class is the lexical class of the token.
	Class TokenClass

	// Lexeme is the exact text that was matched.
	Lexeme string

	// Line is the 1-indexed line the token started on.
	Line int

	// Pos is the 1-indexed character position within Line that the token
	// started on.
	Pos int

	// FullLine is the complete source line the token was found in, used for
	// error reporting.
	FullLine string
}

func (tok Token) String() string {
	if tok.Lexeme == "" {
		return tok.Class.String()
	}
	return fmt.Sprintf("%s %q", tok.Class.String(), tok.Lexeme)
}

// TokenStream is a stream of tokens produced by lexing a complete formula. It
// always ends with a TCEndOfText token.
type TokenStream struct {
	tokens []Token
	cur    int
}

// Next returns the next token in the stream and advances past it. Calling Next
// after the end-of-text token has been returned will panic.
func (ts *TokenStream) Next() Token {
	n := ts.tokens[ts.cur]
	ts.cur++
	return n
}

// Peek returns the next token in the stream without advancing.
func (ts *TokenStream) Peek() Token {
	return ts.tokens[ts.cur]
}

// PeekAhead returns the token offset tokens after the next one without
// advancing. PeekAhead(0) is equivalent to Peek. If the offset is past the end
// of the stream, the end-of-text token is returned.
func (ts *TokenStream) PeekAhead(offset int) Token {
	idx := ts.cur + offset
	if idx >= len(ts.tokens) {
		return ts.tokens[len(ts.tokens)-1]
	}
	return ts.tokens[idx]
}

// Remaining returns the number of tokens not yet consumed, including the
// end-of-text token.
func (ts *TokenStream) Remaining() int {
	return len(ts.tokens) - ts.cur
}

// Tokens returns a copy of every token in the stream regardless of how many
// have been consumed.
func (ts *TokenStream) Tokens() []Token {
	all := make([]Token, len(ts.tokens))
	copy(all, ts.tokens)
	return all
}
