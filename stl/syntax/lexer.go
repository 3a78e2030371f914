// Package syntax parses signal temporal logic requirement text into abstract
// syntax trees. Lex tokenizes requirement text and Parse builds the AST from
// the resulting token stream; callers that do not care about the intermediate
// tokens can use the stl package front-end instead.
package syntax

import (
	"strings"
	"unicode"
)

// File lexer.go contains the lexer for STL requirement text. The lexer walks
// the input one rune at a time, skipping whitespace and emitting typed tokens
// until the input is exhausted, at which point a final TCEndOfText token is
// added to the stream.

// operator words are case-sensitive and must match exactly. 'inf' is checked
// here as well so that it is never mistaken for a name.
var wordClasses = map[string]TokenClass{
	"not":        TCNot,
	"and":        TCAnd,
	"or":         TCOr,
	"implies":    TCImplies,
	"iff":        TCEquiv,
	"next":       TCNext,
	"X":          TCNext,
	"X_":         TCNext,
	"finally":    TCFuture,
	"eventually": TCFuture,
	"F":          TCFuture,
	"globally":   TCGlobally,
	"always":     TCGlobally,
	"G":          TCGlobally,
	"until":      TCUntil,
	"U":          TCUntil,
	"release":    TCRelease,
	"R":          TCRelease,
	"inf":        TCInf,
}

// Lex tokenizes the given STL requirement text. Whitespace is skipped and
// never emitted. If a character is encountered that cannot begin or continue
// any token, or a numeric literal is malformed, a LexError is returned
// pointing at the offending position.
func Lex(s string) (TokenStream, error) {
	sRunes := []rune(s)

	var tokens []Token

	curLine := 1
	curLinePos := 1
	currentFullLine := readFullLine(sRunes)

	emit := func(class TokenClass, lexeme string, line, pos int) {
		tokens = append(tokens, Token{
			Class:    class,
			Lexeme:   lexeme,
			Line:     line,
			Pos:      pos,
			FullLine: currentFullLine,
		})
	}

	for i := 0; i < len(sRunes); i++ {
		ch := sRunes[i]

		// if it's a newline for any reason, get the next line for the current
		// one
		if ch == '\n' {
			currentFullLine = readFullLine(sRunes[i+1:])
			curLine++
			curLinePos = 1
			continue
		}

		if unicode.IsSpace(ch) {
			curLinePos++
			continue
		}

		startPos := curLinePos

		switch {
		case ch == '(':
			emit(TCParenOpen, "(", curLine, startPos)
		case ch == ')':
			emit(TCParenClose, ")", curLine, startPos)
		case ch == ']':
			emit(TCBrackClose, "]", curLine, startPos)
		case ch == ',':
			emit(TCComma, ",", curLine, startPos)
		case ch == '[':
			if i+1 < len(sRunes) && sRunes[i+1] == ']' {
				// it is the symbolic globally operator
				emit(TCGlobally, "[]", curLine, startPos)
				i++
				curLinePos++
			} else {
				emit(TCBrackOpen, "[", curLine, startPos)
			}
		case ch == '~':
			emit(TCNot, "~", curLine, startPos)
		case ch == '!':
			if i+1 < len(sRunes) && sRunes[i+1] == '=' {
				// equality operators are lexable but reserved; no grammar
				// production accepts them
				emit(TCEqOp, "!=", curLine, startPos)
				i++
				curLinePos++
			} else {
				emit(TCNot, "!", curLine, startPos)
			}
		case ch == '=':
			if i+1 < len(sRunes) && sRunes[i+1] == '=' {
				emit(TCEqOp, "==", curLine, startPos)
				i++
				curLinePos++
			} else {
				return TokenStream{}, lexErrorAt("unrecognized character '='", currentFullLine, curLine, startPos, "=")
			}
		case ch == '<':
			if i+2 < len(sRunes) && sRunes[i+1] == '-' && sRunes[i+2] == '>' {
				emit(TCEquiv, "<->", curLine, startPos)
				i += 2
				curLinePos += 2
			} else if i+1 < len(sRunes) && sRunes[i+1] == '>' {
				emit(TCFuture, "<>", curLine, startPos)
				i++
				curLinePos++
			} else if i+1 < len(sRunes) && sRunes[i+1] == '=' {
				emit(TCRelOp, "<=", curLine, startPos)
				i++
				curLinePos++
			} else {
				emit(TCRelOp, "<", curLine, startPos)
			}
		case ch == '>':
			if i+1 < len(sRunes) && sRunes[i+1] == '=' {
				emit(TCRelOp, ">=", curLine, startPos)
				i++
				curLinePos++
			} else {
				emit(TCRelOp, ">", curLine, startPos)
			}
		case ch == '&':
			if i+1 < len(sRunes) && sRunes[i+1] == '&' {
				emit(TCAnd, "&&", curLine, startPos)
				i++
				curLinePos++
			} else {
				emit(TCAnd, "&", curLine, startPos)
			}
		case ch == '|':
			if i+1 < len(sRunes) && sRunes[i+1] == '|' {
				emit(TCOr, "||", curLine, startPos)
				i++
				curLinePos++
			} else {
				emit(TCOr, "|", curLine, startPos)
			}
		case ch == '/':
			if i+1 < len(sRunes) && sRunes[i+1] == '\\' {
				emit(TCAnd, `/\`, curLine, startPos)
				i++
				curLinePos++
			} else {
				return TokenStream{}, lexErrorAt(`unrecognized character '/'; did you mean '/\'?`, currentFullLine, curLine, startPos, "/")
			}
		case ch == '\\':
			if i+1 < len(sRunes) && sRunes[i+1] == '/' {
				emit(TCOr, `\/`, curLine, startPos)
				i++
				curLinePos++
			} else {
				return TokenStream{}, lexErrorAt(`unrecognized character '\'; did you mean '\/'?`, currentFullLine, curLine, startPos, `\`)
			}
		case ch == '-':
			if i+1 < len(sRunes) && sRunes[i+1] == '>' {
				emit(TCImplies, "->", curLine, startPos)
				i++
				curLinePos++
			} else if i+1 < len(sRunes) && (isDigit(sRunes[i+1]) || (sRunes[i+1] == '.' && i+2 < len(sRunes) && isDigit(sRunes[i+2]))) {
				// minus immediately followed by digits is part of the number
				lexeme, consumed, err := lexNumber(sRunes[i:], currentFullLine, curLine, startPos)
				if err != nil {
					return TokenStream{}, err
				}
				emit(TCNumber, lexeme, curLine, startPos)
				i += consumed - 1
				curLinePos += consumed - 1
			} else {
				emit(TCMinus, "-", curLine, startPos)
			}
		case isDigit(ch) || ch == '.':
			lexeme, consumed, err := lexNumber(sRunes[i:], currentFullLine, curLine, startPos)
			if err != nil {
				return TokenStream{}, err
			}
			emit(TCNumber, lexeme, curLine, startPos)
			i += consumed - 1
			curLinePos += consumed - 1
		case isLetter(ch):
			var sb strings.Builder
			j := i
			for j < len(sRunes) && (isLetter(sRunes[j]) || isDigit(sRunes[j]) || sRunes[j] == '_') {
				sb.WriteRune(sRunes[j])
				j++
			}
			word := sb.String()

			class, ok := wordClasses[word]
			if !ok {
				class = TCName
			}
			emit(class, word, curLine, startPos)
			i += len(word) - 1
			curLinePos += len(word) - 1
		default:
			return TokenStream{}, lexErrorAt("unrecognized character '"+string(ch)+"'", currentFullLine, curLine, startPos, string(ch))
		}

		curLinePos++
	}

	// add special end-of-text token
	tokens = append(tokens, Token{
		Class:    TCEndOfText,
		Line:     curLine,
		Pos:      curLinePos,
		FullLine: currentFullLine,
	})

	return TokenStream{tokens: tokens}, nil
}

// lexNumber reads a numeric literal from the start of sRunes. The literal may
// begin with a minus and is either a decimal integer with no leading zeros or
// a decimal float ('3.', '3.14', and '.14' are all valid spellings). The
// number of runes consumed is returned along with the lexeme.
func lexNumber(sRunes []rune, fullLine string, line, pos int) (lexeme string, consumed int, err error) {
	var sb strings.Builder

	i := 0
	if i < len(sRunes) && sRunes[i] == '-' {
		sb.WriteRune('-')
		i++
	}

	intStart := i
	for i < len(sRunes) && isDigit(sRunes[i]) {
		sb.WriteRune(sRunes[i])
		i++
	}
	intDigits := i - intStart

	isFloat := false
	if i < len(sRunes) && sRunes[i] == '.' {
		isFloat = true
		sb.WriteRune('.')
		i++
		for i < len(sRunes) && isDigit(sRunes[i]) {
			sb.WriteRune(sRunes[i])
			i++
		}
	}

	lexeme = sb.String()

	fracDigits := len(lexeme) - intDigits
	if isFloat {
		fracDigits-- // the dot itself
	}
	if lexeme[0] == '-' {
		fracDigits-- // the minus
	}

	if intDigits == 0 && (!isFloat || fracDigits == 0) {
		return "", 0, lexErrorAt("malformed number \""+lexeme+"\"", fullLine, line, pos, lexeme)
	}
	if intDigits > 1 && sRunes[intStart] == '0' {
		return "", 0, lexErrorAt("number \""+lexeme+"\" has a leading zero", fullLine, line, pos, lexeme)
	}

	return lexeme, len(lexeme), nil
}

// readFullLine returns everything from the start of sRunes up to the first
// newline or the end of input.
func readFullLine(sRunes []rune) string {
	for i := 0; i < len(sRunes); i++ {
		if sRunes[i] == '\n' {
			return string(sRunes[:i])
		}
	}
	return string(sRunes)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch rune) bool {
	return ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z')
}
