package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// classedLexeme is a token stripped down to the parts that lexing tests care
// about.
type classedLexeme struct {
	class  TokenClass
	lexeme string
}

func classedLexemes(ts TokenStream) []classedLexeme {
	var out []classedLexeme
	for _, tok := range ts.Tokens() {
		if tok.Class == TCEndOfText {
			continue
		}
		out = append(out, classedLexeme{class: tok.Class, lexeme: tok.Lexeme})
	}
	return out
}

func Test_Lex(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []classedLexeme
	}{
		{
			name:  "single bare name",
			input: "pressure_ok",
			expect: []classedLexeme{
				{TCName, "pressure_ok"},
			},
		},
		{
			name:  "comparison predicate",
			input: "x <= 10",
			expect: []classedLexeme{
				{TCName, "x"},
				{TCRelOp, "<="},
				{TCNumber, "10"},
			},
		},
		{
			name:  "negated name with negative threshold",
			input: "-alt >= -3.5",
			expect: []classedLexeme{
				{TCMinus, "-"},
				{TCName, "alt"},
				{TCRelOp, ">="},
				{TCNumber, "-3.5"},
			},
		},
		{
			name:  "minus folds into number only when digits follow",
			input: "x <= -5",
			expect: []classedLexeme{
				{TCName, "x"},
				{TCRelOp, "<="},
				{TCNumber, "-5"},
			},
		},
		{
			name:  "all word operators",
			input: "not a and b or c implies d iff e until f release g",
			expect: []classedLexeme{
				{TCNot, "not"},
				{TCName, "a"},
				{TCAnd, "and"},
				{TCName, "b"},
				{TCOr, "or"},
				{TCName, "c"},
				{TCImplies, "implies"},
				{TCName, "d"},
				{TCEquiv, "iff"},
				{TCName, "e"},
				{TCUntil, "until"},
				{TCName, "f"},
				{TCRelease, "release"},
				{TCName, "g"},
			},
		},
		{
			name:  "all symbolic operators",
			input: `!a && b || c /\ d \/ e -> f <-> g & h | i`,
			expect: []classedLexeme{
				{TCNot, "!"},
				{TCName, "a"},
				{TCAnd, "&&"},
				{TCName, "b"},
				{TCOr, "||"},
				{TCName, "c"},
				{TCAnd, `/\`},
				{TCName, "d"},
				{TCOr, `\/`},
				{TCName, "e"},
				{TCImplies, "->"},
				{TCName, "f"},
				{TCEquiv, "<->"},
				{TCName, "g"},
				{TCAnd, "&"},
				{TCName, "h"},
				{TCOr, "|"},
				{TCName, "i"},
			},
		},
		{
			name:  "temporal word spellings",
			input: "next X X_ finally eventually F globally always G U R",
			expect: []classedLexeme{
				{TCNext, "next"},
				{TCNext, "X"},
				{TCNext, "X_"},
				{TCFuture, "finally"},
				{TCFuture, "eventually"},
				{TCFuture, "F"},
				{TCGlobally, "globally"},
				{TCGlobally, "always"},
				{TCGlobally, "G"},
				{TCUntil, "U"},
				{TCRelease, "R"},
			},
		},
		{
			name:  "symbolic globally and future",
			input: "[] p <> q",
			expect: []classedLexeme{
				{TCGlobally, "[]"},
				{TCName, "p"},
				{TCFuture, "<>"},
				{TCName, "q"},
			},
		},
		{
			name:  "interval brackets are distinct from symbolic globally",
			input: "[0, 4] (0.5, inf)",
			expect: []classedLexeme{
				{TCBrackOpen, "["},
				{TCNumber, "0"},
				{TCComma, ","},
				{TCNumber, "4"},
				{TCBrackClose, "]"},
				{TCParenOpen, "("},
				{TCNumber, "0.5"},
				{TCComma, ","},
				{TCInf, "inf"},
				{TCParenClose, ")"},
			},
		},
		{
			name:  "future glyph wins over relational less-than",
			input: "<> p <-> q < 1 <= 2",
			expect: []classedLexeme{
				{TCFuture, "<>"},
				{TCName, "p"},
				{TCEquiv, "<->"},
				{TCName, "q"},
				{TCRelOp, "<"},
				{TCNumber, "1"},
				{TCRelOp, "<="},
				{TCNumber, "2"},
			},
		},
		{
			name:  "float spellings",
			input: "3. 3.14 .14 0.5 0",
			expect: []classedLexeme{
				{TCNumber, "3."},
				{TCNumber, "3.14"},
				{TCNumber, ".14"},
				{TCNumber, "0.5"},
				{TCNumber, "0"},
			},
		},
		{
			name:  "equality operators lex but stay reserved",
			input: "x == 5 != 6",
			expect: []classedLexeme{
				{TCName, "x"},
				{TCEqOp, "=="},
				{TCNumber, "5"},
				{TCEqOp, "!="},
				{TCNumber, "6"},
			},
		},
		{
			name:  "strict relops",
			input: "x > 0 y < 0",
			expect: []classedLexeme{
				{TCName, "x"},
				{TCRelOp, ">"},
				{TCNumber, "0"},
				{TCName, "y"},
				{TCRelOp, "<"},
				{TCNumber, "0"},
			},
		},
		{
			name:  "operator words are case sensitive",
			input: "Not And g f u r",
			expect: []classedLexeme{
				{TCName, "Not"},
				{TCName, "And"},
				{TCName, "g"},
				{TCName, "f"},
				{TCName, "u"},
				{TCName, "r"},
			},
		},
		{
			name:   "empty input lexes to just end-of-text",
			input:  "",
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Lex(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, classedLexemes(actual))
		})
	}
}

func Test_Lex_endOfTextAlwaysLast(t *testing.T) {
	assert := assert.New(t)

	ts, err := Lex("[] (x <= 4)")
	if !assert.NoError(err) {
		return
	}

	all := ts.Tokens()
	assert.Equal(TCEndOfText, all[len(all)-1].Class)
}

func Test_Lex_errors(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectPos int
	}{
		{
			name:      "lone forward slash",
			input:     `p / q`,
			expectPos: 3,
		},
		{
			name:      "lone backslash",
			input:     `p \ q`,
			expectPos: 3,
		},
		{
			name:      "lone equals",
			input:     "x = 5",
			expectPos: 3,
		},
		{
			name:      "unrecognized character",
			input:     "x <= 5 $",
			expectPos: 8,
		},
		{
			name:      "leading zero integer",
			input:     "x <= 007",
			expectPos: 6,
		},
		{
			name:      "lone dot is not a number",
			input:     "x <= .",
			expectPos: 6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Lex(tc.input)
			if !assert.Error(err) {
				return
			}

			lexErr, ok := err.(LexError)
			if !assert.True(ok, "error is not a LexError: %v", err) {
				return
			}

			assert.Equal(1, lexErr.Line())
			assert.Equal(tc.expectPos, lexErr.Position())
		})
	}
}

func Test_Lex_positions(t *testing.T) {
	assert := assert.New(t)

	ts, err := Lex("x <= 5 and\n  <> y")
	if !assert.NoError(err) {
		return
	}

	all := ts.Tokens()

	// first line tokens
	assert.Equal(1, all[0].Line)
	assert.Equal(1, all[0].Pos)
	assert.Equal(3, all[1].Pos)
	assert.Equal(6, all[2].Pos)
	assert.Equal(8, all[3].Pos)
	assert.Equal("x <= 5 and", all[0].FullLine)

	// second line tokens
	assert.Equal(2, all[4].Line)
	assert.Equal(3, all[4].Pos)
	assert.Equal(6, all[5].Pos)
	assert.Equal("  <> y", all[4].FullLine)
}
