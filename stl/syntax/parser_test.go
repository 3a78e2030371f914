package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustLex(t *testing.T, input string) TokenStream {
	t.Helper()

	ts, err := Lex(input)
	if err != nil {
		t.Fatalf("lexing %q failed: %v", input, err)
	}
	return ts
}

func pred(name string) PredicateNode {
	return PredicateNode{Name: name}
}

func cmp(name string, op RelOp, threshold float64) PredicateNode {
	return PredicateNode{Name: name, Comparison: true, Op: op, Threshold: threshold}
}

func iv(lower, upper Bound, lowerClosed, upperClosed bool) *Interval {
	return &Interval{Lower: lower, Upper: upper, LowerClosed: lowerClosed, UpperClosed: upperClosed}
}

func num(v float64) Bound {
	return Bound{Value: v}
}

func inf() Bound {
	return Bound{Infinite: true}
}

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect AST
	}{
		{
			name:   "bare boolean signal",
			input:  "launch_armed",
			expect: AST{Root: pred("launch_armed")},
		},
		{
			name:   "comparison predicate",
			input:  "x <= 10.5",
			expect: AST{Root: cmp("x", OpLessEq, 10.5)},
		},
		{
			name:  "negated signal name",
			input: "-x <= 5",
			expect: AST{Root: PredicateNode{
				Name:        "x",
				NegatedName: true,
				Comparison:  true,
				Op:          OpLessEq,
				Threshold:   5,
			}},
		},
		{
			name:   "negative threshold is not a negated name",
			input:  "x <= -5",
			expect: AST{Root: cmp("x", OpLessEq, -5)},
		},
		{
			name:  "and binds no tighter than or; same tier groups left",
			input: "a and b or c",
			expect: AST{Root: OrNode{
				Left:  AndNode{Left: pred("a"), Right: pred("b")},
				Right: pred("c"),
			}},
		},
		{
			name:  "or then and also groups left",
			input: "a or b and c",
			expect: AST{Root: AndNode{
				Left:  OrNode{Left: pred("a"), Right: pred("b")},
				Right: pred("c"),
			}},
		},
		{
			name:  "implies and equiv share the loosest tier",
			input: "a -> b <-> c",
			expect: AST{Root: EquivNode{
				Left:  ImpliesNode{Left: pred("a"), Right: pred("b")},
				Right: pred("c"),
			}},
		},
		{
			name:  "and binds tighter than implies",
			input: "a -> b and c",
			expect: AST{Root: ImpliesNode{
				Left:  pred("a"),
				Right: AndNode{Left: pred("b"), Right: pred("c")},
			}},
		},
		{
			name:  "negation binds tighter than and",
			input: "!a and b",
			expect: AST{Root: AndNode{
				Left:  NotNode{Operand: pred("a")},
				Right: pred("b"),
			}},
		},
		{
			name:  "unary temporal binds tighter than until",
			input: "F a U b",
			expect: AST{Root: UntilNode{
				Left:  FutureNode{Operand: pred("a")},
				Right: pred("b"),
			}},
		},
		{
			name:  "until binds tighter than and",
			input: "a U b and c",
			expect: AST{Root: AndNode{
				Left:  UntilNode{Left: pred("a"), Right: pred("b")},
				Right: pred("c"),
			}},
		},
		{
			name:  "until and release group left",
			input: "a U b R c",
			expect: AST{Root: ReleaseNode{
				Left:  UntilNode{Left: pred("a"), Right: pred("b")},
				Right: pred("c"),
			}},
		},
		{
			name:  "parens regroup same-tier operators",
			input: "a and (b or c)",
			expect: AST{Root: AndNode{
				Left:  pred("a"),
				Right: OrNode{Left: pred("b"), Right: pred("c")},
			}},
		},
		{
			name:  "globally with half-open interval",
			input: "globally (0, 4] x <= 4",
			expect: AST{Root: GloballyNode{
				Interval: iv(num(0), num(4), false, true),
				Operand:  cmp("x", OpLessEq, 4),
			}},
		},
		{
			name:  "future with open infinite interval",
			input: "F (0, inf) p",
			expect: AST{Root: FutureNode{
				Interval: iv(num(0), inf(), false, false),
				Operand:  pred("p"),
			}},
		},
		{
			name:  "paren after temporal operator is grouping, not a window",
			input: "F (x <= 4)",
			expect: AST{Root: FutureNode{
				Operand: cmp("x", OpLessEq, 4),
			}},
		},
		{
			name:  "until with interval",
			input: "p U[0, 2.5] q",
			expect: AST{Root: UntilNode{
				Interval: iv(num(0), num(2.5), true, true),
				Left:     pred("p"),
				Right:    pred("q"),
			}},
		},
		{
			name:  "release with interval",
			input: "p R(1, 2) q",
			expect: AST{Root: ReleaseNode{
				Interval: iv(num(1), num(2), false, false),
				Left:     pred("p"),
				Right:    pred("q"),
			}},
		},
		{
			name:  "next with interval",
			input: "next [1, 2] p",
			expect: AST{Root: NextNode{
				Interval: iv(num(1), num(2), true, true),
				Operand:  pred("p"),
			}},
		},
		{
			name:  "symbolic globally over parenthesized implication",
			input: "[] (engine_on -> <> [0, 10] temp < 90)",
			expect: AST{Root: GloballyNode{
				Operand: ImpliesNode{
					Left: pred("engine_on"),
					Right: FutureNode{
						Interval: iv(num(0), num(10), true, true),
						Operand:  cmp("temp", OpLess, 90),
					},
				},
			}},
		},
		{
			name:  "prefix operators stack",
			input: "! [] ! p",
			expect: AST{Root: NotNode{
				Operand: GloballyNode{
					Operand: NotNode{Operand: pred("p")},
				},
			}},
		},
		{
			name:  "negative interval bounds",
			input: "G [-2, -1] p",
			expect: AST{Root: GloballyNode{
				Interval: iv(num(-2), num(-1), true, true),
				Operand:  pred("p"),
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ts := mustLex(t, tc.input)
			actual, err := Parse(&ts)
			if !assert.NoError(err) {
				return
			}

			assert.True(tc.expect.Equal(actual), "expected:\n%s\nactual:\n%s", tc.expect.String(), actual.String())
		})
	}
}

func Test_Parse_synonymsProduceIdenticalTrees(t *testing.T) {
	testCases := []struct {
		name   string
		inputs []string
	}{
		{
			name:   "globally spellings",
			inputs: []string{"globally (x <= 4)", "always (x <= 4)", "G (x <= 4)", "[] (x <= 4)"},
		},
		{
			name:   "future spellings",
			inputs: []string{"finally p", "eventually p", "F p", "<> p"},
		},
		{
			name:   "next spellings",
			inputs: []string{"next p", "X p", "X_ p"},
		},
		{
			name:   "negation spellings",
			inputs: []string{"not p", "! p", "!p"},
		},
		{
			name:   "and spellings",
			inputs: []string{"p and q", "p && q", "p & q", `p /\ q`},
		},
		{
			name:   "or spellings",
			inputs: []string{"p or q", "p || q", "p | q", `p \/ q`},
		},
		{
			name:   "until and release spellings",
			inputs: []string{"p until q release r", "p U q R r"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ts := mustLex(t, tc.inputs[0])
			first, err := Parse(&ts)
			if !assert.NoError(err) {
				return
			}

			for _, input := range tc.inputs[1:] {
				ts := mustLex(t, input)
				other, err := Parse(&ts)
				if !assert.NoError(err, "parsing %q", input) {
					return
				}

				assert.True(first.Equal(other), "%q parsed differently than %q:\n%s\nvs:\n%s", tc.inputs[0], input, first.String(), other.String())
			}
		})
	}
}

func Test_Parse_errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "trailing tokens after complete formula",
			input: "p q",
		},
		{
			name:  "equality operator is reserved",
			input: "x == 5",
		},
		{
			name:  "inequality operator is reserved",
			input: "x != 5",
		},
		{
			name:  "unmatched open paren",
			input: "(p and q",
		},
		{
			name:  "negated name without comparison",
			input: "-x",
		},
		{
			name:  "binary operator with no right operand",
			input: "p and",
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:  "bare number is not a formula",
			input: "5",
		},
		{
			name:  "temporal operator with window but no operand",
			input: "F [0, 4)",
		},
		{
			name:  "window missing comma",
			input: "F (0 4) p",
		},
		{
			name:  "window missing closing bracket",
			input: "F [0, 4 p",
		},
		{
			name:  "comparison missing threshold",
			input: "x <=",
		},
		{
			name:  "comparison with name threshold",
			input: "x <= y",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ts := mustLex(t, tc.input)
			_, err := Parse(&ts)
			if !assert.Error(err) {
				return
			}

			synErr, ok := err.(SyntaxError)
			if !assert.True(ok, "error is not a SyntaxError: %v", err) {
				return
			}
			assert.NotEmpty(synErr.Error())
		})
	}
}

func Test_AST_STLString_roundTrip(t *testing.T) {
	inputs := []string{
		"p",
		"x <= 10.5",
		"-x >= -3",
		"a and b or c",
		"a -> b <-> c",
		"! a and ! b",
		"F (0, inf) p U q",
		"globally (0, 4] x <= 4",
		"[] (engine_on -> <> [0, 10] temp < 90)",
		"p U[0, 2.5] q R r",
		"X (a or b)",
		"alt >= 1000000",
		"G[0,1000000] (alt >= 0.0000001)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert := assert.New(t)

			ts := mustLex(t, input)
			first, err := Parse(&ts)
			if !assert.NoError(err) {
				return
			}

			canonical := first.STLString()

			ts2 := mustLex(t, canonical)
			second, err := Parse(&ts2)
			if !assert.NoError(err, "canonical text %q did not re-parse", canonical) {
				return
			}

			assert.True(first.Equal(second), "canonical text %q re-parsed to a different tree:\n%s\nvs:\n%s", canonical, first.String(), second.String())

			// canonical text of a canonical tree is stable
			assert.Equal(canonical, second.STLString())
		})
	}
}

func Test_Node_AsNodeConversions(t *testing.T) {
	assert := assert.New(t)

	ts := mustLex(t, "p and q")
	ast, err := Parse(&ts)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(ASTAnd, ast.Root.Type())
	andNode := ast.Root.AsAndNode()
	assert.Equal(ASTPredicate, andNode.Left.Type())
	assert.Equal("p", andNode.Left.AsPredicateNode().Name)

	assert.Panics(func() {
		ast.Root.AsUntilNode()
	})
}
