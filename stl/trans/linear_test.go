package trans

import (
	"testing"

	"github.com/dekarrin/stlspec/stl/syntax"
	"github.com/stretchr/testify/assert"
)

func Test_TranslateLinear_signNormalization(t *testing.T) {
	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "y", Column: 1, DType: Float},
	)

	testCases := []struct {
		name   string
		input  string
		expect LinearPredicate
	}{
		{
			name:   "upper bound keeps its sign",
			input:  "x <= 5",
			expect: LinearPredicate{Name: "x", Row: []float64{1, 0}, Bound: 5},
		},
		{
			name:   "lower bound flips to an upper bound",
			input:  "x >= 10",
			expect: LinearPredicate{Name: "x", Row: []float64{-1, 0}, Bound: -10},
		},
		{
			name:   "negated name flips the coefficient",
			input:  "-x <= 5",
			expect: LinearPredicate{Name: "x", Row: []float64{-1, 0}, Bound: 5},
		},
		{
			name:   "negated name with lower bound",
			input:  "-x >= 10",
			expect: LinearPredicate{Name: "x", Row: []float64{1, 0}, Bound: -10},
		},
		{
			name:   "negative threshold is kept on the bound",
			input:  "x <= -5",
			expect: LinearPredicate{Name: "x", Row: []float64{1, 0}, Bound: -5},
		},
		{
			name:   "second column",
			input:  "y <= 2.5",
			expect: LinearPredicate{Name: "y", Row: []float64{0, 1}, Bound: 2.5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			spec, err := TranslateLinear(mustParse(t, tc.input), decls)
			if !assert.NoError(err) {
				return
			}

			if !assert.Len(spec.Predicates, 1) {
				return
			}
			assert.True(tc.expect.Equal(spec.Predicates[0]), "expected %+v, got %+v", tc.expect, spec.Predicates[0])

			if assert.NotNil(spec.Root) {
				assert.Equal(OpPred, spec.Root.Kind)
				assert.Equal(0, spec.Root.Pred)
			}
		})
	}
}

func Test_TranslateLinear_endToEnd(t *testing.T) {
	assert := assert.New(t)

	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "y", Column: 1, DType: Float},
	)

	input := "(x>=10 and x<=20 and y<=5 and y>=0) -> F[0,4] !(x>=10 and x<=20 and y<=5 and y>=0)"

	spec, err := TranslateLinear(mustParse(t, input), decls)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]string{"x", "y"}, spec.Columns)

	// 4 distinct atomic predicates, each written twice
	if !assert.Len(spec.Predicates, 8) {
		return
	}

	expectHalf := []LinearPredicate{
		{Name: "x", Row: []float64{-1, 0}, Bound: -10},
		{Name: "x", Row: []float64{1, 0}, Bound: 20},
		{Name: "y", Row: []float64{0, 1}, Bound: 5},
		{Name: "y", Row: []float64{0, -1}, Bound: 0},
	}

	for i, expect := range expectHalf {
		assert.True(expect.Equal(spec.Predicates[i]), "predicate %d: expected %+v, got %+v", i, expect, spec.Predicates[i])
		assert.True(expect.Equal(spec.Predicates[i+4]), "predicate %d: expected %+v, got %+v", i+4, expect, spec.Predicates[i+4])
	}

	// skeleton: ((((p0 ^ p1) ^ p2) ^ p3) -> F[0,4] !((((p4 ^ p5) ^ p6) ^ p7))
	leftConj := func(base int) *OpTree {
		return &OpTree{
			Kind: OpAnd,
			Left: &OpTree{
				Kind: OpAnd,
				Left: &OpTree{
					Kind:  OpAnd,
					Left:  &OpTree{Kind: OpPred, Pred: base},
					Right: &OpTree{Kind: OpPred, Pred: base + 1},
				},
				Right: &OpTree{Kind: OpPred, Pred: base + 2},
			},
			Right: &OpTree{Kind: OpPred, Pred: base + 3},
		}
	}

	expectRoot := &OpTree{
		Kind: OpImplies,
		Left: leftConj(0),
		Right: &OpTree{
			Kind: OpFuture,
			Interval: &syntax.Interval{
				Lower:       syntax.Bound{Value: 0},
				Upper:       syntax.Bound{Value: 4},
				LowerClosed: true,
				UpperClosed: true,
			},
			Left: &OpTree{
				Kind: OpNot,
				Left: leftConj(4),
			},
		},
	}

	assert.True(expectRoot.Equal(spec.Root), "expected skeleton:\n%s\ngot:\n%s", expectRoot.String(), spec.Root.String())
}

func Test_TranslateLinear_barePredicateUsesPredefinedRow(t *testing.T) {
	assert := assert.New(t)

	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "ready", Column: 1, DType: Bool, Row: []float64{0, -1}, Bound: floatPtr(-0.5)},
	)

	spec, err := TranslateLinear(mustParse(t, "[] ready"), decls)
	if !assert.NoError(err) {
		return
	}

	if !assert.Len(spec.Predicates, 1) {
		return
	}

	expect := LinearPredicate{Name: "ready", Row: []float64{0, -1}, Bound: -0.5}
	assert.True(expect.Equal(spec.Predicates[0]), "expected %+v, got %+v", expect, spec.Predicates[0])
}

func Test_TranslateLinear_errors(t *testing.T) {
	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "armed", Column: 1, DType: Bool},
	)

	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "undeclared name even without prior validation",
			input: "ghost <= 5",
		},
		{
			name:  "strict comparison",
			input: "x < 5",
		},
		{
			name:  "next operator",
			input: "X x <= 5",
		},
		{
			name:  "bare bool without predefined constraint",
			input: "armed",
		},
		{
			name:  "bad window",
			input: "F [4, 0] x <= 5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := TranslateLinear(mustParse(t, tc.input), decls)
			assert.Error(err)
		})
	}
}

func Test_LinearSpec_binaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "y", Column: 1, DType: Float},
	)

	spec, err := TranslateLinear(mustParse(t, "[] [0, inf) (x <= 4 -> <> (0, 2.5] y >= -1)"), decls)
	if !assert.NoError(err) {
		return
	}

	data, err := spec.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded LinearSpec
	if !assert.NoError(decoded.UnmarshalBinary(data)) {
		return
	}

	assert.Equal(spec.Columns, decoded.Columns)
	if assert.Len(decoded.Predicates, len(spec.Predicates)) {
		for i := range spec.Predicates {
			assert.True(spec.Predicates[i].Equal(decoded.Predicates[i]), "predicate %d changed in round trip", i)
		}
	}
	assert.True(spec.Root.Equal(decoded.Root), "skeleton changed in round trip:\n%s\nvs:\n%s", spec.Root.String(), decoded.Root.String())
}
