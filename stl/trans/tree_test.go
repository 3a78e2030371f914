package trans

import (
	"testing"

	"github.com/dekarrin/stlspec/stl/syntax"
	"github.com/stretchr/testify/assert"
)

func Test_TranslateTree_resolvesColumns(t *testing.T) {
	assert := assert.New(t)

	decls := mustDecls(t,
		Binding{Name: "temp", Column: 2, DType: Float},
		Binding{Name: "engine_on", Column: 0, DType: Bool},
	)

	spec, err := TranslateTree(mustParse(t, "[] (engine_on -> X temp < 90)"), decls)
	if !assert.NoError(err) {
		return
	}

	expect := &ResolvedNode{
		Kind: OpGlobally,
		Left: &ResolvedNode{
			Kind: OpImplies,
			Left: &ResolvedNode{
				Kind:   OpPred,
				Column: 0,
			},
			Right: &ResolvedNode{
				Kind: OpNext,
				Left: &ResolvedNode{
					Kind:       OpPred,
					Column:     2,
					Comparison: true,
					Op:         syntax.OpLess,
					Threshold:  90,
				},
			},
		},
	}

	assert.True(expect.Equal(spec.Root))
	assert.Len(spec.Decls, 2)
	assert.Equal("temp", spec.Decls[0].Name)
	assert.Equal("engine_on", spec.Decls[1].Name)
}

func Test_TranslateTree_keepsWindowsAndNegation(t *testing.T) {
	assert := assert.New(t)

	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
	)

	spec, err := TranslateTree(mustParse(t, "-x >= 1 U (0, inf) x <= 2"), decls)
	if !assert.NoError(err) {
		return
	}

	expect := &ResolvedNode{
		Kind: OpUntil,
		Interval: &syntax.Interval{
			Lower: syntax.Bound{Value: 0},
			Upper: syntax.Bound{Infinite: true},
		},
		Left: &ResolvedNode{
			Kind:        OpPred,
			Column:      0,
			NegatedName: true,
			Comparison:  true,
			Op:          syntax.OpGreaterEq,
			Threshold:   1,
		},
		Right: &ResolvedNode{
			Kind:       OpPred,
			Column:     0,
			Comparison: true,
			Op:         syntax.OpLessEq,
			Threshold:  2,
		},
	}

	assert.True(expect.Equal(spec.Root))
}

func Test_TranslateTree_errors(t *testing.T) {
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
			name:  "bool signal compared",
			input: "armed >= 1",
		},
		{
			name:  "float signal used bare",
			input: "<> x",
		},
		{
			name:  "bad window",
			input: "G [3, 1] x <= 5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := TranslateTree(mustParse(t, tc.input), decls)
			assert.Error(err)
		})
	}
}

func Test_TreeSpec_binaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "armed", Column: 1, DType: Bool},
	)

	spec, err := TranslateTree(mustParse(t, "armed U [0, 4) (X -x >= -2.5)"), decls)
	if !assert.NoError(err) {
		return
	}

	data, err := spec.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded TreeSpec
	if !assert.NoError(decoded.UnmarshalBinary(data)) {
		return
	}

	if assert.Len(decoded.Decls, len(spec.Decls)) {
		for i := range spec.Decls {
			assert.Equal(spec.Decls[i].Name, decoded.Decls[i].Name)
			assert.Equal(spec.Decls[i].Column, decoded.Decls[i].Column)
			assert.Equal(spec.Decls[i].DType, decoded.Decls[i].DType)
		}
	}
	assert.True(spec.Root.Equal(decoded.Root), "tree changed in round trip")
}
