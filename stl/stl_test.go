package stl

import (
	"testing"

	"github.com/dekarrin/stlspec/stl/trans"
	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	assert := assert.New(t)

	ast, err := Parse("always (alt >= 0)")
	if !assert.NoError(err) {
		return
	}
	assert.NotNil(ast.Root)

	_, err = Parse("always (alt >=")
	assert.Error(err)
}

func Test_Canonical(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "word operators become symbolic",
			input:  "not a and always b",
			expect: `(! a /\ [] b)`,
		},
		{
			name:   "grouping is made explicit",
			input:  "a and b or c",
			expect: `((a /\ b) \/ c)`,
		},
		{
			name:   "windows are kept",
			input:  "eventually [0, inf) x <= -5",
			expect: "<>[0,inf) x <= -5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Canonical(tc.input)
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_CompileLinear(t *testing.T) {
	assert := assert.New(t)

	decls, err := trans.NewDecls(
		trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
	)
	if !assert.NoError(err) {
		return
	}

	spec, err := CompileLinear("always (alt >= 0)", decls)
	if !assert.NoError(err) {
		return
	}

	if assert.Len(spec.Predicates, 1) {
		assert.Equal("alt", spec.Predicates[0].Name)
		assert.Equal([]float64{-1}, spec.Predicates[0].Row)
		assert.Equal(float64(0), spec.Predicates[0].Bound)
	}

	// validation runs before translation
	_, err = CompileLinear("X alt >= 0", decls)
	assert.Error(err)

	_, err = CompileLinear("always (unknown_var >= 0)", trans.Decls{})
	assert.Error(err)
}

func Test_CompileTree(t *testing.T) {
	assert := assert.New(t)

	decls, err := trans.NewDecls(
		trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
	)
	if !assert.NoError(err) {
		return
	}

	spec, err := CompileTree("X alt >= 0", decls)
	if !assert.NoError(err) {
		return
	}

	if assert.NotNil(spec.Root) {
		assert.Equal(trans.OpNext, spec.Root.Kind)
		assert.Equal(trans.OpPred, spec.Root.Left.Kind)
		assert.Equal(0, spec.Root.Left.Column)
	}
}

func Test_Validate(t *testing.T) {
	assert := assert.New(t)

	decls, err := trans.NewDecls(
		trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
	)
	if !assert.NoError(err) {
		return
	}

	assert.NoError(Validate("always (alt >= 0)", decls, trans.TargetTree))
	assert.Error(Validate("always (alt >= 0) and ghost", decls, trans.TargetTree))
	assert.Error(Validate("alt > 0", decls, trans.TargetLinear))
}
