package trans

import (
	"testing"

	"github.com/dekarrin/stlspec/stl/syntax"
	"github.com/stretchr/testify/assert"
)

func Test_InferDecls(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []Binding
		expectErr bool
	}{
		{
			name:  "single comparison gives a Float binding",
			input: "alt >= 100",
			expect: []Binding{
				{Name: "alt", Column: 0, DType: Float},
			},
		},
		{
			name:  "bare name gives a Bool binding",
			input: "armed",
			expect: []Binding{
				{Name: "armed", Column: 0, DType: Bool},
			},
		},
		{
			name:  "columns assigned in first-appearance order",
			input: "(alt >= 100) /\\ (speed <= 30) -> armed",
			expect: []Binding{
				{Name: "alt", Column: 0, DType: Float},
				{Name: "speed", Column: 1, DType: Float},
				{Name: "armed", Column: 2, DType: Bool},
			},
		},
		{
			name:  "repeated name reuses its column",
			input: "[] ((alt >= 100) \\/ (alt <= 5))",
			expect: []Binding{
				{Name: "alt", Column: 0, DType: Float},
			},
		},
		{
			name:  "name reached under temporal operators",
			input: "(alt >= 1) U(0, 5) (speed <= 2)",
			expect: []Binding{
				{Name: "alt", Column: 0, DType: Float},
				{Name: "speed", Column: 1, DType: Float},
			},
		},
		{
			name:      "name used both bare and compared",
			input:     "armed /\\ (armed >= 1)",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ast := mustParse(t, tc.input)

			actual, err := InferDecls(ast)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.Bindings())
		})
	}
}

func Test_InferDecls_emptyAST(t *testing.T) {
	assert := assert.New(t)

	actual, err := InferDecls(syntax.AST{})

	assert.NoError(err)
	assert.Equal(0, actual.Len())
}
