package trans

import (
	"testing"

	"github.com/dekarrin/stlspec/stl/syntax"
	"github.com/stretchr/testify/assert"
)

func mustParse(t *testing.T, input string) syntax.AST {
	t.Helper()

	ts, err := syntax.Lex(input)
	if err != nil {
		t.Fatalf("lexing %q failed: %v", input, err)
	}
	ast, err := syntax.Parse(&ts)
	if err != nil {
		t.Fatalf("parsing %q failed: %v", input, err)
	}
	return ast
}

func mustDecls(t *testing.T, bindings ...Binding) Decls {
	t.Helper()

	d, err := NewDecls(bindings...)
	if err != nil {
		t.Fatalf("building decls failed: %v", err)
	}
	return d
}

func floatPtr(v float64) *float64 {
	return &v
}

func Test_NewDecls(t *testing.T) {
	testCases := []struct {
		name      string
		bindings  []Binding
		expectErr bool
	}{
		{
			name: "valid declarations",
			bindings: []Binding{
				{Name: "x", Column: 0, DType: Float},
				{Name: "on_1", Column: 1, DType: Bool},
			},
		},
		{
			name: "duplicate name",
			bindings: []Binding{
				{Name: "x", Column: 0, DType: Float},
				{Name: "x", Column: 1, DType: Float},
			},
			expectErr: true,
		},
		{
			name: "name starting with digit",
			bindings: []Binding{
				{Name: "1x", Column: 0, DType: Float},
			},
			expectErr: true,
		},
		{
			name: "empty name",
			bindings: []Binding{
				{Name: "", Column: 0, DType: Float},
			},
			expectErr: true,
		},
		{
			name: "negative column",
			bindings: []Binding{
				{Name: "x", Column: -1, DType: Float},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := NewDecls(tc.bindings...)
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Decls_Width(t *testing.T) {
	assert := assert.New(t)

	d := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "y", Column: 3, DType: Float},
	)

	assert.Equal(2, d.Len())
	assert.Equal(4, d.Width())
	assert.Equal([]string{"x", "", "", "y"}, d.ColumnNames())
}

func Test_Validate_ok(t *testing.T) {
	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "armed", Column: 1, DType: Bool},
	)

	testCases := []struct {
		name   string
		input  string
		target Target
	}{
		{
			name:   "comparison on float signal",
			input:  "x <= 10",
			target: TargetTree,
		},
		{
			name:   "bare bool signal",
			input:  "armed",
			target: TargetTree,
		},
		{
			name:   "next is fine for the tree target",
			input:  "X x <= 10",
			target: TargetTree,
		},
		{
			name:   "strict comparison is fine for the tree target",
			input:  "x < 10",
			target: TargetTree,
		},
		{
			name:   "infinite upper bound is well ordered",
			input:  "[] [0, inf) x <= 10",
			target: TargetTree,
		},
		{
			name:   "full temporal nesting",
			input:  "[] (armed -> <> [0, 4] x <= 10) U x >= -2",
			target: TargetTree,
		},
		{
			name:   "non-strict comparisons for the linear target",
			input:  "x >= 0 and x <= 10",
			target: TargetLinear,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := Validate(mustParse(t, tc.input), decls, tc.target)
			assert.NoError(err)
		})
	}
}

func Test_Validate_undeclaredVariable(t *testing.T) {
	assert := assert.New(t)

	err := Validate(mustParse(t, "always (unknown_var >= 0)"), Decls{}, TargetTree)
	if !assert.Error(err) {
		return
	}

	undeclared, ok := err.(UndeclaredVariableError)
	if !assert.True(ok, "error is not an UndeclaredVariableError: %v", err) {
		return
	}
	assert.Equal("unknown_var", undeclared.Name)
}

func Test_Validate_aggregatesNameErrors(t *testing.T) {
	assert := assert.New(t)

	decls := mustDecls(t,
		Binding{Name: "armed", Column: 0, DType: Bool},
	)

	// one undeclared name, one type misuse; both must be reported in one pass
	err := Validate(mustParse(t, "ghost >= 0 and armed <= 1"), decls, TargetTree)
	if !assert.Error(err) {
		return
	}

	list, ok := err.(ErrorList)
	if !assert.True(ok, "error is not an ErrorList: %v", err) {
		return
	}
	if !assert.Len(list, 2) {
		return
	}

	undeclared, ok := list[0].(UndeclaredVariableError)
	if assert.True(ok, "first error is not an UndeclaredVariableError: %v", list[0]) {
		assert.Equal("ghost", undeclared.Name)
	}

	mismatch, ok := list[1].(TypeMismatchError)
	if assert.True(ok, "second error is not a TypeMismatchError: %v", list[1]) {
		assert.Equal("armed", mismatch.Name)
		assert.Equal(Bool, mismatch.DType)
	}
}

func Test_Validate_typeMismatch(t *testing.T) {
	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "armed", Column: 1, DType: Bool},
	)

	testCases := []struct {
		name       string
		input      string
		expectName string
	}{
		{
			name:       "bool signal compared against threshold",
			input:      "armed <= 1",
			expectName: "armed",
		},
		{
			name:       "float signal used as bare predicate",
			input:      "[] x",
			expectName: "x",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := Validate(mustParse(t, tc.input), decls, TargetTree)
			if !assert.Error(err) {
				return
			}

			mismatch, ok := err.(TypeMismatchError)
			if !assert.True(ok, "error is not a TypeMismatchError: %v", err) {
				return
			}
			assert.Equal(tc.expectName, mismatch.Name)
		})
	}
}

func Test_Validate_invalidIntervalShortCircuits(t *testing.T) {
	assert := assert.New(t)

	// the undeclared name below the bad window must not be reported; the
	// window error stops the walk
	err := Validate(mustParse(t, "F [4, 0] ghost >= 1"), Decls{}, TargetTree)
	if !assert.Error(err) {
		return
	}

	invalid, ok := err.(InvalidIntervalError)
	if !assert.True(ok, "error is not an InvalidIntervalError: %v", err) {
		return
	}
	assert.Equal("[4,0]", invalid.Interval.String())
}

func Test_Validate_intervalOrdering(t *testing.T) {
	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
	)

	testCases := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{
			name:  "increasing finite bounds",
			input: "F [0, 4] x <= 1",
		},
		{
			name:  "infinite upper bound",
			input: "F [0, inf) x <= 1",
		},
		{
			name:      "decreasing finite bounds",
			input:     "F [4, 0] x <= 1",
			expectErr: true,
		},
		{
			name:      "equal finite bounds",
			input:     "F [2, 2] x <= 1",
			expectErr: true,
		},
		{
			name:      "infinite lower bound",
			input:     "F (inf, 4] x <= 1",
			expectErr: true,
		},
		{
			name:      "bad window on a binary operator",
			input:     "x <= 1 U [1, 0] x <= 2",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := Validate(mustParse(t, tc.input), decls, TargetTree)
			if tc.expectErr {
				if !assert.Error(err) {
					return
				}
				_, ok := err.(InvalidIntervalError)
				assert.True(ok, "error is not an InvalidIntervalError: %v", err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Validate_linearTargetRestrictions(t *testing.T) {
	decls := mustDecls(t,
		Binding{Name: "x", Column: 0, DType: Float},
		Binding{Name: "armed", Column: 1, DType: Bool},
		Binding{Name: "ready", Column: 2, DType: Bool, Row: []float64{0, 0, 1}, Bound: floatPtr(0.5)},
	)

	testCases := []struct {
		name     string
		input    string
		expectOp string
	}{
		{
			name:     "next has no dense-time meaning",
			input:    "X x <= 10",
			expectOp: "X",
		},
		{
			name:     "strict less-than",
			input:    "x < 10",
			expectOp: "<",
		},
		{
			name:     "strict greater-than",
			input:    "x > 10",
			expectOp: ">",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := Validate(mustParse(t, tc.input), decls, TargetLinear)
			if !assert.Error(err) {
				return
			}

			unsupported, ok := err.(UnsupportedOperatorError)
			if !assert.True(ok, "error is not an UnsupportedOperatorError: %v", err) {
				return
			}
			assert.Equal(tc.expectOp, unsupported.Op)
			assert.Equal(TargetLinear, unsupported.Target)
		})
	}

	t.Run("bare bool without predefined constraint", func(t *testing.T) {
		assert := assert.New(t)

		err := Validate(mustParse(t, "[] armed"), decls, TargetLinear)
		if !assert.Error(err) {
			return
		}

		mismatch, ok := err.(TypeMismatchError)
		if !assert.True(ok, "error is not a TypeMismatchError: %v", err) {
			return
		}
		assert.Equal("armed", mismatch.Name)
	})

	t.Run("bare bool with predefined constraint", func(t *testing.T) {
		assert := assert.New(t)

		err := Validate(mustParse(t, "[] ready"), decls, TargetLinear)
		assert.NoError(err)
	})
}
