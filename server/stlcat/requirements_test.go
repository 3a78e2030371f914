package stlcat

import (
	"context"
	"testing"

	"github.com/dekarrin/stlspec/server/dao/inmem"
	"github.com/dekarrin/stlspec/server/serr"
	"github.com/dekarrin/stlspec/stl/trans"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testService(t *testing.T, bindings ...trans.Binding) Service {
	t.Helper()

	decls, err := trans.NewDecls(bindings...)
	if err != nil {
		t.Fatalf("building decls failed: %v", err)
	}

	return Service{
		DB:    inmem.NewDatastore(),
		Decls: decls,
	}
}

func Test_Service_CreateRequirement(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := testService(t,
		trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
	)
	owner := uuid.New()

	created, err := svc.CreateRequirement(ctx, "alt-floor", "[] (alt >= 0)", trans.TargetTree, owner)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("alt-floor", created.Name)
	assert.Equal(owner, created.Owner)
	assert.NotEmpty(created.Compiled, "compiled monitor spec should be cached on the requirement")

	// same name again is a conflict
	_, err = svc.CreateRequirement(ctx, "alt-floor", "[] (alt >= 1)", trans.TargetTree, owner)
	assert.ErrorIs(err, serr.ErrAlreadyExists)
}

func Test_Service_CreateRequirement_badInput(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	testCases := []struct {
		name      string
		reqName   string
		formula   string
		target    trans.Target
		expectErr error
	}{
		{
			name:      "blank name",
			reqName:   "",
			formula:   "[] (alt >= 0)",
			target:    trans.TargetTree,
			expectErr: serr.ErrBadArgument,
		},
		{
			name:      "blank formula",
			reqName:   "alt-floor",
			formula:   "",
			target:    trans.TargetTree,
			expectErr: serr.ErrBadArgument,
		},
		{
			name:      "formula does not parse",
			reqName:   "alt-floor",
			formula:   "[] (alt >=",
			target:    trans.TargetTree,
			expectErr: serr.ErrCompilation,
		},
		{
			name:      "undeclared signal",
			reqName:   "speed-cap",
			formula:   "[] (speed <= 30)",
			target:    trans.TargetTree,
			expectErr: serr.ErrCompilation,
		},
		{
			name:      "strict comparison under linear target",
			reqName:   "alt-floor",
			formula:   "[] (alt > 0)",
			target:    trans.TargetLinear,
			expectErr: serr.ErrCompilation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := testService(t,
				trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
			)

			_, err := svc.CreateRequirement(ctx, tc.reqName, tc.formula, tc.target, owner)

			assert.ErrorIs(err, tc.expectErr)
		})
	}
}

func Test_Service_CreateRequirement_inferredDecls(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	// no suite loaded; signal names come from the formula itself
	svc := Service{DB: inmem.NewDatastore()}

	created, err := svc.CreateRequirement(ctx, "arm-rule", "armed -> <> (alt >= 100)", trans.TargetTree, uuid.New())
	if !assert.NoError(err) {
		return
	}

	assert.NotEmpty(created.Compiled)
}

func Test_Service_UpdateRequirement(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := testService(t,
		trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
	)

	created, err := svc.CreateRequirement(ctx, "alt-floor", "[] (alt >= 0)", trans.TargetTree, uuid.New())
	if !assert.NoError(err) {
		return
	}

	updated, err := svc.UpdateRequirement(ctx, created.ID.String(), "alt-floor", "[] (alt >= 10)", trans.TargetTree)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("[] (alt >= 10)", updated.Formula)
	assert.NotEqual(created.Compiled, updated.Compiled, "changing the formula should recompile the spec")

	// a formula that no longer compiles must not replace the stored one
	_, err = svc.UpdateRequirement(ctx, created.ID.String(), "alt-floor", "[] (bogus >= 10)", trans.TargetTree)
	assert.ErrorIs(err, serr.ErrCompilation)

	unchanged, err := svc.GetRequirement(ctx, created.ID.String())
	if !assert.NoError(err) {
		return
	}
	assert.Equal("[] (alt >= 10)", unchanged.Formula)
}

func Test_Service_CompileRequirement(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := testService(t,
		trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
	)

	created, err := svc.CreateRequirement(ctx, "alt-floor", "[] (alt >= 0)", trans.TargetTree, uuid.New())
	if !assert.NoError(err) {
		return
	}

	// recompiling for a different target replaces the cached artifact
	recompiled, err := svc.CompileRequirement(ctx, created.ID.String(), trans.TargetLinear)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(trans.TargetLinear, recompiled.Target)
	assert.NotEqual(created.Compiled, recompiled.Compiled)

	// a target the formula cannot satisfy leaves the requirement unchanged
	next, err := svc.CreateRequirement(ctx, "next-step", "X (alt >= 0)", trans.TargetTree, uuid.New())
	if !assert.NoError(err) {
		return
	}

	_, err = svc.CompileRequirement(ctx, next.ID.String(), trans.TargetLinear)
	assert.ErrorIs(err, serr.ErrCompilation, "next is not supported by the linear target")

	unchanged, err := svc.GetRequirement(ctx, next.ID.String())
	if !assert.NoError(err) {
		return
	}
	assert.Equal(trans.TargetTree, unchanged.Target)
}

func Test_Service_DeleteRequirement(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := testService(t,
		trans.Binding{Name: "alt", Column: 0, DType: trans.Float},
	)

	created, err := svc.CreateRequirement(ctx, "alt-floor", "[] (alt >= 0)", trans.TargetTree, uuid.New())
	if !assert.NoError(err) {
		return
	}

	deleted, err := svc.DeleteRequirement(ctx, created.ID.String())
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.ID, deleted.ID)

	_, err = svc.GetRequirement(ctx, created.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)

	_, err = svc.DeleteRequirement(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)
}
