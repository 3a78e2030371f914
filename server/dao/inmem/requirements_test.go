package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/stlspec/server/dao"
	"github.com/dekarrin/stlspec/stl/trans"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_RequirementsRepository_Create(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewRequirementsRepository()

	input := dao.Requirement{
		Name:     "alt-floor",
		Formula:  "[] (alt >= 0)",
		Target:   trans.TargetTree,
		Compiled: []byte{0x01, 0x02},
		Owner:    uuid.New(),
	}

	created, err := repo.Create(ctx, input)
	if !assert.NoError(err) {
		return
	}

	assert.NotEqual(uuid.UUID{}, created.ID)
	assert.Equal(input.Name, created.Name)
	assert.Equal(input.Formula, created.Formula)
	assert.False(created.Created.IsZero())
	assert.False(created.Modified.IsZero())

	// same name again must be rejected
	_, err = repo.Create(ctx, input)
	assert.ErrorIs(err, dao.ErrConstraintViolation)
}

func Test_RequirementsRepository_GetByName(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewRequirementsRepository()

	created, err := repo.Create(ctx, dao.Requirement{Name: "alt-floor", Formula: "alt >= 0"})
	if !assert.NoError(err) {
		return
	}

	actual, err := repo.GetByName(ctx, "alt-floor")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.ID, actual.ID)

	_, err = repo.GetByName(ctx, "does-not-exist")
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_RequirementsRepository_Update(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewRequirementsRepository()

	created, err := repo.Create(ctx, dao.Requirement{Name: "alt-floor", Formula: "alt >= 0"})
	if !assert.NoError(err) {
		return
	}
	other, err := repo.Create(ctx, dao.Requirement{Name: "speed-cap", Formula: "speed <= 30"})
	if !assert.NoError(err) {
		return
	}

	// rename frees up the old name
	renamed := created
	renamed.Name = "alt-minimum"
	updated, err := repo.Update(ctx, created.ID, renamed)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("alt-minimum", updated.Name)

	_, err = repo.GetByName(ctx, "alt-floor")
	assert.ErrorIs(err, dao.ErrNotFound, "old name should no longer resolve")

	// renaming onto a taken name is a conflict
	conflicting := other
	conflicting.Name = "alt-minimum"
	_, err = repo.Update(ctx, other.ID, conflicting)
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	// updating a missing ID is not found
	_, err = repo.Update(ctx, uuid.New(), renamed)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_RequirementsRepository_Delete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewRequirementsRepository()

	created, err := repo.Create(ctx, dao.Requirement{Name: "alt-floor", Formula: "alt >= 0"})
	if !assert.NoError(err) {
		return
	}

	deleted, err := repo.Delete(ctx, created.ID)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.ID, deleted.ID)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	// name is free for reuse after delete
	_, err = repo.Create(ctx, dao.Requirement{Name: "alt-floor", Formula: "alt >= 0"})
	assert.NoError(err)
}

func Test_RequirementsRepository_GetAll(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewRequirementsRepository()

	names := []string{"alt-floor", "speed-cap", "arm-before-launch"}
	for _, name := range names {
		_, err := repo.Create(ctx, dao.Requirement{Name: name, Formula: "x >= 0"})
		if !assert.NoError(err) {
			return
		}
	}

	all, err := repo.GetAll(ctx)
	if !assert.NoError(err) {
		return
	}

	if !assert.Len(all, len(names)) {
		return
	}
	for i := 1; i < len(all); i++ {
		assert.True(all[i-1].ID.String() < all[i].ID.String(), "results should be ordered by ID")
	}
}
