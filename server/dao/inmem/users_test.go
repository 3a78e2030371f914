package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/stlspec/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_UsersRepository_Create(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewUsersRepository()

	created, err := repo.Create(ctx, dao.User{
		Username: "vriska",
		Password: "aGFzaA==",
		Role:     dao.Normal,
	})
	if !assert.NoError(err) {
		return
	}

	assert.NotEqual(uuid.UUID{}, created.ID)
	assert.Equal("vriska", created.Username)
	assert.False(created.Created.IsZero())
	assert.False(created.LastLogoutTime.IsZero())

	_, err = repo.Create(ctx, dao.User{Username: "vriska"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)
}

func Test_UsersRepository_Update_rename(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewUsersRepository()

	created, err := repo.Create(ctx, dao.User{Username: "vriska", Role: dao.Normal})
	if !assert.NoError(err) {
		return
	}

	renamed := created
	renamed.Username = "aranea"
	updated, err := repo.Update(ctx, created.ID, renamed)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("aranea", updated.Username)

	_, err = repo.GetByUsername(ctx, "vriska")
	assert.ErrorIs(err, dao.ErrNotFound, "old username should no longer resolve")

	actual, err := repo.GetByUsername(ctx, "aranea")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.ID, actual.ID)
}

func Test_UsersRepository_Delete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewUsersRepository()

	created, err := repo.Create(ctx, dao.User{Username: "vriska"})
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

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}
