package stlcat

import (
	"context"
	"testing"

	"github.com/dekarrin/stlspec/server/dao"
	"github.com/dekarrin/stlspec/server/dao/inmem"
	"github.com/dekarrin/stlspec/server/serr"
	"github.com/stretchr/testify/assert"
)

func Test_Service_Login(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := Service{DB: inmem.NewDatastore()}

	created, err := svc.CreateUser(ctx, "vriska", "grimdark", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	loggedIn, err := svc.Login(ctx, "vriska", "grimdark")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.ID, loggedIn.ID)

	_, err = svc.Login(ctx, "vriska", "wrong")
	assert.ErrorIs(err, serr.ErrBadCredentials)

	_, err = svc.Login(ctx, "nobody", "grimdark")
	assert.ErrorIs(err, serr.ErrBadCredentials)
}

func Test_Service_Logout(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := Service{DB: inmem.NewDatastore()}

	created, err := svc.CreateUser(ctx, "vriska", "grimdark", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	loggedOut, err := svc.Logout(ctx, created.ID)
	if !assert.NoError(err) {
		return
	}

	assert.True(loggedOut.LastLogoutTime.After(created.LastLogoutTime) || loggedOut.LastLogoutTime.Equal(created.LastLogoutTime))
}
