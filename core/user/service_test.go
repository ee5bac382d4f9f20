package user_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database/dummy"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newUserService(t *testing.T) (*user.Service, *fixedClock) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	clock := &fixedClock{t: time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC)}
	return user.NewService(dummydb.NewUserRepository(db), clock), clock
}

func TestService_Register(t *testing.T) {
	svc, clock := newUserService(t)

	data := user.NewUser{Username: " Alice ", Email: "ALICE@test.cd"}
	require.NoError(t, data.Validate(svc))
	assert.Equal(t, "Alice", data.Username)
	assert.Equal(t, "alice@test.cd", data.Email)

	usr, err := svc.Register(data)
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, clock.Now(), usr.CreatedAt)

	// email uniqueness surfaces as a field error
	dup := user.NewUser{Username: "alice2", Email: "alice@test.cd"}
	err = dup.Validate(svc)
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want ValidationError, got %v", err)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "email", vErr.Fields[0].Field)
}

func TestService_GetByEmail(t *testing.T) {
	svc, _ := newUserService(t)

	usr, err := svc.Register(user.NewUser{Username: "alice", Email: "alice@test.cd"})
	require.NoError(t, err)

	got, err := svc.GetByEmail("  ALICE@test.cd ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.GetByEmail("ghost@test.cd")
	assert.True(t, core.IsNotFound(err))
}

func TestUser_Profile(t *testing.T) {
	usr := user.User{
		ID:        "u1",
		Username:  "alice",
		Email:     "alice@test.cd",
		CreatedAt: time.Now(),
	}
	profile := usr.Profile()
	assert.Equal(t, usr.ID, profile.ID)
	assert.Equal(t, usr.Username, profile.Username)
	assert.Equal(t, usr.Email, profile.Email)
}
