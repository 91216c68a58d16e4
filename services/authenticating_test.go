package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle"
)

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.auth.Register("not-an-email", "password", "Al Ice")
	assert.True(t, huddle.IsInputError(err))

	_, _, err = e.auth.Register("al@test.com", "short", "Al Ice")
	assert.True(t, huddle.IsInputError(err))

	_, _, err = e.auth.Register("al@test.com", "password", "")
	assert.True(t, huddle.IsInputError(err))

	_, _, err = e.auth.Register("al@test.com", "password", strings.Repeat("x", 51))
	assert.True(t, huddle.IsInputError(err))

	_, _, err = e.auth.Register("al@test.com", "password", "Al Ice")
	require.NoError(t, err)

	// duplicate email
	_, _, err = e.auth.Register("al@test.com", "password", "Al Ice Again")
	assert.True(t, huddle.IsInputError(err))
}

func TestHandleGeneration(t *testing.T) {
	e := newEnv(t)

	first := e.user(t, "one@test.com", "Al Ice")
	assert.Equal(t, "alice", first.Handle)

	second := e.user(t, "two@test.com", "Al! Ice?")
	assert.Equal(t, "alice0", second.Handle)

	third := e.user(t, "three@test.com", "AL ICE")
	assert.Equal(t, "alice1", third.Handle)

	long := e.user(t, "four@test.com", "a very long display name indeed")
	assert.Len(t, long.Handle, 20)
}

func TestVerifyRoundTrip(t *testing.T) {
	e := newEnv(t)

	token, u, err := e.auth.Register("al@test.com", "password", "Al Ice")
	require.NoError(t, err)

	got, err := e.auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = e.auth.Verify("garbage")
	assert.True(t, huddle.IsAccessError(err))
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "al@test.com", "Al Ice")

	token, got, err := e.auth.Login("al@test.com", "password")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = e.auth.Verify(token)
	assert.NoError(t, err)

	_, _, err = e.auth.Login("al@test.com", "wrong-password")
	assert.True(t, huddle.IsAccessError(err))

	_, _, err = e.auth.Login("unknown@test.com", "password")
	assert.True(t, huddle.IsAccessError(err))
}

func TestLogoutRevokesSession(t *testing.T) {
	e := newEnv(t)

	token, _, err := e.auth.Register("al@test.com", "password", "Al Ice")
	require.NoError(t, err)

	// a second session stays live after the first logs out
	other, _, err := e.auth.Login("al@test.com", "password")
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(token))

	_, err = e.auth.Verify(token)
	assert.True(t, huddle.IsAccessError(err))

	_, err = e.auth.Verify(other)
	assert.NoError(t, err)

	// double logout fails
	err = e.auth.Logout(token)
	assert.True(t, huddle.IsAccessError(err))
}
