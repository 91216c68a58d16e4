package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle"
)

func TestRemoveUser(t *testing.T) {
	e := newEnv(t)
	root := e.user(t, "root@test.com", "Root")
	alice := e.user(t, "alice@test.com", "Alice")
	bob := e.user(t, "bob@test.com", "Bob")

	c := e.channel(t, alice.ID, "general")
	require.NoError(t, e.member.Invite(alice.ID, c.ID, bob.ID))
	id, err := e.msg.Send(bob.ID, c.ID, "my hot take")
	require.NoError(t, err)

	// only global owners may remove
	err = e.admin.RemoveUser(alice.ID, bob.ID)
	assert.True(t, huddle.IsAccessError(err))

	err = e.admin.RemoveUser(root.ID, 999)
	assert.True(t, huddle.IsInputError(err))

	token, _, err := e.auth.Login("bob@test.com", "password")
	require.NoError(t, err)

	require.NoError(t, e.admin.RemoveUser(root.ID, bob.ID))

	// sessions are revoked
	_, err = e.auth.Verify(token)
	assert.True(t, huddle.IsAccessError(err))

	// dropped from every container
	details, err := e.member.ChannelDetails(alice.ID, c.ID)
	require.NoError(t, err)
	assert.Len(t, details.Members, 1)

	// authored bodies are redacted in place, ids intact
	page, err := e.msg.ListChannel(alice.ID, c.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, id, page.Messages[0].ID)
	assert.Equal(t, "Removed user", page.Messages[0].Body)

	// the profile survives under the removed marker
	p, err := e.get.Profile(root.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Removed user", p.DisplayName)
	assert.Empty(t, p.Handle)

	// gone from the directory
	users, err := e.get.Users(root.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// removing twice fails
	err = e.admin.RemoveUser(root.ID, bob.ID)
	assert.True(t, huddle.IsInputError(err))
}

func TestRemoveUserFreesIdentity(t *testing.T) {
	e := newEnv(t)
	root := e.user(t, "root@test.com", "Root")
	bob := e.user(t, "bob@test.com", "Bob")

	require.NoError(t, e.admin.RemoveUser(root.ID, bob.ID))

	// the email and handle are reusable immediately
	again := e.user(t, "bob@test.com", "Bob")
	assert.Equal(t, "bob", again.Handle)
	assert.Greater(t, again.ID, bob.ID)
}

func TestSoleGlobalOwnerProtection(t *testing.T) {
	e := newEnv(t)
	root := e.user(t, "root@test.com", "Root")
	alice := e.user(t, "alice@test.com", "Alice")

	err := e.admin.RemoveUser(root.ID, root.ID)
	assert.True(t, huddle.IsInputError(err))

	err = e.admin.SetPermission(root.ID, root.ID, huddle.PermissionMember)
	assert.True(t, huddle.IsInputError(err))

	// with a second owner around both succeed
	require.NoError(t, e.admin.SetPermission(root.ID, alice.ID, huddle.PermissionOwner))
	require.NoError(t, e.admin.SetPermission(alice.ID, root.ID, huddle.PermissionMember))
}

func TestSetPermission(t *testing.T) {
	e := newEnv(t)
	root := e.user(t, "root@test.com", "Root")
	alice := e.user(t, "alice@test.com", "Alice")

	err := e.admin.SetPermission(alice.ID, alice.ID, huddle.PermissionOwner)
	assert.True(t, huddle.IsAccessError(err))

	err = e.admin.SetPermission(root.ID, alice.ID, huddle.PermissionRemoved)
	assert.True(t, huddle.IsInputError(err))

	err = e.admin.SetPermission(root.ID, 999, huddle.PermissionOwner)
	assert.True(t, huddle.IsInputError(err))

	require.NoError(t, e.admin.SetPermission(root.ID, alice.ID, huddle.PermissionOwner))

	// the promotion is real: alice now wields owner powers
	assert.NoError(t, e.admin.SetPermission(alice.ID, root.ID, huddle.PermissionMember))
}
