package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle"
)

func TestMessageIDsAreGloballyMonotonic(t *testing.T) {
	w := New()
	u := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))
	c := w.CreateChannel("general", true, u.ID)
	d := w.CreateDM("userone", u.ID, []int64{u.ID})

	var last int64
	for i := 0; i < 10; i++ {
		ref := huddle.ChannelRef(c.ID)
		if i%2 == 1 {
			ref = huddle.DMRef(d.ID)
		}

		id := w.NextMessageID()
		assert.Greater(t, id, last)
		last = id

		m := &huddle.Message{ID: id, Author: u.ID, Body: "hello", Container: ref}
		w.PutMessage(m)
		require.True(t, w.AppendMessage(m))
	}

	assert.Len(t, c.Messages, 5)
	assert.Len(t, d.Messages, 5)
}

func TestUnlinkMessageKeepsIDReserved(t *testing.T) {
	w := New()
	u := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))
	c := w.CreateChannel("general", true, u.ID)

	m := &huddle.Message{ID: w.NextMessageID(), Author: u.ID, Body: "hello", Container: huddle.ChannelRef(c.ID)}
	w.PutMessage(m)
	w.AppendMessage(m)

	w.UnlinkMessage(m)
	m.Removed = true

	assert.Empty(t, c.Messages)
	assert.Equal(t, huddle.ContainerNone, m.Container.Kind)

	_, ok := w.Message(m.ID)
	assert.False(t, ok)

	// the counter never hands the id out again
	assert.Greater(t, w.NextMessageID(), m.ID)
}

func TestFirstUserIsGlobalOwner(t *testing.T) {
	w := New()
	first := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))
	second := w.CreateUser("two@test.com", "user two", "usertwo", []byte("pass"))

	assert.Equal(t, huddle.PermissionOwner, first.Permission)
	assert.Equal(t, huddle.PermissionMember, second.Permission)
	assert.Equal(t, 1, w.GlobalOwners())
}

func TestReleaseIdentityFreesHandleAndEmail(t *testing.T) {
	w := New()
	u := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))

	require.True(t, w.HandleTaken("userone"))
	require.True(t, w.EmailTaken("one@test.com"))

	w.ReleaseIdentity(u)

	assert.False(t, w.HandleTaken("userone"))
	assert.False(t, w.EmailTaken("one@test.com"))

	// the record itself survives under its id
	_, ok := w.User(u.ID)
	assert.True(t, ok)
}

func TestNotificationsReadWindow(t *testing.T) {
	w := New()
	u := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))

	for i := 0; i < 25; i++ {
		w.Notify(u.ID, &huddle.Notification{
			ChannelID: int64(i),
			DMID:      huddle.NoOrigin,
			Message:   "hello",
		})
	}

	got := w.Notifications(u.ID)
	require.Len(t, got, huddle.NotificationWindow)

	// newest first
	assert.Equal(t, int64(24), got[0].ChannelID)
	assert.Equal(t, int64(5), got[len(got)-1].ChannelID)
}

func TestDMTombstonePreservesMessageList(t *testing.T) {
	w := New()
	u := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))
	d := w.CreateDM("userone", u.ID, []int64{u.ID})

	m := &huddle.Message{ID: w.NextMessageID(), Author: u.ID, Body: "hi", Container: huddle.DMRef(d.ID)}
	w.PutMessage(m)
	w.AppendMessage(m)

	d.Tombstone()

	_, ok := w.DM(d.ID)
	assert.False(t, ok)
	assert.Empty(t, d.Members)
	assert.Empty(t, d.Name)
	assert.Len(t, d.Messages, 1)
}

func TestSessions(t *testing.T) {
	w := New()
	u := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))

	w.AddSession(u.ID, "session-a")
	w.AddSession(u.ID, "session-b")

	assert.True(t, w.HasSession(u.ID, "session-a"))
	assert.True(t, w.DropSession(u.ID, "session-a"))
	assert.False(t, w.HasSession(u.ID, "session-a"))
	assert.False(t, w.DropSession(u.ID, "session-a"))

	w.ClearSessions(u.ID)
	assert.False(t, w.HasSession(u.ID, "session-b"))
}
