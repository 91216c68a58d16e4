package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelMembership(t *testing.T) {
	w := New()
	creator := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))
	other := w.CreateUser("two@test.com", "user two", "usertwo", []byte("pass"))

	c := w.CreateChannel("general", true, creator.ID)

	assert.True(t, c.IsMember(creator.ID))
	assert.True(t, c.IsOwner(creator.ID))
	assert.False(t, c.IsMember(other.ID))

	c.AddMember(other.ID)
	assert.True(t, c.IsMember(other.ID))
	assert.False(t, c.IsOwner(other.ID))

	c.AddOwner(other.ID)
	assert.True(t, c.IsOwner(other.ID))

	c.RemoveOwner(other.ID)
	assert.False(t, c.IsOwner(other.ID))
	assert.True(t, c.IsMember(other.ID))

	c.RemoveMember(creator.ID)
	assert.False(t, c.IsMember(creator.ID))
	assert.False(t, c.IsOwner(creator.ID))
}

func TestChannelsForOrdersByID(t *testing.T) {
	w := New()
	u := w.CreateUser("one@test.com", "user one", "userone", []byte("pass"))

	w.CreateChannel("beta", true, u.ID)
	w.CreateChannel("alpha", true, u.ID)
	w.CreateChannel("gamma", false, u.ID)

	channels := w.ChannelsFor(u.ID)
	assert.Len(t, channels, 3)
	assert.Equal(t, "beta", channels[0].Name)
	assert.Equal(t, "alpha", channels[1].Name)
	assert.Equal(t, "gamma", channels[2].Name)
}

func TestChannelToModel(t *testing.T) {
	c := &Channel{ID: 7, Name: "general", Public: true}
	m := c.ToModel()

	assert.Equal(t, c.ID, m.ID)
	assert.Equal(t, c.Name, m.Name)
	assert.True(t, m.Public)
}
