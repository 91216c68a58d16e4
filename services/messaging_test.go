package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/archive"
)

func TestSendBodyBounds(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "al@test.com", "Al Ice")
	c := e.channel(t, u.ID, "general")

	_, err := e.msg.Send(u.ID, c.ID, "")
	assert.True(t, huddle.IsInputError(err))

	_, err = e.msg.Send(u.ID, c.ID, strings.Repeat("x", huddle.MaxBodyLength+1))
	assert.True(t, huddle.IsInputError(err))

	_, err = e.msg.Send(u.ID, c.ID, "x")
	assert.NoError(t, err)

	_, err = e.msg.Send(u.ID, c.ID, strings.Repeat("x", huddle.MaxBodyLength))
	assert.NoError(t, err)
}

func TestSendContracts(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "al@test.com", "Al Ice")
	outsider := e.user(t, "bo@test.com", "Bob")
	c := e.channel(t, u.ID, "general")

	_, err := e.msg.Send(u.ID, 999, "hello")
	assert.True(t, huddle.IsInputError(err))

	_, err = e.msg.Send(outsider.ID, c.ID, "hello")
	assert.True(t, huddle.IsAccessError(err))

	first, err := e.msg.Send(u.ID, c.ID, "hello")
	require.NoError(t, err)
	second, err := e.msg.Send(u.ID, c.ID, "again")
	require.NoError(t, err)
	assert.Greater(t, second, first)

	stats, err := e.get.UserStats(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.MessagesSent)

	entries := e.rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, archive.EventSend, entries[0].Event)
	assert.Equal(t, "hello", entries[0].Body)
}

func TestPagination(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "al@test.com", "Al Ice")
	c := e.channel(t, u.ID, "general")

	for i := 0; i < 120; i++ {
		_, err := e.msg.Send(u.ID, c.ID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	// first page: newest first, a full page, more behind it
	page, err := e.msg.ListChannel(u.ID, c.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, huddle.PageSize)
	assert.Equal(t, "message 119", page.Messages[0].Body)
	assert.Equal(t, "message 70", page.Messages[49].Body)
	assert.Equal(t, 50, page.End)

	page, err = e.msg.ListChannel(u.ID, c.ID, page.End)
	require.NoError(t, err)
	require.Len(t, page.Messages, huddle.PageSize)
	assert.Equal(t, "message 69", page.Messages[0].Body)
	assert.Equal(t, 100, page.End)

	// last, short page
	page, err = e.msg.ListChannel(u.ID, c.ID, page.End)
	require.NoError(t, err)
	require.Len(t, page.Messages, 20)
	assert.Equal(t, "message 0", page.Messages[19].Body)
	assert.Equal(t, -1, page.End)

	// starting exactly at the count yields an empty final page
	page, err = e.msg.ListChannel(u.ID, c.ID, 120)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.Equal(t, -1, page.End)

	_, err = e.msg.ListChannel(u.ID, c.ID, 121)
	assert.True(t, huddle.IsInputError(err))
	_, err = e.msg.ListChannel(u.ID, c.ID, -1)
	assert.True(t, huddle.IsInputError(err))
}

func TestShortHistoryEndsPage(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "al@test.com", "Al Ice")
	c := e.channel(t, u.ID, "general")

	for i := 0; i < 3; i++ {
		_, err := e.msg.Send(u.ID, c.ID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	page, err := e.msg.ListChannel(u.ID, c.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 3)
	assert.Equal(t, -1, page.End)
}

func TestEditAndRemovePermissions(t *testing.T) {
	e := newEnv(t)
	globalOwner := e.user(t, "root@test.com", "Root")
	owner := e.user(t, "owner@test.com", "Owner")
	member := e.user(t, "member@test.com", "Member")
	c := e.channel(t, owner.ID, "general")
	require.NoError(t, e.member.Invite(owner.ID, c.ID, member.ID))

	id, err := e.msg.Send(member.ID, c.ID, "first draft")
	require.NoError(t, err)

	other := e.user(t, "other@test.com", "Other")
	require.NoError(t, e.member.Invite(owner.ID, c.ID, other.ID))

	// a plain member may not touch someone else's message
	err = e.msg.Edit(other.ID, id, "hijacked")
	assert.True(t, huddle.IsAccessError(err))
	err = e.msg.Remove(other.ID, id)
	assert.True(t, huddle.IsAccessError(err))

	// the author, a channel owner and a global owner all may
	require.NoError(t, e.msg.Edit(member.ID, id, "second draft"))
	require.NoError(t, e.msg.Edit(owner.ID, id, "third draft"))
	require.NoError(t, e.msg.Edit(globalOwner.ID, id, "fourth draft"))

	page, err := e.msg.ListChannel(member.ID, c.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "fourth draft", page.Messages[0].Body)
}

func TestEditToEmptyRemoves(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "al@test.com", "Al Ice")
	c := e.channel(t, u.ID, "general")

	id, err := e.msg.Send(u.ID, c.ID, "disappearing")
	require.NoError(t, err)
	require.NoError(t, e.msg.Edit(u.ID, id, ""))

	page, err := e.msg.ListChannel(u.ID, c.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)

	// a removed message is gone for every later operation
	err = e.msg.Edit(u.ID, id, "resurrected")
	assert.True(t, huddle.IsInputError(err))
	err = e.msg.React(u.ID, id, huddle.ReactThumbsUp)
	assert.True(t, huddle.IsInputError(err))

	last := e.rec.Entries()[len(e.rec.Entries())-1]
	assert.Equal(t, archive.EventRemove, last.Event)
	assert.Empty(t, last.Body)
}

func TestReactions(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice@test.com", "Alice")
	bob := e.user(t, "bob@test.com", "Bob")
	c := e.channel(t, alice.ID, "general")
	require.NoError(t, e.member.Invite(alice.ID, c.ID, bob.ID))

	id, err := e.msg.Send(alice.ID, c.ID, "react to me")
	require.NoError(t, err)

	err = e.msg.React(bob.ID, id, 42)
	assert.True(t, huddle.IsInputError(err))

	require.NoError(t, e.msg.React(bob.ID, id, huddle.ReactThumbsUp))

	// double react
	err = e.msg.React(bob.ID, id, huddle.ReactThumbsUp)
	assert.True(t, huddle.IsInputError(err))

	// the author sees the reaction, not attributed to themselves
	page, err := e.msg.ListChannel(alice.ID, c.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages[0].Reactions, 1)
	r := page.Messages[0].Reactions[0]
	assert.Equal(t, huddle.ReactThumbsUp, r.Kind)
	assert.Equal(t, []int64{bob.ID}, r.UserIDs)
	assert.False(t, r.IsReacted)

	// the reactor sees their own flag set
	page, err = e.msg.ListChannel(bob.ID, c.ID, 0)
	require.NoError(t, err)
	assert.True(t, page.Messages[0].Reactions[0].IsReacted)

	// the author is notified
	notifications, err := e.notify.Notifications(alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "reacted to your message in general")

	// unreact without a prior reaction
	err = e.msg.Unreact(alice.ID, id, huddle.ReactThumbsUp)
	assert.True(t, huddle.IsInputError(err))

	require.NoError(t, e.msg.Unreact(bob.ID, id, huddle.ReactThumbsUp))
	page, err = e.msg.ListChannel(bob.ID, c.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages[0].Reactions)
}

func TestPinPermissions(t *testing.T) {
	e := newEnv(t)
	globalOwner := e.user(t, "root@test.com", "Root")
	owner := e.user(t, "owner@test.com", "Owner")
	member := e.user(t, "member@test.com", "Member")
	c := e.channel(t, owner.ID, "general")
	require.NoError(t, e.member.Invite(owner.ID, c.ID, member.ID))

	id, err := e.msg.Send(member.ID, c.ID, "pin me")
	require.NoError(t, err)

	// plain members, even the author, may not pin in a channel
	err = e.msg.Pin(member.ID, id)
	assert.True(t, huddle.IsAccessError(err))

	require.NoError(t, e.msg.Pin(owner.ID, id))
	err = e.msg.Pin(globalOwner.ID, id)
	assert.True(t, huddle.IsInputError(err))

	page, err := e.msg.ListChannel(member.ID, c.ID, 0)
	require.NoError(t, err)
	assert.True(t, page.Messages[0].Pinned)

	require.NoError(t, e.msg.Unpin(globalOwner.ID, id))
	err = e.msg.Unpin(owner.ID, id)
	assert.True(t, huddle.IsInputError(err))
}

func TestPinInDMIsCreatorOnly(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice@test.com", "Alice")
	bob := e.user(t, "bob@test.com", "Bob")

	d, err := e.member.CreateDM(alice.ID, []int64{bob.ID})
	require.NoError(t, err)

	id, err := e.msg.SendDM(bob.ID, d.ID, "pin me")
	require.NoError(t, err)

	err = e.msg.Pin(bob.ID, id)
	assert.True(t, huddle.IsAccessError(err))
	assert.NoError(t, e.msg.Pin(alice.ID, id))
}

func TestShare(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice@test.com", "Alice")
	bob := e.user(t, "bob@test.com", "Bob")
	src := e.channel(t, alice.ID, "source")
	dst := e.channel(t, alice.ID, "dest")
	other := e.channel(t, bob.ID, "other")

	id, err := e.msg.Send(alice.ID, src.ID, "the original")
	require.NoError(t, err)

	// exactly one destination
	_, err = e.msg.Share(alice.ID, id, "", -1, -1)
	assert.True(t, huddle.IsInputError(err))
	_, err = e.msg.Share(alice.ID, id, "", dst.ID, 7)
	assert.True(t, huddle.IsInputError(err))

	// must be a member of the destination
	_, err = e.msg.Share(alice.ID, id, "", other.ID, -1)
	assert.True(t, huddle.IsAccessError(err))

	// must be a member of the source container
	_, err = e.msg.Share(bob.ID, id, "", other.ID, -1)
	assert.True(t, huddle.IsAccessError(err))

	shared, err := e.msg.Share(alice.ID, id, "look at this", dst.ID, -1)
	require.NoError(t, err)
	assert.Greater(t, shared, id)

	page, err := e.msg.ListChannel(alice.ID, dst.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "look at this\n\n'''\nthe original\n'''", page.Messages[0].Body)

	// without an annotation only the quoted body remains
	bare, err := e.msg.Share(alice.ID, id, "", dst.ID, -1)
	require.NoError(t, err)
	page, err = e.msg.ListChannel(alice.ID, dst.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, bare, page.Messages[0].ID)
	assert.Equal(t, "'''\nthe original\n'''", page.Messages[0].Body)
}

func TestShareLengthBound(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "al@test.com", "Al Ice")
	c := e.channel(t, u.ID, "general")

	id, err := e.msg.Send(u.ID, c.ID, strings.Repeat("x", huddle.MaxBodyLength))
	require.NoError(t, err)

	// quoting pushes the copy over the cap
	_, err = e.msg.Share(u.ID, id, "", c.ID, -1)
	assert.True(t, huddle.IsInputError(err))
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice@test.com", "Alice")
	bob := e.user(t, "bob@test.com", "Bob")
	mine := e.channel(t, alice.ID, "mine")
	theirs := e.channel(t, bob.ID, "theirs")

	_, err := e.msg.Send(alice.ID, mine.ID, "deploy on friday")
	require.NoError(t, err)
	_, err = e.msg.Send(alice.ID, mine.ID, "lunch plans")
	require.NoError(t, err)
	_, err = e.msg.Send(bob.ID, theirs.ID, "secret deploy notes")
	require.NoError(t, err)

	d, err := e.member.CreateDM(alice.ID, []int64{bob.ID})
	require.NoError(t, err)
	_, err = e.msg.SendDM(bob.ID, d.ID, "deploy went fine")
	require.NoError(t, err)

	// only containers alice belongs to are searched
	matches, err := e.msg.Search(alice.ID, "deploy")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "deploy on friday", matches[0].Body)
	assert.Equal(t, "deploy went fine", matches[1].Body)

	matches, err = e.msg.Search(alice.ID, "nothing like this")
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = e.msg.Search(alice.ID, "")
	assert.True(t, huddle.IsInputError(err))
}
