package store

import (
	"sort"

	"github.com/huddlehq/huddle"
)

// Channel is the store-side channel record: the public fields plus
// the ordered owner, member and message id lists. Owners are always
// a subset of members. Messages are kept oldest first.
type Channel struct {
	ID       int64
	Name     string
	Public   bool
	Owners   []int64
	Members  []int64
	Messages []int64
}

// ToModel converts the store record into the public channel model.
func (c *Channel) ToModel() *huddle.Channel {
	return &huddle.Channel{
		ID:     c.ID,
		Name:   c.Name,
		Public: c.Public,
	}
}

// IsMember reports whether the user belongs to the channel.
func (c *Channel) IsMember(userID int64) bool {
	return contains(c.Members, userID)
}

// IsOwner reports whether the user owns the channel.
func (c *Channel) IsOwner(userID int64) bool {
	return contains(c.Owners, userID)
}

// AddMember appends the user to the member list.
func (c *Channel) AddMember(userID int64) {
	c.Members = append(c.Members, userID)
}

// RemoveMember drops the user from both the member and owner lists.
func (c *Channel) RemoveMember(userID int64) {
	c.Members = remove(c.Members, userID)
	c.Owners = remove(c.Owners, userID)
}

// AddOwner appends the user to the owner list.
func (c *Channel) AddOwner(userID int64) {
	c.Owners = append(c.Owners, userID)
}

// RemoveOwner drops the user from the owner list only; membership
// is untouched.
func (c *Channel) RemoveOwner(userID int64) {
	c.Owners = remove(c.Owners, userID)
}

// CreateChannel allocates the next channel id and stores a channel
// with the creator as sole owner and member.
func (w *Workspace) CreateChannel(name string, public bool, creator int64) *Channel {
	w.nextChannelID++
	c := &Channel{
		ID:      w.nextChannelID,
		Name:    name,
		Public:  public,
		Owners:  []int64{creator},
		Members: []int64{creator},
	}
	w.channels[c.ID] = c
	return c
}

// Channel looks a channel up by id.
func (w *Workspace) Channel(id int64) (*Channel, bool) {
	c, ok := w.channels[id]
	return c, ok
}

// Channels returns every channel ordered by id.
func (w *Workspace) Channels() []*Channel {
	ids := make([]int64, 0, len(w.channels))
	for id := range w.channels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	channels := make([]*Channel, 0, len(ids))
	for _, id := range ids {
		channels = append(channels, w.channels[id])
	}
	return channels
}

// ChannelsFor returns the channels the user belongs to, ordered
// by id.
func (w *Workspace) ChannelsFor(userID int64) []*Channel {
	var channels []*Channel
	for _, c := range w.Channels() {
		if c.IsMember(userID) {
			channels = append(channels, c)
		}
	}
	return channels
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
