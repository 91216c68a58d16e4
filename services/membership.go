package services

import (
	"sort"
	"strings"
	"time"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/archive"
	"github.com/huddlehq/huddle/store"
)

type membership struct {
	WS      *store.Workspace
	Archive archive.Recorder
}

// NewMembership wraps the workspace with the huddle.Membership
// implementation governing channel and DM membership. Message
// removals caused by DM deletion land in the audit archive.
func NewMembership(ws *store.Workspace, rec archive.Recorder) (huddle.Membership, error) {
	return &membership{WS: ws, Archive: rec}, nil
}

// CreateChannel makes a new channel with the actor as sole owner
// and member.
func (s *membership) CreateChannel(actorID int64, name string, public bool) (*huddle.Channel, error) {
	if n := len([]rune(name)); n < 1 || n > 20 {
		return nil, huddle.Inputf("channel name must be between 1 and 20 characters")
	}

	s.WS.Lock()
	defer s.WS.Unlock()

	if _, ok := s.WS.ActiveUser(actorID); !ok {
		return nil, huddle.Accessf("user no longer exists")
	}

	c := s.WS.CreateChannel(name, public, actorID)
	s.WS.Stats(actorID).ChannelsJoined++
	return c.ToModel(), nil
}

// Invite adds the target to the channel's member list and notifies
// them. The actor must already be a member.
func (s *membership) Invite(actorID, channelID, targetID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		return huddle.Inputf("channel %d does not exist", channelID)
	}
	target, ok := s.WS.ActiveUser(targetID)
	if !ok {
		return huddle.Inputf("user %d does not exist", targetID)
	}
	if !c.IsMember(actorID) {
		return huddle.Accessf("you are not a member of this channel")
	}
	if c.IsMember(targetID) {
		return huddle.Inputf("user %d is already a member", targetID)
	}

	c.AddMember(targetID)
	s.WS.Stats(targetID).ChannelsJoined++

	actor, _ := s.WS.ActiveUser(actorID)
	notifyAdded(s.WS, actor, target.ID, huddle.ChannelRef(channelID))
	return nil
}

// Join adds the actor to a public channel. Global owners may join
// private channels too.
func (s *membership) Join(actorID, channelID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		return huddle.Inputf("channel %d does not exist", channelID)
	}
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok {
		return huddle.Accessf("user no longer exists")
	}
	if c.IsMember(actorID) {
		return huddle.Inputf("you are already a member")
	}
	if !c.Public && actor.Permission != huddle.PermissionOwner {
		return huddle.Accessf("channel %d is private", channelID)
	}

	c.AddMember(actorID)
	s.WS.Stats(actorID).ChannelsJoined++
	return nil
}

// Leave drops the actor from the channel. An owner who leaves gives
// up ownership; the channel persists even if no owners remain.
func (s *membership) Leave(actorID, channelID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		return huddle.Inputf("channel %d does not exist", channelID)
	}
	if !c.IsMember(actorID) {
		return huddle.Accessf("you are not a member of this channel")
	}

	c.RemoveMember(actorID)
	s.WS.Stats(actorID).ChannelsJoined--
	return nil
}

// AddOwner promotes a member to channel owner. Only channel owners
// and global owners may promote.
func (s *membership) AddOwner(actorID, channelID, targetID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		return huddle.Inputf("channel %d does not exist", channelID)
	}
	if err := s.requireChannelAdmin(c, actorID); err != nil {
		return err
	}
	if !c.IsMember(targetID) {
		return huddle.Inputf("user %d is not a member of this channel", targetID)
	}
	if c.IsOwner(targetID) {
		return huddle.Inputf("user %d is already an owner", targetID)
	}

	c.AddOwner(targetID)
	return nil
}

// RemoveOwner demotes a channel owner to plain member. The last
// owner can never be stripped by this path.
func (s *membership) RemoveOwner(actorID, channelID, targetID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		return huddle.Inputf("channel %d does not exist", channelID)
	}
	if err := s.requireChannelAdmin(c, actorID); err != nil {
		return err
	}
	if !c.IsOwner(targetID) {
		return huddle.Inputf("user %d is not an owner", targetID)
	}
	if len(c.Owners) == 1 {
		return huddle.Inputf("cannot remove the only owner")
	}

	c.RemoveOwner(targetID)
	return nil
}

// Channels lists the channels the actor belongs to.
func (s *membership) Channels(actorID int64) ([]*huddle.Channel, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	channels := []*huddle.Channel{}
	for _, c := range s.WS.ChannelsFor(actorID) {
		channels = append(channels, c.ToModel())
	}
	return channels, nil
}

// AllChannels lists every channel in the workspace.
func (s *membership) AllChannels(actorID int64) ([]*huddle.Channel, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	channels := []*huddle.Channel{}
	for _, c := range s.WS.Channels() {
		channels = append(channels, c.ToModel())
	}
	return channels, nil
}

// ChannelDetails returns the channel with owner and member
// profiles. Members only.
func (s *membership) ChannelDetails(actorID, channelID int64) (*huddle.ChannelDetails, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		return nil, huddle.Inputf("channel %d does not exist", channelID)
	}
	if !c.IsMember(actorID) {
		return nil, huddle.Accessf("you are not a member of this channel")
	}

	return &huddle.ChannelDetails{
		Channel: *c.ToModel(),
		Owners:  s.profiles(c.Owners),
		Members: s.profiles(c.Members),
	}, nil
}

// CreateDM makes a private group with the actor and the supplied
// members. The name is the sorted, comma-joined member handles.
func (s *membership) CreateDM(actorID int64, memberIDs []int64) (*huddle.DirectMessage, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	actor, ok := s.WS.ActiveUser(actorID)
	if !ok {
		return nil, huddle.Accessf("user no longer exists")
	}

	members := []int64{actorID}
	seen := map[int64]bool{actorID: true}
	for _, id := range memberIDs {
		if seen[id] {
			return nil, huddle.Inputf("duplicate member id %d", id)
		}
		if _, ok := s.WS.ActiveUser(id); !ok {
			return nil, huddle.Inputf("user %d does not exist", id)
		}
		seen[id] = true
		members = append(members, id)
	}

	handles := make([]string, 0, len(members))
	for _, id := range members {
		u, _ := s.WS.ActiveUser(id)
		handles = append(handles, u.Handle)
	}
	sort.Strings(handles)

	d := s.WS.CreateDM(strings.Join(handles, ", "), actorID, members)
	for _, id := range members {
		s.WS.Stats(id).DMsJoined++
		if id != actorID {
			notifyAdded(s.WS, actor, id, huddle.DMRef(d.ID))
		}
	}
	return d.ToModel(), nil
}

// LeaveDM drops the actor from the DM. A leaving creator clears the
// creator reference but the DM persists for the rest.
func (s *membership) LeaveDM(actorID, dmID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	d, ok := s.WS.DM(dmID)
	if !ok {
		return huddle.Inputf("dm %d does not exist", dmID)
	}
	if !d.IsMember(actorID) {
		return huddle.Accessf("you are not a member of this dm")
	}

	d.RemoveMember(actorID)
	s.WS.Stats(actorID).DMsJoined--
	return nil
}

// RemoveDM tombstones the DM and soft-deletes every message it
// owns. Only the creator may remove a DM.
func (s *membership) RemoveDM(actorID, dmID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	d, ok := s.WS.DM(dmID)
	if !ok {
		return huddle.Inputf("dm %d does not exist", dmID)
	}
	if d.Creator != actorID {
		return huddle.Accessf("only the creator may remove this dm")
	}

	now := time.Now().Unix()
	for _, id := range d.Messages {
		if m, ok := s.WS.Message(id); ok {
			m.Removed = true
			m.Body = ""
			m.Container = huddle.NoContainer()
			s.Archive.Record(archive.Entry{
				MessageID: m.ID,
				Author:    m.Author,
				Event:     archive.EventRemove,
				At:        now,
			})
		}
	}
	for _, id := range d.Members {
		s.WS.Stats(id).DMsJoined--
	}
	d.Tombstone()
	return nil
}

// DMs lists the DMs the actor belongs to.
func (s *membership) DMs(actorID int64) ([]*huddle.DirectMessage, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	dms := []*huddle.DirectMessage{}
	for _, d := range s.WS.DMsFor(actorID) {
		dms = append(dms, d.ToModel())
	}
	return dms, nil
}

// DMDetails returns the DM with member profiles. Members only.
func (s *membership) DMDetails(actorID, dmID int64) (*huddle.DMDetails, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	d, ok := s.WS.DM(dmID)
	if !ok {
		return nil, huddle.Inputf("dm %d does not exist", dmID)
	}
	if !d.IsMember(actorID) {
		return nil, huddle.Accessf("you are not a member of this dm")
	}

	return &huddle.DMDetails{
		DM:      *d.ToModel(),
		Members: s.profiles(d.Members),
	}, nil
}

// requireChannelAdmin checks the actor may administer the channel:
// a channel owner or a global owner. Callers hold the lock.
func (s *membership) requireChannelAdmin(c *store.Channel, actorID int64) error {
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok {
		return huddle.Accessf("user no longer exists")
	}
	if !c.IsOwner(actorID) && actor.Permission != huddle.PermissionOwner {
		return huddle.Accessf("you do not have owner permissions in this channel")
	}
	return nil
}

// profiles resolves a list of user ids to public profiles. Callers
// hold the lock.
func (s *membership) profiles(ids []int64) []*huddle.Profile {
	out := make([]*huddle.Profile, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.WS.User(id); ok {
			out = append(out, u.Profile())
		}
	}
	return out
}
