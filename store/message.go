package store

import (
	"github.com/huddlehq/huddle"
)

// NextMessageID draws the next id from the counter shared by every
// channel and DM. Ids are strictly increasing and never reused.
func (w *Workspace) NextMessageID() int64 {
	w.nextMessageID++
	return w.nextMessageID
}

// PutMessage stores a message record under its id.
func (w *Workspace) PutMessage(m *huddle.Message) {
	w.messages[m.ID] = m
}

// Message looks a message up by id. Removed and still-pending
// messages are not returned.
func (w *Workspace) Message(id int64) (*huddle.Message, bool) {
	m, ok := w.messages[id]
	if !ok || m.Removed || m.Pending {
		return nil, false
	}
	return m, true
}

// AppendMessage links a stored message into its container's ordered
// message list. It reports false if the container no longer exists,
// in which case the message stays out of every history.
func (w *Workspace) AppendMessage(m *huddle.Message) bool {
	switch m.Container.Kind {
	case huddle.ContainerChannel:
		c, ok := w.channels[m.Container.ID]
		if !ok {
			return false
		}
		c.Messages = append(c.Messages, m.ID)
		return true
	case huddle.ContainerDM:
		d, ok := w.dms[m.Container.ID]
		if !ok || d.Removed {
			return false
		}
		d.Messages = append(d.Messages, m.ID)
		return true
	}
	return false
}

// UnlinkMessage strips a message's container linkage: the id is
// dropped from the container's list and the reference cleared. The
// message record itself stays so the id remains reserved.
func (w *Workspace) UnlinkMessage(m *huddle.Message) {
	switch m.Container.Kind {
	case huddle.ContainerChannel:
		if c, ok := w.channels[m.Container.ID]; ok {
			c.Messages = remove(c.Messages, m.ID)
		}
	case huddle.ContainerDM:
		if d, ok := w.dms[m.Container.ID]; ok {
			d.Messages = remove(d.Messages, m.ID)
		}
	}
	m.Container = huddle.NoContainer()
}

// ContainerMessages returns a container's message ids oldest first.
// The second result is false if the container does not exist.
func (w *Workspace) ContainerMessages(ref huddle.ContainerRef) ([]int64, bool) {
	switch ref.Kind {
	case huddle.ContainerChannel:
		if c, ok := w.channels[ref.ID]; ok {
			return c.Messages, true
		}
	case huddle.ContainerDM:
		if d, ok := w.dms[ref.ID]; ok && !d.Removed {
			return d.Messages, true
		}
	}
	return nil, false
}

// ContainerMembers returns a container's member ids. The second
// result is false if the container does not exist.
func (w *Workspace) ContainerMembers(ref huddle.ContainerRef) ([]int64, bool) {
	switch ref.Kind {
	case huddle.ContainerChannel:
		if c, ok := w.channels[ref.ID]; ok {
			return c.Members, true
		}
	case huddle.ContainerDM:
		if d, ok := w.dms[ref.ID]; ok && !d.Removed {
			return d.Members, true
		}
	}
	return nil, false
}

// MemberOf reports whether the user belongs to the container.
func (w *Workspace) MemberOf(ref huddle.ContainerRef, userID int64) bool {
	members, ok := w.ContainerMembers(ref)
	if !ok {
		return false
	}
	return contains(members, userID)
}

// ContainerName returns the display name of a container, used when
// rendering notifications.
func (w *Workspace) ContainerName(ref huddle.ContainerRef) string {
	switch ref.Kind {
	case huddle.ContainerChannel:
		if c, ok := w.channels[ref.ID]; ok {
			return c.Name
		}
	case huddle.ContainerDM:
		if d, ok := w.dms[ref.ID]; ok {
			return d.Name
		}
	}
	return ""
}
