package services

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/archive"
	"github.com/huddlehq/huddle/store"
)

type messenger struct {
	WS      *store.Workspace
	Archive archive.Recorder
}

// NewMessenger wraps the workspace with the huddle.Messenger
// implementation owning the message lifecycle. Every send, edit
// and removal is mirrored into the audit archive.
func NewMessenger(ws *store.Workspace, rec archive.Recorder) (huddle.Messenger, error) {
	return &messenger{WS: ws, Archive: rec}, nil
}

// Send posts a message to a channel and runs tag dispatch.
func (s *messenger) Send(actorID, channelID int64, body string) (int64, error) {
	return s.sendTo(actorID, huddle.ChannelRef(channelID), body)
}

// SendDM posts a message to a DM and runs tag dispatch.
func (s *messenger) SendDM(actorID, dmID int64, body string) (int64, error) {
	return s.sendTo(actorID, huddle.DMRef(dmID), body)
}

func (s *messenger) sendTo(actorID int64, ref huddle.ContainerRef, body string) (int64, error) {
	if !validBody(body) {
		return 0, huddle.Inputf("message must be between 1 and %d characters", huddle.MaxBodyLength)
	}

	s.WS.Lock()
	defer s.WS.Unlock()

	if _, ok := s.WS.ContainerMembers(ref); !ok {
		return 0, huddle.Inputf("container %d does not exist", ref.ID)
	}
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok || !s.WS.MemberOf(ref, actorID) {
		return 0, huddle.Accessf("you are not a member of this container")
	}

	m := &huddle.Message{
		ID:        s.WS.NextMessageID(),
		Author:    actorID,
		Body:      body,
		CreatedAt: time.Now().Unix(),
		Container: ref,
		Reactions: make(map[int][]int64),
	}
	s.WS.PutMessage(m)
	s.WS.AppendMessage(m)
	s.WS.Stats(actorID).MessagesSent++

	s.Archive.Record(archive.Entry{
		MessageID: m.ID,
		Author:    m.Author,
		Event:     archive.EventSend,
		Body:      m.Body,
		At:        m.CreatedAt,
	})

	notifyTags(s.WS, actor, ref, body)
	return m.ID, nil
}

// Edit replaces a message body and re-runs tag detection. An empty
// body removes the message instead.
func (s *messenger) Edit(actorID, messageID int64, body string) error {
	if body == "" {
		return s.Remove(actorID, messageID)
	}
	if utf8.RuneCountInString(body) > huddle.MaxBodyLength {
		return huddle.Inputf("message must be at most %d characters", huddle.MaxBodyLength)
	}

	s.WS.Lock()
	defer s.WS.Unlock()

	m, ok := s.WS.Message(messageID)
	if !ok {
		return huddle.Inputf("message %d does not exist", messageID)
	}
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok {
		return huddle.Accessf("user no longer exists")
	}
	if !s.canAlter(actor, m) {
		return huddle.Accessf("you may not edit this message")
	}

	m.Body = body
	s.Archive.Record(archive.Entry{
		MessageID: m.ID,
		Author:    m.Author,
		Event:     archive.EventEdit,
		Body:      body,
		At:        time.Now().Unix(),
	})

	notifyTags(s.WS, actor, m.Container, body)
	return nil
}

// Remove soft-deletes a message: the body is cleared and the
// container linkage stripped, but the id stays reserved forever.
func (s *messenger) Remove(actorID, messageID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	m, ok := s.WS.Message(messageID)
	if !ok {
		return huddle.Inputf("message %d does not exist", messageID)
	}
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok {
		return huddle.Accessf("user no longer exists")
	}
	if !s.canAlter(actor, m) {
		return huddle.Accessf("you may not remove this message")
	}

	s.WS.UnlinkMessage(m)
	m.Body = ""
	m.Removed = true

	s.Archive.Record(archive.Entry{
		MessageID: m.ID,
		Author:    m.Author,
		Event:     archive.EventRemove,
		At:        time.Now().Unix(),
	})
	return nil
}

// React adds the actor's reaction of the given kind and notifies
// the message author. Reacting twice with one kind is rejected.
func (s *messenger) React(actorID, messageID int64, kind int) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	m, actor, err := s.reactTarget(actorID, messageID, kind)
	if err != nil {
		return err
	}
	if m.ReactedBy(actorID, kind) {
		return huddle.Inputf("you have already reacted to this message")
	}

	m.Reactions[kind] = append(m.Reactions[kind], actorID)
	notifyReact(s.WS, actor, m.Author, m.Container)
	return nil
}

// Unreact removes the actor's reaction of the given kind.
func (s *messenger) Unreact(actorID, messageID int64, kind int) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	m, _, err := s.reactTarget(actorID, messageID, kind)
	if err != nil {
		return err
	}
	if !m.ReactedBy(actorID, kind) {
		return huddle.Inputf("you have not reacted to this message")
	}

	reactors := m.Reactions[kind]
	out := reactors[:0]
	for _, id := range reactors {
		if id != actorID {
			out = append(out, id)
		}
	}
	m.Reactions[kind] = out
	return nil
}

// Pin marks a message. Channel pins need channel-owner or global
// owner standing; DM pins are the creator's alone.
func (s *messenger) Pin(actorID, messageID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	m, err := s.pinTarget(actorID, messageID)
	if err != nil {
		return err
	}
	if m.Pinned {
		return huddle.Inputf("message %d is already pinned", messageID)
	}
	m.Pinned = true
	return nil
}

// Unpin clears a pin, with the same permission rule as Pin.
func (s *messenger) Unpin(actorID, messageID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	m, err := s.pinTarget(actorID, messageID)
	if err != nil {
		return err
	}
	if !m.Pinned {
		return huddle.Inputf("message %d is not pinned", messageID)
	}
	m.Pinned = false
	return nil
}

// Share posts an annotated copy of a message into exactly one other
// container. The copy gets a fresh id; the original is untouched.
func (s *messenger) Share(actorID, sourceID int64, annotation string, channelID, dmID int64) (int64, error) {
	var ref huddle.ContainerRef
	switch {
	case channelID != -1 && dmID == -1:
		ref = huddle.ChannelRef(channelID)
	case channelID == -1 && dmID != -1:
		ref = huddle.DMRef(dmID)
	default:
		return 0, huddle.Inputf("exactly one of channel and dm must be given")
	}

	s.WS.Lock()
	defer s.WS.Unlock()

	src, ok := s.WS.Message(sourceID)
	if !ok {
		return 0, huddle.Inputf("message %d does not exist", sourceID)
	}
	if _, ok := s.WS.ContainerMembers(ref); !ok {
		return 0, huddle.Inputf("container %d does not exist", ref.ID)
	}
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok || !s.WS.MemberOf(src.Container, actorID) {
		return 0, huddle.Accessf("you are not a member of the message's container")
	}
	if !s.WS.MemberOf(ref, actorID) {
		return 0, huddle.Accessf("you are not a member of the destination")
	}

	body := "'''\n" + src.Body + "\n'''"
	if annotation != "" {
		body = annotation + "\n\n" + body
	}
	if utf8.RuneCountInString(body) > huddle.MaxBodyLength {
		return 0, huddle.Inputf("shared message exceeds %d characters", huddle.MaxBodyLength)
	}

	m := &huddle.Message{
		ID:        s.WS.NextMessageID(),
		Author:    actorID,
		Body:      body,
		CreatedAt: time.Now().Unix(),
		Container: ref,
		Reactions: make(map[int][]int64),
	}
	s.WS.PutMessage(m)
	s.WS.AppendMessage(m)
	s.WS.Stats(actorID).MessagesSent++

	s.Archive.Record(archive.Entry{
		MessageID: m.ID,
		Author:    m.Author,
		Event:     archive.EventSend,
		Body:      m.Body,
		At:        m.CreatedAt,
	})

	notifyTags(s.WS, actor, ref, body)
	return m.ID, nil
}

// ListChannel pages through a channel's history.
func (s *messenger) ListChannel(actorID, channelID int64, start int) (*huddle.Page, error) {
	return s.list(actorID, huddle.ChannelRef(channelID), start)
}

// ListDM pages through a DM's history.
func (s *messenger) ListDM(actorID, dmID int64, start int) (*huddle.Page, error) {
	return s.list(actorID, huddle.DMRef(dmID), start)
}

// list returns at most one page of messages newest first, starting
// at the given logical position from the newest end. End is -1 when
// the page reaches the oldest message.
func (s *messenger) list(actorID int64, ref huddle.ContainerRef, start int) (*huddle.Page, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	ids, ok := s.WS.ContainerMessages(ref)
	if !ok {
		return nil, huddle.Inputf("container %d does not exist", ref.ID)
	}
	if !s.WS.MemberOf(ref, actorID) {
		return nil, huddle.Accessf("you are not a member of this container")
	}
	if start < 0 || start > len(ids) {
		return nil, huddle.Inputf("start %d is beyond the message count", start)
	}

	views := []*huddle.MessageView{}
	for i := len(ids) - 1 - start; i >= 0 && len(views) < huddle.PageSize; i-- {
		if m, ok := s.WS.Message(ids[i]); ok {
			views = append(views, messageView(m, actorID))
		}
	}

	end := start + huddle.PageSize
	if end >= len(ids) {
		end = -1
	}
	return &huddle.Page{Messages: views, Start: start, End: end}, nil
}

// Search returns every message containing the query substring
// across all containers the actor belongs to.
func (s *messenger) Search(actorID int64, query string) ([]*huddle.MessageView, error) {
	if !validBody(query) {
		return nil, huddle.Inputf("query must be between 1 and %d characters", huddle.MaxBodyLength)
	}

	s.WS.Lock()
	defer s.WS.Unlock()

	var refs []huddle.ContainerRef
	for _, c := range s.WS.ChannelsFor(actorID) {
		refs = append(refs, huddle.ChannelRef(c.ID))
	}
	for _, d := range s.WS.DMsFor(actorID) {
		refs = append(refs, huddle.DMRef(d.ID))
	}

	matches := []*huddle.MessageView{}
	for _, ref := range refs {
		ids, _ := s.WS.ContainerMessages(ref)
		for _, id := range ids {
			m, ok := s.WS.Message(id)
			if ok && strings.Contains(m.Body, query) {
				matches = append(matches, messageView(m, actorID))
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

// canAlter implements the shared edit/remove permission rule: the
// author, a channel owner or global owner for channel messages, or
// the DM creator for DM messages. Callers hold the lock.
func (s *messenger) canAlter(actor *huddle.User, m *huddle.Message) bool {
	if actor.ID == m.Author {
		return true
	}
	switch m.Container.Kind {
	case huddle.ContainerChannel:
		if actor.Permission == huddle.PermissionOwner {
			return true
		}
		if c, ok := s.WS.Channel(m.Container.ID); ok {
			return c.IsOwner(actor.ID)
		}
	case huddle.ContainerDM:
		if d, ok := s.WS.DM(m.Container.ID); ok {
			return d.Creator == actor.ID
		}
	}
	return false
}

// reactTarget validates the common react/unreact inputs. Callers
// hold the lock.
func (s *messenger) reactTarget(actorID, messageID int64, kind int) (*huddle.Message, *huddle.User, error) {
	if kind != huddle.ReactThumbsUp {
		return nil, nil, huddle.Inputf("unknown reaction kind %d", kind)
	}
	m, ok := s.WS.Message(messageID)
	if !ok {
		return nil, nil, huddle.Inputf("message %d does not exist", messageID)
	}
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok || !s.WS.MemberOf(m.Container, actorID) {
		return nil, nil, huddle.Accessf("you are not a member of this container")
	}
	return m, actor, nil
}

// pinTarget validates the shared pin/unpin permission rule.
// Callers hold the lock.
func (s *messenger) pinTarget(actorID, messageID int64) (*huddle.Message, error) {
	m, ok := s.WS.Message(messageID)
	if !ok {
		return nil, huddle.Inputf("message %d does not exist", messageID)
	}
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok {
		return nil, huddle.Accessf("user no longer exists")
	}

	switch m.Container.Kind {
	case huddle.ContainerChannel:
		c, _ := s.WS.Channel(m.Container.ID)
		if c == nil || (!c.IsOwner(actorID) && actor.Permission != huddle.PermissionOwner) {
			return nil, huddle.Accessf("you do not have owner permissions in this channel")
		}
	case huddle.ContainerDM:
		d, _ := s.WS.DM(m.Container.ID)
		if d == nil || d.Creator != actorID {
			return nil, huddle.Accessf("only the dm creator may pin here")
		}
	default:
		return nil, huddle.Inputf("message %d does not exist", messageID)
	}
	return m, nil
}

// messageView projects a message for one viewer, computing the
// is-reacted flag from the reaction set. Callers hold the lock.
func messageView(m *huddle.Message, viewerID int64) *huddle.MessageView {
	reactions := []huddle.ReactionView{}
	kinds := make([]int, 0, len(m.Reactions))
	for kind := range m.Reactions {
		kinds = append(kinds, kind)
	}
	sort.Ints(kinds)
	for _, kind := range kinds {
		if len(m.Reactions[kind]) == 0 {
			continue
		}
		reactions = append(reactions, huddle.ReactionView{
			Kind:      kind,
			UserIDs:   append([]int64{}, m.Reactions[kind]...),
			IsReacted: m.ReactedBy(viewerID, kind),
		})
	}

	return &huddle.MessageView{
		ID:        m.ID,
		Author:    m.Author,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		Pinned:    m.Pinned,
		Reactions: reactions,
	}
}
