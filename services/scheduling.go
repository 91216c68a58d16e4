package services

import (
	"time"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/archive"
	"github.com/huddlehq/huddle/scheduler"
	"github.com/huddlehq/huddle/store"
)

type scheduling struct {
	WS      *store.Workspace
	Timers  *scheduler.Scheduler
	Archive archive.Recorder
}

// NewScheduler wraps the workspace and the task queue with the
// huddle.Scheduler implementation: send-later messages and timed
// standup aggregation. Deferred fires take the same workspace lock
// as synchronous calls and mirror into the same archive.
func NewScheduler(ws *store.Workspace, timers *scheduler.Scheduler, rec archive.Recorder) (huddle.Scheduler, error) {
	return &scheduling{WS: ws, Timers: timers, Archive: rec}, nil
}

// SendLater validates synchronously, allocates the message id right
// away and returns it; the content materializes at fireAt.
func (s *scheduling) SendLater(actorID, channelID int64, body string, fireAt int64) (int64, error) {
	return s.sendLaterTo(actorID, huddle.ChannelRef(channelID), body, fireAt)
}

// SendLaterDM is SendLater for DMs.
func (s *scheduling) SendLaterDM(actorID, dmID int64, body string, fireAt int64) (int64, error) {
	return s.sendLaterTo(actorID, huddle.DMRef(dmID), body, fireAt)
}

func (s *scheduling) sendLaterTo(actorID int64, ref huddle.ContainerRef, body string, fireAt int64) (int64, error) {
	if !validBody(body) {
		return 0, huddle.Inputf("message must be between 1 and %d characters", huddle.MaxBodyLength)
	}
	if fireAt <= time.Now().Unix() {
		return 0, huddle.Inputf("send time is not in the future")
	}

	s.WS.Lock()

	if _, ok := s.WS.ContainerMembers(ref); !ok {
		s.WS.Unlock()
		return 0, huddle.Inputf("container %d does not exist", ref.ID)
	}
	if _, ok := s.WS.ActiveUser(actorID); !ok || !s.WS.MemberOf(ref, actorID) {
		s.WS.Unlock()
		return 0, huddle.Accessf("you are not a member of this container")
	}

	// The id is reserved now so it interleaves by call order, but
	// the content stays invisible until the fire time.
	m := &huddle.Message{
		ID:        s.WS.NextMessageID(),
		Author:    actorID,
		Body:      body,
		CreatedAt: fireAt,
		Container: ref,
		Reactions: make(map[int][]int64),
		Pending:   true,
	}
	s.WS.PutMessage(m)
	s.WS.Unlock()

	s.Timers.Schedule(time.Unix(fireAt, 0), func() { s.fire(m) })
	return m.ID, nil
}

// fire materializes a deferred message. A vanished container makes
// the append a no-op; the body still reaches the archive since no
// caller is around to see an error.
func (s *scheduling) fire(m *huddle.Message) {
	s.WS.Lock()
	defer s.WS.Unlock()

	m.Pending = false
	if s.WS.AppendMessage(m) {
		s.WS.Stats(m.Author).MessagesSent++
		if actor, ok := s.WS.User(m.Author); ok {
			notifyTags(s.WS, actor, m.Container, m.Body)
		}
	} else {
		m.Removed = true
		m.Container = huddle.NoContainer()
	}

	s.Archive.Record(archive.Entry{
		MessageID: m.ID,
		Author:    m.Author,
		Event:     archive.EventSend,
		Body:      m.Body,
		At:        m.CreatedAt,
	})
}

// StandupStart opens the channel's standup buffer and schedules its
// flush. At most one standup runs per channel at a time.
func (s *scheduling) StandupStart(actorID, channelID, duration int64) (int64, error) {
	if duration <= 0 {
		return 0, huddle.Inputf("standup duration must be positive")
	}

	s.WS.Lock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		s.WS.Unlock()
		return 0, huddle.Inputf("channel %d does not exist", channelID)
	}
	if _, ok := s.WS.ActiveUser(actorID); !ok || !c.IsMember(actorID) {
		s.WS.Unlock()
		return 0, huddle.Accessf("you are not a member of this channel")
	}
	if _, active := s.WS.Standup(channelID); active {
		s.WS.Unlock()
		return 0, huddle.Inputf("a standup is already active in this channel")
	}

	finish := time.Now().Unix() + duration
	s.WS.StartStandup(&huddle.PendingStandup{
		ChannelID: channelID,
		Creator:   actorID,
		FinishAt:  finish,
	})
	s.WS.Unlock()

	s.Timers.Schedule(time.Unix(finish, 0), func() { s.flush(channelID) })
	return finish, nil
}

// flush posts the buffered standup lines as one message authored by
// the starter and stamped with the scheduled end time.
func (s *scheduling) flush(channelID int64) {
	s.WS.Lock()
	defer s.WS.Unlock()

	standup, ok := s.WS.FinishStandup(channelID)
	if !ok || len(standup.Lines) == 0 {
		return
	}

	var body string
	for _, line := range standup.Lines {
		handle := "removeduser"
		if u, ok := s.WS.User(line.Author); ok {
			handle = u.Handle
		}
		body += handle + ": " + line.Body + "\n"
	}

	m := &huddle.Message{
		ID:        s.WS.NextMessageID(),
		Author:    standup.Creator,
		Body:      body,
		CreatedAt: standup.FinishAt,
		Container: huddle.ChannelRef(channelID),
		Reactions: make(map[int][]int64),
	}
	s.WS.PutMessage(m)
	if s.WS.AppendMessage(m) {
		s.WS.Stats(m.Author).MessagesSent++
		if actor, ok := s.WS.User(m.Author); ok {
			notifyTags(s.WS, actor, m.Container, m.Body)
		}
	}

	s.Archive.Record(archive.Entry{
		MessageID: m.ID,
		Author:    m.Author,
		Event:     archive.EventSend,
		Body:      m.Body,
		At:        m.CreatedAt,
	})
}

// StandupSend buffers one line into the channel's active standup.
func (s *scheduling) StandupSend(actorID, channelID int64, body string) error {
	if !validBody(body) {
		return huddle.Inputf("message must be between 1 and %d characters", huddle.MaxBodyLength)
	}

	s.WS.Lock()
	defer s.WS.Unlock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		return huddle.Inputf("channel %d does not exist", channelID)
	}
	if _, ok := s.WS.ActiveUser(actorID); !ok || !c.IsMember(actorID) {
		return huddle.Accessf("you are not a member of this channel")
	}
	standup, active := s.WS.Standup(channelID)
	if !active {
		return huddle.Inputf("no standup is active in this channel")
	}

	standup.Lines = append(standup.Lines, huddle.StandupLine{Author: actorID, Body: body})
	return nil
}

// StandupActive reports whether a standup is running and when it
// finishes.
func (s *scheduling) StandupActive(actorID, channelID int64) (*huddle.StandupStatus, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	c, ok := s.WS.Channel(channelID)
	if !ok {
		return nil, huddle.Inputf("channel %d does not exist", channelID)
	}
	if _, ok := s.WS.ActiveUser(actorID); !ok || !c.IsMember(actorID) {
		return nil, huddle.Accessf("you are not a member of this channel")
	}

	status := &huddle.StandupStatus{}
	if standup, active := s.WS.Standup(channelID); active {
		status.IsActive = true
		status.FinishAt = standup.FinishAt
	}
	return status, nil
}
