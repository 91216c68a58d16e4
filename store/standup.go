package store

import (
	"github.com/huddlehq/huddle"
)

// Standup returns the channel's active standup, if any. At most one
// exists per channel at a time.
func (w *Workspace) Standup(channelID int64) (*huddle.PendingStandup, bool) {
	s, ok := w.standups[channelID]
	return s, ok
}

// StartStandup records the channel's pending standup buffer.
func (w *Workspace) StartStandup(s *huddle.PendingStandup) {
	w.standups[s.ChannelID] = s
}

// FinishStandup consumes and deletes the channel's pending standup.
func (w *Workspace) FinishStandup(channelID int64) (*huddle.PendingStandup, bool) {
	s, ok := w.standups[channelID]
	if ok {
		delete(w.standups, channelID)
	}
	return s, ok
}
