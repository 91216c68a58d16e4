package services

import (
	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/store"
)

type notifier struct {
	WS *store.Workspace
}

// NewNotifier wraps the workspace with the huddle.Notifier
// implementation reading notification feeds.
func NewNotifier(ws *store.Workspace) (huddle.Notifier, error) {
	return &notifier{WS: ws}, nil
}

// Notifications returns the actor's most recent notifications,
// newest first.
func (s *notifier) Notifications(actorID int64) ([]*huddle.Notification, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	if _, ok := s.WS.ActiveUser(actorID); !ok {
		return nil, huddle.Accessf("user no longer exists")
	}
	return s.WS.Notifications(actorID), nil
}
