package services

import (
	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/store"
)

type getter struct {
	WS *store.Workspace
}

// NewGetter wraps the workspace with the huddle.Getter
// implementation for profile and stats reads.
func NewGetter(ws *store.Workspace) (huddle.Getter, error) {
	return &getter{WS: ws}, nil
}

// Profile returns any user's public profile, removed users
// included so historic authorship stays resolvable.
func (s *getter) Profile(actorID, targetID int64) (*huddle.Profile, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	u, ok := s.WS.User(targetID)
	if !ok {
		return nil, huddle.Inputf("user %d does not exist", targetID)
	}
	return u.Profile(), nil
}

// Users lists all non-removed users.
func (s *getter) Users(actorID int64) ([]*huddle.Profile, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	profiles := []*huddle.Profile{}
	for _, u := range s.WS.Users() {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// UserStats returns the actor's membership and activity snapshot.
func (s *getter) UserStats(actorID int64) (*huddle.Stats, error) {
	s.WS.Lock()
	defer s.WS.Unlock()

	if _, ok := s.WS.ActiveUser(actorID); !ok {
		return nil, huddle.Accessf("user no longer exists")
	}

	snapshot := *s.WS.Stats(actorID)
	return &snapshot, nil
}
