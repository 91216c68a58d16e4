package services

import (
	"github.com/sirupsen/logrus"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/store"
)

// removedName replaces the identity fields of a soft-removed user
// and the bodies of the messages they authored.
const removedName = "Removed user"

type admin struct {
	WS *store.Workspace
}

// NewAdmin wraps the workspace with the huddle.Admin implementation
// for the operations reserved for global owners.
func NewAdmin(ws *store.Workspace) (huddle.Admin, error) {
	return &admin{WS: ws}, nil
}

// RemoveUser soft-removes a user: their id stays allocated forever,
// their handle and email are freed for reuse, their sessions end,
// and their authored message bodies are redacted in place.
func (s *admin) RemoveUser(actorID, targetID int64) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	if err := s.requireGlobalOwner(actorID); err != nil {
		return err
	}
	target, ok := s.WS.ActiveUser(targetID)
	if !ok {
		return huddle.Inputf("user %d does not exist", targetID)
	}
	if target.Permission == huddle.PermissionOwner && s.WS.GlobalOwners() == 1 {
		return huddle.Inputf("cannot remove the only global owner")
	}

	s.WS.DropMemberEverywhere(targetID)
	s.WS.RedactAuthor(targetID, removedName)
	s.WS.ReleaseIdentity(target)
	s.WS.ClearSessions(targetID)

	target.DisplayName = removedName
	target.Email = ""
	target.Handle = ""
	target.Permission = huddle.PermissionRemoved

	logrus.Infof("user %d removed from the workspace", targetID)
	return nil
}

// SetPermission moves a user between the global owner and member
// tiers. The sole global owner can never be demoted.
func (s *admin) SetPermission(actorID, targetID int64, level huddle.Permission) error {
	s.WS.Lock()
	defer s.WS.Unlock()

	if err := s.requireGlobalOwner(actorID); err != nil {
		return err
	}
	if level != huddle.PermissionOwner && level != huddle.PermissionMember {
		return huddle.Inputf("unknown permission level %d", level)
	}
	target, ok := s.WS.ActiveUser(targetID)
	if !ok {
		return huddle.Inputf("user %d does not exist", targetID)
	}
	if target.Permission == huddle.PermissionOwner &&
		level == huddle.PermissionMember && s.WS.GlobalOwners() == 1 {
		return huddle.Inputf("cannot demote the only global owner")
	}

	target.Permission = level
	return nil
}

func (s *admin) requireGlobalOwner(actorID int64) error {
	actor, ok := s.WS.ActiveUser(actorID)
	if !ok || actor.Permission != huddle.PermissionOwner {
		return huddle.Accessf("you are not a global owner")
	}
	return nil
}
