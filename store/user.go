package store

import (
	"sort"

	"github.com/huddlehq/huddle"
)

// CreateUser allocates the next user id and stores the user. The
// first user in the workspace becomes the global owner. Email and
// handle must already be unique; the caller checks with EmailTaken
// and HandleTaken.
func (w *Workspace) CreateUser(email, displayName, handle string, password []byte) *huddle.User {
	w.nextUserID++
	perm := huddle.PermissionMember
	if w.nextUserID == 1 {
		perm = huddle.PermissionOwner
	}

	u := &huddle.User{
		ID:          w.nextUserID,
		Email:       email,
		DisplayName: displayName,
		Handle:      handle,
		Password:    password,
		Permission:  perm,
	}
	w.users[u.ID] = u
	w.emails[email] = u.ID
	w.handles[handle] = u.ID
	w.stats[u.ID] = &huddle.Stats{}
	return u
}

// User looks a user up by id. Removed users are still returned;
// their permission tier marks them.
func (w *Workspace) User(id int64) (*huddle.User, bool) {
	u, ok := w.users[id]
	return u, ok
}

// ActiveUser looks a user up by id and rejects removed users.
func (w *Workspace) ActiveUser(id int64) (*huddle.User, bool) {
	u, ok := w.users[id]
	if !ok || u.Removed() {
		return nil, false
	}
	return u, true
}

// UserByEmail resolves a login email to its user.
func (w *Workspace) UserByEmail(email string) (*huddle.User, bool) {
	id, ok := w.emails[email]
	if !ok {
		return nil, false
	}
	return w.users[id], true
}

// UserByHandle resolves a handle to its user. Only current members
// hold handles; removed users release theirs.
func (w *Workspace) UserByHandle(handle string) (*huddle.User, bool) {
	id, ok := w.handles[handle]
	if !ok {
		return nil, false
	}
	return w.users[id], true
}

// EmailTaken reports whether a current member uses the email.
func (w *Workspace) EmailTaken(email string) bool {
	_, ok := w.emails[email]
	return ok
}

// HandleTaken reports whether a current member uses the handle.
func (w *Workspace) HandleTaken(handle string) bool {
	_, ok := w.handles[handle]
	return ok
}

// Users returns all non-removed users ordered by id.
func (w *Workspace) Users() []*huddle.User {
	ids := make([]int64, 0, len(w.users))
	for id, u := range w.users {
		if !u.Removed() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]*huddle.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, w.users[id])
	}
	return users
}

// GlobalOwners counts users holding the global owner tier.
func (w *Workspace) GlobalOwners() int {
	var n int
	for _, u := range w.users {
		if u.Permission == huddle.PermissionOwner {
			n++
		}
	}
	return n
}

// ReleaseIdentity frees a removed user's email and handle for
// reuse. The user record itself stays, id and all.
func (w *Workspace) ReleaseIdentity(u *huddle.User) {
	delete(w.emails, u.Email)
	delete(w.handles, u.Handle)
}

// DropMemberEverywhere strips a user from every channel and DM
// member list, for workspace removal.
func (w *Workspace) DropMemberEverywhere(userID int64) {
	for _, c := range w.channels {
		c.RemoveMember(userID)
	}
	for _, d := range w.dms {
		if !d.Removed {
			d.RemoveMember(userID)
		}
	}
}

// RedactAuthor replaces the bodies of all visible messages a user
// authored. Removed and still-pending messages keep their state.
func (w *Workspace) RedactAuthor(authorID int64, replacement string) {
	for _, m := range w.messages {
		if m.Author == authorID && !m.Removed && !m.Pending {
			m.Body = replacement
		}
	}
}

// AddSession records a live session id for a user.
func (w *Workspace) AddSession(userID int64, sessionID string) {
	set, ok := w.sessions[userID]
	if !ok {
		set = make(map[string]bool)
		w.sessions[userID] = set
	}
	set[sessionID] = true
}

// DropSession forgets one session id. It reports whether the
// session existed.
func (w *Workspace) DropSession(userID int64, sessionID string) bool {
	set, ok := w.sessions[userID]
	if !ok || !set[sessionID] {
		return false
	}
	delete(set, sessionID)
	return true
}

// HasSession reports whether the session id is live for the user.
func (w *Workspace) HasSession(userID int64, sessionID string) bool {
	return w.sessions[userID][sessionID]
}

// ClearSessions logs a user out everywhere.
func (w *Workspace) ClearSessions(userID int64) {
	delete(w.sessions, userID)
}

// Stats returns the mutable stats snapshot for a user.
func (w *Workspace) Stats(userID int64) *huddle.Stats {
	s, ok := w.stats[userID]
	if !ok {
		s = &huddle.Stats{}
		w.stats[userID] = s
	}
	return s
}
