package store

import (
	"github.com/huddlehq/huddle"
)

// Notify appends a notification to a user's list. The list grows
// without bound; reads truncate.
func (w *Workspace) Notify(userID int64, n *huddle.Notification) {
	w.notifications[userID] = append(w.notifications[userID], n)
}

// Notifications returns the user's most recent notifications,
// newest first, capped at the read window.
func (w *Workspace) Notifications(userID int64) []*huddle.Notification {
	all := w.notifications[userID]
	n := len(all)
	if n > huddle.NotificationWindow {
		n = huddle.NotificationWindow
	}

	out := make([]*huddle.Notification, 0, n)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		out = append(out, all[i])
	}
	return out
}
