package services

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/store"
)

// A mention is an @ followed by a maximal run of word characters.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// previewLength is how much of a body a tag notification quotes.
const previewLength = 20

// mentions extracts the handles tagged in a body, deduplicated in
// first-occurrence order.
func mentions(body string) []string {
	var handles []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			handles = append(handles, m[1])
		}
	}
	return handles
}

// notifyTags scans a body for mentions and notifies every tagged
// handle that resolves to a current member of the container. Runs
// on send, edit and every deferred materialization. Callers hold
// the workspace lock.
func notifyTags(ws *store.Workspace, actor *huddle.User, ref huddle.ContainerRef, body string) {
	handles := mentions(body)
	if len(handles) == 0 {
		return
	}

	channelID, dmID := origin(ref)
	text := fmt.Sprintf("%s tagged you in %s: %s", actor.Handle, ws.ContainerName(ref), preview(body))
	for _, handle := range handles {
		tagged, ok := ws.UserByHandle(handle)
		if !ok || !ws.MemberOf(ref, tagged.ID) {
			continue
		}
		ws.Notify(tagged.ID, &huddle.Notification{
			ChannelID: channelID,
			DMID:      dmID,
			Message:   text,
		})
	}
}

// notifyReact tells a message's author someone reacted to it.
// Callers hold the workspace lock.
func notifyReact(ws *store.Workspace, actor *huddle.User, authorID int64, ref huddle.ContainerRef) {
	channelID, dmID := origin(ref)
	ws.Notify(authorID, &huddle.Notification{
		ChannelID: channelID,
		DMID:      dmID,
		Message:   fmt.Sprintf("%s reacted to your message in %s", actor.Handle, ws.ContainerName(ref)),
	})
}

// notifyAdded tells a user they were invited to a channel or
// included in a new DM. Callers hold the workspace lock.
func notifyAdded(ws *store.Workspace, actor *huddle.User, targetID int64, ref huddle.ContainerRef) {
	channelID, dmID := origin(ref)
	ws.Notify(targetID, &huddle.Notification{
		ChannelID: channelID,
		DMID:      dmID,
		Message:   fmt.Sprintf("%s added you to %s", actor.Handle, ws.ContainerName(ref)),
	})
}

// origin splits a container reference into the channel-or-sentinel,
// dm-or-sentinel pair notifications carry.
func origin(ref huddle.ContainerRef) (int64, int64) {
	switch ref.Kind {
	case huddle.ContainerChannel:
		return ref.ID, huddle.NoOrigin
	case huddle.ContainerDM:
		return huddle.NoOrigin, ref.ID
	}
	return huddle.NoOrigin, huddle.NoOrigin
}

// preview truncates a body to the notification quote length.
func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewLength {
		return body
	}
	return string([]rune(body)[:previewLength])
}

// validBody reports whether a message body is within the accepted
// length bounds.
func validBody(body string) bool {
	n := utf8.RuneCountInString(body)
	return n >= 1 && n <= huddle.MaxBodyLength
}
