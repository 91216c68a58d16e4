package huddle

// NoOrigin is the sentinel for the unused half of a notification's
// channel/DM origin pair.
const NoOrigin int64 = -1

// Notification is an immutable record appended to a user's
// notification list when they are tagged, reacted to, or added to
// a container. Exactly one of ChannelID and DMID is meaningful;
// the other holds NoOrigin.
type Notification struct {
	ChannelID int64  `json:"channel_id"`
	DMID      int64  `json:"dm_id"`
	Message   string `json:"message"`
}

// NotificationWindow is how many notifications a read returns,
// most recent first. The backing list is not truncated.
const NotificationWindow = 20
