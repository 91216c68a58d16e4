package huddle

// Authenticater resolves opaque tokens to user identities and
// manages credentials and sessions.
type Authenticater interface {
	Register(email, password, displayName string) (string, *User, error)
	Login(email, password string) (string, *User, error)
	Logout(token string) error

	// Verify maps a token to the user it identifies. It returns an
	// AccessError for a malformed, expired or logged-out token.
	Verify(token string) (*User, error)
}

// Membership manages who belongs to channels and DMs and who may
// administer them.
type Membership interface {
	CreateChannel(actorID int64, name string, public bool) (*Channel, error)
	Invite(actorID, channelID, targetID int64) error
	Join(actorID, channelID int64) error
	Leave(actorID, channelID int64) error
	AddOwner(actorID, channelID, targetID int64) error
	RemoveOwner(actorID, channelID, targetID int64) error
	Channels(actorID int64) ([]*Channel, error)
	AllChannels(actorID int64) ([]*Channel, error)
	ChannelDetails(actorID, channelID int64) (*ChannelDetails, error)

	CreateDM(actorID int64, memberIDs []int64) (*DirectMessage, error)
	LeaveDM(actorID, dmID int64) error
	RemoveDM(actorID, dmID int64) error
	DMs(actorID int64) ([]*DirectMessage, error)
	DMDetails(actorID, dmID int64) (*DMDetails, error)
}

// Messenger owns the message lifecycle: creation, mutation,
// soft-deletion, reactions, pins, sharing and history reads.
type Messenger interface {
	Send(actorID, channelID int64, body string) (int64, error)
	SendDM(actorID, dmID int64, body string) (int64, error)
	Edit(actorID, messageID int64, body string) error
	Remove(actorID, messageID int64) error
	React(actorID, messageID int64, kind int) error
	Unreact(actorID, messageID int64, kind int) error
	Pin(actorID, messageID int64) error
	Unpin(actorID, messageID int64) error
	Share(actorID, sourceID int64, annotation string, channelID, dmID int64) (int64, error)

	ListChannel(actorID, channelID int64, start int) (*Page, error)
	ListDM(actorID, dmID int64, start int) (*Page, error)
	Search(actorID int64, query string) ([]*MessageView, error)
}

// Scheduler defers message materialization: send-later messages and
// timed standup aggregation.
type Scheduler interface {
	SendLater(actorID, channelID int64, body string, fireAt int64) (int64, error)
	SendLaterDM(actorID, dmID int64, body string, fireAt int64) (int64, error)
	StandupStart(actorID, channelID, duration int64) (int64, error)
	StandupSend(actorID, channelID int64, body string) error
	StandupActive(actorID, channelID int64) (*StandupStatus, error)
}

// Notifier reads a user's notification feed.
type Notifier interface {
	Notifications(actorID int64) ([]*Notification, error)
}

// Getter retrieves user profiles and stats.
type Getter interface {
	Profile(actorID, targetID int64) (*Profile, error)
	Users(actorID int64) ([]*Profile, error)
	UserStats(actorID int64) (*Stats, error)
}

// Admin holds the operations reserved for global owners.
type Admin interface {
	RemoveUser(actorID, targetID int64) error
	SetPermission(actorID, targetID int64, level Permission) error
}
