package huddle

// Channel contains a chat centered around a specific topic.
// Owners are always members; a channel keeps at least one owner
// for as long as it exists.
type Channel struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// ChannelDetails is a channel along with the profiles of its
// owners and members.
type ChannelDetails struct {
	Channel Channel    `json:"channel"`
	Owners  []*Profile `json:"owners"`
	Members []*Profile `json:"members"`
}
