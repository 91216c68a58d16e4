package huddle

// DirectMessage is a private group conversation. Its name is the
// alphabetically sorted, comma-joined handles of every member at
// creation time. The creator reference may be cleared if the
// creator leaves; only the creator can remove the DM outright.
type DirectMessage struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DMDetails is a DM along with the profiles of its members.
type DMDetails struct {
	DM      DirectMessage `json:"dm"`
	Members []*Profile    `json:"members"`
}
