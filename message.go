package huddle

// ContainerKind tags which kind of container a message lives in.
type ContainerKind int

const (
	// ContainerNone marks a message whose container linkage has
	// been stripped by removal.
	ContainerNone ContainerKind = iota
	// ContainerChannel marks a message posted in a channel.
	ContainerChannel
	// ContainerDM marks a message posted in a DM.
	ContainerDM
)

// ContainerRef points at the single container that owns a message.
type ContainerRef struct {
	Kind ContainerKind `json:"kind"`
	ID   int64         `json:"id"`
}

// ChannelRef builds a reference to a channel container.
func ChannelRef(id int64) ContainerRef {
	return ContainerRef{Kind: ContainerChannel, ID: id}
}

// DMRef builds a reference to a DM container.
func DMRef(id int64) ContainerRef {
	return ContainerRef{Kind: ContainerDM, ID: id}
}

// NoContainer is the reference held by removed messages.
func NoContainer() ContainerRef {
	return ContainerRef{Kind: ContainerNone}
}

// Reaction kinds. Only thumbs-up is defined for now.
const ReactThumbsUp = 1

// MaxBodyLength is the longest body accepted by send, edit and
// share. The shortest is one character.
const MaxBodyLength = 1000

// Message is a single chat message. Ids are drawn from one counter
// shared by every channel and DM, so they are globally unique and
// strictly increasing; an id is never reused, even after removal.
type Message struct {
	ID        int64        `json:"id"`
	Author    int64        `json:"author"`
	Body      string       `json:"body"`
	CreatedAt int64        `json:"created_at"`
	Container ContainerRef `json:"-"`
	Pinned    bool         `json:"pinned"`

	// Reactions maps a reaction kind to the ordered set of user
	// ids that reacted with it.
	Reactions map[int][]int64 `json:"-"`

	// Removed is the tombstone flag. A removed message keeps its
	// id but loses body and container linkage.
	Removed bool `json:"-"`

	// Pending is set while a send-later message has an allocated
	// id but no visible content yet.
	Pending bool `json:"-"`
}

// ReactedBy reports whether the given user currently holds the
// given reaction on the message.
func (m *Message) ReactedBy(userID int64, kind int) bool {
	for _, id := range m.Reactions[kind] {
		if id == userID {
			return true
		}
	}
	return false
}

// ReactionView is the per-viewer projection of one reaction kind.
type ReactionView struct {
	Kind      int     `json:"kind"`
	UserIDs   []int64 `json:"user_ids"`
	IsReacted bool    `json:"is_reacted"`
}

// MessageView is a message as seen by one viewer, with the
// viewer-specific reaction projection filled in.
type MessageView struct {
	ID        int64          `json:"id"`
	Author    int64          `json:"author"`
	Body      string         `json:"body"`
	CreatedAt int64          `json:"created_at"`
	Pinned    bool           `json:"pinned"`
	Reactions []ReactionView `json:"reactions"`
}

// Page is one window of a container's history, newest first.
// End is -1 when no older messages remain.
type Page struct {
	Messages []*MessageView `json:"messages"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
}

// PageSize is how many messages one history window holds.
const PageSize = 50
