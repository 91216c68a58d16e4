package store

import (
	"sync"

	"github.com/huddlehq/huddle"
)

// Workspace is the single shared mutable store holding every user,
// channel, DM, message, notification and pending standup. It is the
// one serialization point in the system: callers take the lock for
// the duration of one operation, synchronous or deferred, and use
// the accessor methods while holding it. No method below locks on
// its own.
type Workspace struct {
	mu sync.Mutex

	users   map[int64]*huddle.User
	emails  map[string]int64
	handles map[string]int64

	channels map[int64]*Channel
	dms      map[int64]*DM
	messages map[int64]*huddle.Message

	notifications map[int64][]*huddle.Notification
	standups      map[int64]*huddle.PendingStandup
	sessions      map[int64]map[string]bool
	stats         map[int64]*huddle.Stats

	nextUserID    int64
	nextChannelID int64
	nextDMID      int64
	nextMessageID int64
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{
		users:         make(map[int64]*huddle.User),
		emails:        make(map[string]int64),
		handles:       make(map[string]int64),
		channels:      make(map[int64]*Channel),
		dms:           make(map[int64]*DM),
		messages:      make(map[int64]*huddle.Message),
		notifications: make(map[int64][]*huddle.Notification),
		standups:      make(map[int64]*huddle.PendingStandup),
		sessions:      make(map[int64]map[string]bool),
		stats:         make(map[int64]*huddle.Stats),
	}
}

// Lock takes the workspace mutex. Every mutation of workspace state
// must happen between Lock and Unlock.
func (w *Workspace) Lock() {
	w.mu.Lock()
}

// Unlock releases the workspace mutex.
func (w *Workspace) Unlock() {
	w.mu.Unlock()
}
