// Package archive is the append-only audit log of message activity.
// Every materialization, edit and removal lands here, including
// deferred fires whose container vanished before the fire time, so
// content survives even when it never reaches a history list.
package archive

// Entry event kinds.
const (
	EventSend   = "send"
	EventEdit   = "edit"
	EventRemove = "remove"
)

// Entry is one audit row, keyed by message id.
type Entry struct {
	MessageID int64
	Author    int64
	Event     string
	Body      string
	At        int64
}

// Recorder receives audit entries. Implementations must tolerate
// being called while the workspace lock is held, so they never
// call back into the store.
type Recorder interface {
	Record(e Entry) error
	Close()
}

type nop struct{}

func (nop) Record(Entry) error { return nil }
func (nop) Close()             {}

// NewNop returns a recorder that drops everything, for deployments
// that run without an archive database.
func NewNop() Recorder {
	return nop{}
}
