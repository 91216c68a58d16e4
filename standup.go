package huddle

// StandupLine is one buffered contribution to an active standup.
type StandupLine struct {
	Author int64
	Body   string
}

// PendingStandup is the singleton buffer a channel holds while a
// standup is running. It is consumed when the flush timer fires.
type PendingStandup struct {
	ChannelID int64
	Creator   int64
	FinishAt  int64
	Lines     []StandupLine
}

// StandupStatus reports whether a standup is active in a channel
// and, if so, when it finishes.
type StandupStatus struct {
	IsActive bool  `json:"is_active"`
	FinishAt int64 `json:"finish_at"`
}
