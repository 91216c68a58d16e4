package server

// SignupPayload is the register request body.
type SignupPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries a fresh token back to the client.
type SessionResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

// ChannelPayload is the channel creation request body.
type ChannelPayload struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// TargetUserPayload names the user an invite/addowner/removeowner
// operation acts on.
type TargetUserPayload struct {
	UserID int64 `json:"user_id"`
}

// DMPayload is the DM creation request body. The creator is implied
// by the session and must not be listed.
type DMPayload struct {
	MemberIDs []int64 `json:"member_ids"`
}

// BodyPayload carries a message body for send, edit and standup
// send.
type BodyPayload struct {
	Body string `json:"body"`
}

// SendLaterPayload is the deferred send request body.
type SendLaterPayload struct {
	Body   string `json:"body"`
	FireAt int64  `json:"fire_at"`
}

// ReactPayload names a reaction kind.
type ReactPayload struct {
	Kind int `json:"kind"`
}

// SharePayload is the share request body. Exactly one of ChannelID
// and DMID must be set; the other is -1.
type SharePayload struct {
	Annotation string `json:"annotation"`
	ChannelID  int64  `json:"channel_id"`
	DMID       int64  `json:"dm_id"`
}

// StandupPayload is the standup start request body.
type StandupPayload struct {
	Duration int64 `json:"duration"`
}

// PermissionPayload is the admin permission change request body.
type PermissionPayload struct {
	Level int `json:"level"`
}

// MessageIDResponse returns the id allocated by a send.
type MessageIDResponse struct {
	MessageID int64 `json:"message_id"`
}

// FinishResponse returns a standup's scheduled end time.
type FinishResponse struct {
	FinishAt int64 `json:"finish_at"`
}
