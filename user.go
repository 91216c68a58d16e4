package huddle

// Permission is the workspace-wide tier a user holds,
// independent of per-channel ownership.
type Permission int

const (
	// PermissionOwner grants administrative reach across
	// every container in the workspace.
	PermissionOwner Permission = 1

	// PermissionMember is the default tier.
	PermissionMember Permission = 2

	// PermissionRemoved marks a soft-removed user. The numeric id
	// is retained forever so historic authorship stays resolvable.
	PermissionRemoved Permission = 3
)

// User represents a member of the workspace. Users can belong
// to multiple channels and DMs.
type User struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Handle      string     `json:"handle"`
	Password    []byte     `json:"-"`
	Permission  Permission `json:"permission"`
}

// Removed reports whether the user has been soft-removed from
// the workspace.
func (u *User) Removed() bool {
	return u.Permission == PermissionRemoved
}

// Profile is the public view of a user.
type Profile struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
}

// Profile projects the public fields of a user.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Handle:      u.Handle,
	}
}

// Stats is the per-user membership and activity snapshot kept
// fresh by membership and message operations.
type Stats struct {
	ChannelsJoined int `json:"channels_joined"`
	DMsJoined      int `json:"dms_joined"`
	MessagesSent   int `json:"messages_sent"`
}
