// Package domain contains entity without logic, just meta-data
package domain

type (
	UserID string
	Role   string
)

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// Platform tags which kind of device opened the connection.
type Platform string

const (
	PlatformWeb    Platform = "web"
	PlatformMobile Platform = "mobile"
)

// Identity is the resolved result of a successful handshake.
// It is bound to the connection once and never changes afterwards.
type Identity struct {
	UserID UserID `json:"userId"`
	Role   Role   `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
