package usermanager

import "context"

// User represents an individual user account on the system.
type User struct {
	Username string // user login name
	UID      int    // user ID
	GID      int    // group ID
	Comment  string // user full name or comment
	HomeDir  string // user home directory
	Shell    string // user's shell
}

// UserManager looks up user accounts.
type UserManager interface {
	// GetUser fetches a user by name. An empty name means the connecting user.
	GetUser(ctx context.Context, username string) (User, error)
}
