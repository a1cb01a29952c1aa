package user

import "errors"

// User represents a registered user in the system.
type User struct {
	ID             string  `json:"id"`             // ID is the server-assigned opaque identifier
	Name           string  `json:"name"`           // Name is the full name of the user
	Email          string  `json:"email"`          // Email is unique across all users
	Username       string  `json:"username"`       // Username is unique across all users
	Contact        string  `json:"contact"`        // Contact is a free-form phone or address
	ProfilePicture *string `json:"profilePicture"` // ProfilePicture is the stored-object name of the uploaded picture, nil when none
}

// HasPicture reports whether a profile picture has been uploaded for the user.
func (u *User) HasPicture() bool {
	return u.ProfilePicture != nil && *u.ProfilePicture != ""
}

// ErrNotFound is returned by repositories when no user matches the identifier.
var ErrNotFound = errors.New("user not found")
