package user

import domain "user-registration-service/internal/domain/user"

// CreateUserRequest represents the request payload for registering a user.
// ProfilePicture is the stored-object name of an already uploaded picture.
type CreateUserRequest struct {
	Name           string `validate:"required"`
	Email          string `validate:"required"`
	Username       string `validate:"required"`
	Contact        string `validate:"required"`
	ProfilePicture *string
}

// UpdateUserRequest represents the request payload for updating a user.
// Empty fields and a nil ProfilePicture leave the stored values untouched.
type UpdateUserRequest struct {
	ID             string
	Name           string
	Email          string
	Username       string
	Contact        string
	ProfilePicture *string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID             string
	Name           string
	Email          string
	Username       string
	Contact        string
	ProfilePicture *string
}

func toDTO(u *domain.User) *User {
	return &User{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Username:       u.Username,
		Contact:        u.Contact,
		ProfilePicture: u.ProfilePicture,
	}
}
