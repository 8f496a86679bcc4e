// Package user defines the user model used throughout the application,
// particularly for authentication and employee record ownership.
package user

// User represents a registered account.
// Every employee row is owned by exactly one user.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string `json:"id"`

	// Name is the display name given at registration.
	Name string `json:"name"`

	// Email is the login identifier, unique across all users.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the password.
	// It is never serialized into API responses.
	PasswordHash string `json:"-"`
}
