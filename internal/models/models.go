package models

import "errors"

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmployeeRequest is the body of POST /api/employees and PUT /api/employees/{id}.
// Salary arrives as a JSON number and must be a non-negative integer.
// It is a pointer so that an absent salary key fails validation instead of
// silently decoding to zero.
type EmployeeRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
	Salary     *int64 `json:"salary" validate:"required,gte=0"`
}

// ErrorResponse is the uniform JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

// Sentinel errors mapping one-to-one onto the HTTP error taxonomy.
var (
	// ErrNotFound is returned when no row matches the given id and owner.
	ErrNotFound = errors.New("no such record")

	// ErrEmailConflict is returned when the (owner, lowercased email) pair
	// already exists in the store.
	ErrEmailConflict = errors.New("email already in use")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
