// Package storage declares the persistence contract shared by the
// postgres, JSON file and in-memory backends.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/user"
)

// Storage is implemented by every persistence backend.
//
// Uniqueness rules are enforced here, not in the callers:
// user emails are unique globally, employee emails are unique per owner,
// both case-insensitively. Violations surface as models.ErrEmailConflict.
type Storage interface {
	CreateUser(ctx context.Context, usr *user.User) error

	GetUserByID(ctx context.Context, userID string) (*user.User, error)

	GetUserByEmail(ctx context.Context, email string) (*user.User, error)

	// ListEmployees returns the owner's records ordered by
	// (lastName, firstName) ascending.
	ListEmployees(ctx context.Context, ownerID string) ([]employee.Employee, error)

	CreateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error

	UpdateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error

	DeleteEmployee(ctx context.Context, ownerID, employeeID string) error

	Ping(ctx context.Context) error

	Close() error
}
