// Package mockstorage provides a testify-based mock implementation
// of the storage interface. It is used for unit testing HTTP handlers
// and services by simulating storage behavior, including injected failures.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/user"
)

// StorageMock is a testify mock that implements the storage interface.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks storing a new user.
func (m *StorageMock) CreateUser(ctx context.Context, usr *user.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

// GetUserByID mocks the user lookup by id.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// GetUserByEmail mocks the user lookup by email.
func (m *StorageMock) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// ListEmployees mocks listing the owner's records.
func (m *StorageMock) ListEmployees(ctx context.Context, ownerID string) ([]employee.Employee, error) {
	args := m.Called(ctx, ownerID)
	records, _ := args.Get(0).([]employee.Employee)
	return records, args.Error(1)
}

// CreateEmployee mocks inserting a record.
func (m *StorageMock) CreateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error {
	args := m.Called(ctx, ownerID, empl)
	return args.Error(0)
}

// UpdateEmployee mocks rewriting a record.
func (m *StorageMock) UpdateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error {
	args := m.Called(ctx, ownerID, empl)
	return args.Error(0)
}

// DeleteEmployee mocks removing a record.
func (m *StorageMock) DeleteEmployee(ctx context.Context, ownerID, employeeID string) error {
	args := m.Called(ctx, ownerID, employeeID)
	return args.Error(0)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the storage resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
