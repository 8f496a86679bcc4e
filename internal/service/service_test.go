package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/staffbook/internal/db/memorystorage"
	"github.com/patric-chuzhbe/staffbook/internal/mockstorage"
	"github.com/patric-chuzhbe/staffbook/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := memorystorage.New()
	require.NoError(t, err)
	return New(db)
}

func registerTestUser(t *testing.T, svc *Service, email string) string {
	t.Helper()
	usr, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "secretpass",
	})
	require.NoError(t, err)
	return usr.ID
}

func salaryOf(value int64) *int64 {
	return &value
}

func employeeRequest(email string) models.EmployeeRequest {
	return models.EmployeeRequest{
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      email,
		Department: "CSE",
		Salary:     salaryOf(80000),
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newTestService(t)

	usr, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secretpass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, usr.ID)
	assert.NotEmpty(t, usr.PasswordHash)
	assert.NotEqual(t, "secretpass", usr.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	registerTestUser(t, svc, "a@x.com")

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "B",
		Email:    "A@X.com",
		Password: "otherpass",
	})
	assert.ErrorIs(t, err, models.ErrEmailConflict)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	userID := registerTestUser(t, svc, "a@x.com")

	usr, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "a@x.com",
		Password: "secretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, usr.ID)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "a@x.com",
		Password: "wrongpass",
	})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "missing@x.com",
		Password: "secretpass",
	})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials, "unknown email should not be distinguishable from a wrong password")
}

func TestCreateEmployeeGeneratesUniqueIDs(t *testing.T) {
	svc := newTestService(t)
	ownerID := registerTestUser(t, svc, "owner@x.com")

	seen := map[string]bool{}
	for i, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		empl, err := svc.CreateEmployee(context.Background(), ownerID, employeeRequest(email))
		require.NoError(t, err, "create %d should succeed", i)
		assert.False(t, seen[empl.ID], "employee id %q should be unique", empl.ID)
		seen[empl.ID] = true
	}
}

func TestCreateEmployeeCaseVariedDuplicate(t *testing.T) {
	svc := newTestService(t)
	ownerID := registerTestUser(t, svc, "owner@x.com")

	_, err := svc.CreateEmployee(context.Background(), ownerID, employeeRequest("jane@x.com"))
	require.NoError(t, err)

	_, err = svc.CreateEmployee(context.Background(), ownerID, employeeRequest("JANE@X.com"))
	assert.ErrorIs(t, err, models.ErrEmailConflict)
}

func TestUpdateEmployeeNotFound(t *testing.T) {
	svc := newTestService(t)
	ownerID := registerTestUser(t, svc, "owner@x.com")

	_, err := svc.UpdateEmployee(context.Background(), ownerID, "no-such-id", employeeRequest("jane@x.com"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDepartments(t *testing.T) {
	svc := newTestService(t)
	ownerID := registerTestUser(t, svc, "owner@x.com")

	for _, record := range []models.EmployeeRequest{
		{FirstName: "A", LastName: "A", Email: "a@x.com", Department: "Sales", Salary: salaryOf(1)},
		{FirstName: "B", LastName: "B", Email: "b@x.com", Department: "Engineering", Salary: salaryOf(2)},
		{FirstName: "C", LastName: "C", Email: "c@x.com", Department: "Sales", Salary: salaryOf(3)},
	} {
		_, err := svc.CreateEmployee(context.Background(), ownerID, record)
		require.NoError(t, err)
	}

	departments, err := svc.Departments(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Engineering", "Sales"}, departments)
}

func TestStorageFailurePassesThrough(t *testing.T) {
	storageMock := &mockstorage.StorageMock{}
	storageErr := errors.New("storage is down")
	storageMock.On("ListEmployees", mock.Anything, "owner").Return(nil, storageErr)

	svc := New(storageMock)

	_, err := svc.ListEmployees(context.Background(), "owner")
	assert.ErrorIs(t, err, storageErr)

	storageMock.AssertExpectations(t)
}
