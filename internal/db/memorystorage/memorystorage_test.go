package memorystorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/models"
	"github.com/patric-chuzhbe/staffbook/internal/user"
)

func Test(t *testing.T) {
	t.Run("The base memorystorage package test", func(t *testing.T) {
		theStorage, err := New()
		assert.NoError(t, err, "The memorystorage.New() should not return error")

		ctx := context.Background()

		err = theStorage.CreateUser(ctx, &user.User{ID: "u1", Name: "A", Email: "a@x.com"})
		assert.NoError(t, err, "The `theStorage.CreateUser()` should not return error")

		usr, err := theStorage.GetUserByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", usr.Email)

		err = theStorage.CreateEmployee(ctx, "u1", &employee.Employee{
			ID:         "e1",
			FirstName:  "Jane",
			LastName:   "Doe",
			Email:      "jane@x.com",
			Department: "CSE",
			Salary:     80000,
		})
		assert.NoError(t, err, "The `theStorage.CreateEmployee()` should not return error")

		listed, err := theStorage.ListEmployees(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, listed, 1)

		err = theStorage.DeleteEmployee(ctx, "u1", "e1")
		assert.NoError(t, err)

		err = theStorage.DeleteEmployee(ctx, "u1", "e1")
		assert.ErrorIs(t, err, models.ErrNotFound)

		err = theStorage.Ping(ctx)
		assert.NoError(t, err, "The memorystorage.Ping() should not return error")

		err = theStorage.Close()
		assert.NoError(t, err, "The memorystorage.Close() should not return error")
	})
}
