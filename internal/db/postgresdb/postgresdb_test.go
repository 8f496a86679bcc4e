package postgresdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/models"
	"github.com/patric-chuzhbe/staffbook/internal/user"
)

const migrationsDir = `../../../cmd/staffbook/migrations`

// newTestDB connects to the database from the DATABASE_DSN environment
// variable, resetting its schema first. Tests are skipped when no DSN
// is configured.
func newTestDB(t *testing.T) *PostgresDB {
	t.Helper()

	databaseDSN := os.Getenv("DATABASE_DSN")
	if databaseDSN == "" {
		t.Skip("DATABASE_DSN is not set")
	}

	db, err := New(
		context.Background(),
		databaseDSN,
		10*time.Second,
		migrationsDir,
		WithDBPreReset(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	return db
}

func newTestUser(t *testing.T, db *PostgresDB, email string) string {
	t.Helper()

	userID := uuid.New().String()
	err := db.CreateUser(context.Background(), &user.User{
		ID:           userID,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	return userID
}

func TestUserRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := newTestUser(t, db, "a@x.com")

	usr, err := db.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", usr.Email)

	usr, err = db.GetUserByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
	assert.Equal(t, userID, usr.ID)

	err = db.CreateUser(ctx, &user.User{
		ID:    uuid.New().String(),
		Name:  "Other",
		Email: "A@x.com",
	})
	assert.ErrorIs(t, err, models.ErrEmailConflict)

	_, err = db.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEmployeeCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ownerID := newTestUser(t, db, "owner@x.com")

	empl := &employee.Employee{
		ID:         uuid.New().String(),
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "jane@x.com",
		Department: "CSE",
		Salary:     80000,
	}
	require.NoError(t, db.CreateEmployee(ctx, ownerID, empl))

	duplicate := *empl
	duplicate.ID = uuid.New().String()
	duplicate.Email = "JANE@X.com"
	err := db.CreateEmployee(ctx, ownerID, &duplicate)
	assert.ErrorIs(t, err, models.ErrEmailConflict)

	empl.Department = "Research"
	require.NoError(t, db.UpdateEmployee(ctx, ownerID, empl))

	listed, err := db.ListEmployees(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Research", listed[0].Department)

	otherOwner := newTestUser(t, db, "other@x.com")
	err = db.DeleteEmployee(ctx, otherOwner, empl.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, db.DeleteEmployee(ctx, ownerID, empl.ID))

	listed, err = db.ListEmployees(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ownerID := newTestUser(t, db, "owner@x.com")

	for _, record := range []*employee.Employee{
		{ID: uuid.New().String(), FirstName: "Zoe", LastName: "Smith", Email: "z@x.com", Department: "A"},
		{ID: uuid.New().String(), FirstName: "Adam", LastName: "Smith", Email: "a@x.com", Department: "A"},
		{ID: uuid.New().String(), FirstName: "Mia", LastName: "Brown", Email: "m@x.com", Department: "A"},
	} {
		require.NoError(t, db.CreateEmployee(ctx, ownerID, record))
	}

	listed, err := db.ListEmployees(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	assert.Equal(t, "Brown", listed[0].LastName)
	assert.Equal(t, "Adam", listed[1].FirstName)
	assert.Equal(t, "Zoe", listed[2].FirstName)
}

func TestPing(t *testing.T) {
	db := newTestDB(t)

	assert.NoError(t, db.Ping(context.Background()))
}
