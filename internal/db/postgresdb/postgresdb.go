// Package postgresdb provides a PostgreSQL-based implementation of the storage
// interface for persisting users and their employee records.
// Uniqueness of emails is delegated to database constraints, so concurrent
// conflicting writes are arbitrated by PostgreSQL itself.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/models"
	"github.com/patric-chuzhbe/staffbook/internal/user"
)

// PostgresDB is a PostgreSQL-backed implementation of the storage interface.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset enables or disables resetting the database schema before migration.
// It can be used for test setups or development purposes.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil,
				fmt.Errorf(
					"in internal/db/postgresdb/postgresdb.go/New(): error while `result.resetDB()` calling: %w",
					err,
				)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w",
				err,
			)
	}

	return result, nil
}

// CreateUser inserts a new user row.
// Returns models.ErrEmailConflict if the email is already registered.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *user.User) error {
	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`,
		usr.ID,
		usr.Name,
		usr.Email,
		usr.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailConflict
		}
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/CreateUser(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}

	return nil
}

// GetUserByID fetches a user by their UUID.
// Returns models.ErrNotFound if no such user exists.
func (db *PostgresDB) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	return db.scanUser(db.database.QueryRowContext(
		ctx,
		`SELECT id, name, email, password_hash FROM users WHERE id = $1`,
		userID,
	))
}

// GetUserByEmail fetches a user by email, case-insensitively.
// Returns models.ErrNotFound if no such user exists.
func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return db.scanUser(db.database.QueryRowContext(
		ctx,
		`SELECT id, name, email, password_hash FROM users WHERE lower(email) = lower($1)`,
		email,
	))
}

func (db *PostgresDB) scanUser(row *sql.Row) (*user.User, error) {
	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.Name, &usr.Email, &usr.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return usr, nil
}

// ListEmployees returns the owner's records ordered by (last_name, first_name).
func (db *PostgresDB) ListEmployees(ctx context.Context, ownerID string) ([]employee.Employee, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, first_name, last_name, email, department, salary
				FROM employees
				WHERE user_id = $1
				ORDER BY last_name, first_name
		`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []employee.Employee{}
	for rows.Next() {
		var empl employee.Employee
		err = rows.Scan(
			&empl.ID,
			&empl.FirstName,
			&empl.LastName,
			&empl.Email,
			&empl.Department,
			&empl.Salary,
		)
		if err != nil {
			return nil, err
		}

		result = append(result, empl)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CreateEmployee inserts a new employee row owned by ownerID.
// Returns models.ErrEmailConflict if the owner already has a record
// with the same email in any letter case.
func (db *PostgresDB) CreateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO employees (id, user_id, first_name, last_name, email, department, salary)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
		empl.ID,
		ownerID,
		empl.FirstName,
		empl.LastName,
		empl.Email,
		empl.Department,
		empl.Salary,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailConflict
		}
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/CreateEmployee(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}

	return nil
}

// UpdateEmployee rewrites the row matching (empl.ID, ownerID).
// Returns models.ErrNotFound when no row matches and models.ErrEmailConflict
// when the new email collides with another record of the same owner.
func (db *PostgresDB) UpdateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error {
	result, err := db.database.ExecContext(
		ctx,
		`
			UPDATE employees
				SET first_name = $1,
					last_name = $2,
					email = $3,
					department = $4,
					salary = $5
				WHERE id = $6 AND user_id = $7
		`,
		empl.FirstName,
		empl.LastName,
		empl.Email,
		empl.Department,
		empl.Salary,
		empl.ID,
		ownerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailConflict
		}
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/UpdateEmployee(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteEmployee removes the row matching (employeeID, ownerID).
// Returns models.ErrNotFound when no row matches.
func (db *PostgresDB) DeleteEmployee(ctx context.Context, ownerID, employeeID string) error {
	result, err := db.database.ExecContext(
		ctx,
		`DELETE FROM employees WHERE id = $1 AND user_id = $2`,
		employeeID,
		ownerID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Ping verifies connectivity with the PostgreSQL database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}
