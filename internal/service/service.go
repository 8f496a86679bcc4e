// Package service implements the application's use cases over the storage
// layer: account registration and login, and owner-scoped employee CRUD.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/models"
	"github.com/patric-chuzhbe/staffbook/internal/user"
	"github.com/patric-chuzhbe/staffbook/internal/viewpipe"
)

type userKeeper interface {
	CreateUser(ctx context.Context, usr *user.User) error
	GetUserByID(ctx context.Context, userID string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
}

type employeeKeeper interface {
	ListEmployees(ctx context.Context, ownerID string) ([]employee.Employee, error)
	CreateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error
	UpdateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error
	DeleteEmployee(ctx context.Context, ownerID, employeeID string) error
}

type storage interface {
	userKeeper
	employeeKeeper
}

// Service wires the use cases to a storage backend.
type Service struct {
	db storage
}

// New returns a Service backed by db.
func New(db storage) *Service {
	return &Service{db: db}
}

// Register creates a new account with a bcrypt-hashed password.
// Returns models.ErrEmailConflict if the email is already taken.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usr := &user.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.db.CreateUser(ctx, usr); err != nil {
		return nil, err
	}

	return usr, nil
}

// Login verifies the credentials and returns the matching user.
// Both an unknown email and a wrong password yield
// models.ErrInvalidCredentials, so callers cannot probe for accounts.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*user.User, error) {
	usr, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return usr, nil
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, userID string) (*user.User, error) {
	return s.db.GetUserByID(ctx, userID)
}

// ListEmployees returns the owner's records ordered by (lastName, firstName).
func (s *Service) ListEmployees(ctx context.Context, ownerID string) ([]employee.Employee, error) {
	return s.db.ListEmployees(ctx, ownerID)
}

// CreateEmployee stores a new record for ownerID and returns it with its
// generated id.
func (s *Service) CreateEmployee(
	ctx context.Context,
	ownerID string,
	req models.EmployeeRequest,
) (*employee.Employee, error) {
	empl := &employee.Employee{
		ID:         uuid.New().String(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
		Salary:     *req.Salary,
	}

	if err := s.db.CreateEmployee(ctx, ownerID, empl); err != nil {
		return nil, err
	}

	return empl, nil
}

// UpdateEmployee rewrites the record matching (employeeID, ownerID)
// and returns the stored version.
func (s *Service) UpdateEmployee(
	ctx context.Context,
	ownerID string,
	employeeID string,
	req models.EmployeeRequest,
) (*employee.Employee, error) {
	empl := &employee.Employee{
		ID:         employeeID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
		Salary:     *req.Salary,
	}

	if err := s.db.UpdateEmployee(ctx, ownerID, empl); err != nil {
		return nil, err
	}

	return empl, nil
}

// DeleteEmployee removes the record matching (employeeID, ownerID).
func (s *Service) DeleteEmployee(ctx context.Context, ownerID, employeeID string) error {
	return s.db.DeleteEmployee(ctx, ownerID, employeeID)
}

// Departments returns the distinct departments of the owner's records.
func (s *Service) Departments(ctx context.Context, ownerID string) ([]string, error) {
	records, err := s.db.ListEmployees(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return viewpipe.Departments(records), nil
}

// FilteredEmployees runs the view pipeline's filter and sort over the
// owner's records without pagination. It backs the export endpoint.
func (s *Service) FilteredEmployees(
	ctx context.Context,
	ownerID string,
	state viewpipe.State,
) ([]employee.Employee, error) {
	records, err := s.db.ListEmployees(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return viewpipe.Filtered(records, state), nil
}
