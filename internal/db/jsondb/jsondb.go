// Package jsondb implements the storage interface on top of a single JSON
// file. The whole dataset lives in memory and is flushed to disk on Close.
// It is meant for local development and tests, not for real deployments.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/models"
	"github.com/patric-chuzhbe/staffbook/internal/user"
)

// JSONDB is a file-backed in-memory storage.
type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

// CacheStruct is the serialized shape of the database file.
type CacheStruct struct {
	// Users is keyed by user id.
	Users map[string]*user.User

	// Employees is keyed by owner id, then by employee id.
	Employees map[string]map[string]*employee.Employee
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": {},
	"Employees": {}
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	return decoder.Decode(cacheMap)
}

// New opens or creates the database file and loads its content.
func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, err
		}
		err = parseJSONFile(db.fileName, &db.Cache)
		if err != nil {
			return nil, err
		}
	}

	if db.Cache.Users == nil {
		db.Cache.Users = map[string]*user.User{}
	}
	if db.Cache.Employees == nil {
		db.Cache.Employees = map[string]map[string]*employee.Employee{}
	}

	return &db, nil
}

// CreateUser stores a new user.
// Returns models.ErrEmailConflict if the email is already registered.
func (db *JSONDB) CreateUser(ctx context.Context, usr *user.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.Cache.Users {
		if strings.EqualFold(existing.Email, usr.Email) {
			return models.ErrEmailConflict
		}
	}

	clone := *usr
	db.Cache.Users[usr.ID] = &clone

	return nil
}

// GetUserByID returns the user with the given id or models.ErrNotFound.
func (db *JSONDB) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	usr, found := db.Cache.Users[userID]
	if !found {
		return nil, models.ErrNotFound
	}

	clone := *usr
	return &clone, nil
}

// GetUserByEmail returns the user with the given email, case-insensitively,
// or models.ErrNotFound.
func (db *JSONDB) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if strings.EqualFold(usr.Email, email) {
			clone := *usr
			return &clone, nil
		}
	}

	return nil, models.ErrNotFound
}

// ListEmployees returns the owner's records ordered by (lastName, firstName).
func (db *JSONDB) ListEmployees(ctx context.Context, ownerID string) ([]employee.Employee, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := []employee.Employee{}
	for _, empl := range db.Cache.Employees[ownerID] {
		result = append(result, *empl)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})

	return result, nil
}

func (db *JSONDB) isEmployeeEmailTaken(ownerID, email, exceptID string) bool {
	for _, empl := range db.Cache.Employees[ownerID] {
		if empl.ID != exceptID && strings.EqualFold(empl.Email, email) {
			return true
		}
	}

	return false
}

// CreateEmployee stores a new record owned by ownerID.
// Returns models.ErrEmailConflict on a per-owner email collision.
func (db *JSONDB) CreateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.isEmployeeEmailTaken(ownerID, empl.Email, "") {
		return models.ErrEmailConflict
	}

	if db.Cache.Employees[ownerID] == nil {
		db.Cache.Employees[ownerID] = map[string]*employee.Employee{}
	}

	clone := *empl
	db.Cache.Employees[ownerID][empl.ID] = &clone

	return nil
}

// UpdateEmployee rewrites the record matching (empl.ID, ownerID).
func (db *JSONDB) UpdateEmployee(ctx context.Context, ownerID string, empl *employee.Employee) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, found := db.Cache.Employees[ownerID][empl.ID]; !found {
		return models.ErrNotFound
	}

	if db.isEmployeeEmailTaken(ownerID, empl.Email, empl.ID) {
		return models.ErrEmailConflict
	}

	clone := *empl
	db.Cache.Employees[ownerID][empl.ID] = &clone

	return nil
}

// DeleteEmployee removes the record matching (employeeID, ownerID).
func (db *JSONDB) DeleteEmployee(ctx context.Context, ownerID, employeeID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, found := db.Cache.Employees[ownerID][employeeID]; !found {
		return models.ErrNotFound
	}

	delete(db.Cache.Employees[ownerID], employeeID)

	return nil
}

// Ping always succeeds for the file-backed storage.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the cache to the database file.
func (db *JSONDB) Close() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, db.Cache)
}
