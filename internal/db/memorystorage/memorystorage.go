// Package memorystorage provides a purely in-memory storage backend.
// It reuses the jsondb cache logic but never touches the filesystem.
package memorystorage

import (
	"github.com/patric-chuzhbe/staffbook/internal/db/jsondb"
	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/user"
)

// MemoryStorage keeps all data in process memory.
type MemoryStorage struct {
	*jsondb.JSONDB
}

// New returns an empty in-memory storage.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.CacheStruct{
				Users:     map[string]*user.User{},
				Employees: map[string]map[string]*employee.Employee{},
			},
		},
	}, nil
}

// Close is a no-op: there is nothing to flush.
func (theStorage *MemoryStorage) Close() error {
	return nil
}
