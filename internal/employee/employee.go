// Package employee defines the employee record model owned by users.
package employee

// Employee is a single personnel record.
// The (owner, lowercased email) pair is unique per store.
type Employee struct {
	// ID is the unique identifier of the record, meaning a UUID.
	ID string `json:"id"`

	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`

	// Salary is a non-negative amount in whole currency units.
	Salary int64 `json:"salary"`
}
