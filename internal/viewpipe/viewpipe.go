// Package viewpipe derives the visible portion of an employee list from an
// explicit view state: filter, then stable sort, then paginate. Every
// function is pure, so the same inputs always produce the same view.
package viewpipe

import (
	"sort"
	"strings"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
)

// SortField selects the comparator used when ordering the filtered rows.
type SortField string

// Supported sort fields.
const (
	SortByName       SortField = "name"
	SortByEmail      SortField = "email"
	SortByDepartment SortField = "department"
	SortBySalary     SortField = "salary"
)

// Direction is the sort direction.
type Direction string

// Supported sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// DepartmentAll disables the department filter.
const DepartmentAll = "all"

// PageSizes is the fixed set of selectable page sizes.
var PageSizes = []int{5, 10, 25, 50}

// DefaultPageSize is used when the state carries no valid page size.
const DefaultPageSize = 10

// State is the full input of the pipeline apart from the records themselves.
// The zero value is not useful; start from NewState and evolve it through
// the With* and ToggleSort transitions.
type State struct {
	Search     string    `json:"search"`
	Department string    `json:"department"`
	SortField  SortField `json:"sortField"`
	Direction  Direction `json:"direction"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
}

// Pagination describes where the returned page sits in the filtered set.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalRows  int `json:"totalRows"`
}

// View is the derived output: one page of rows plus pagination metadata.
type View struct {
	Rows       []employee.Employee `json:"rows"`
	Pagination Pagination          `json:"pagination"`
}

// NewState returns the initial view state: no filters, name ascending,
// first page of DefaultPageSize rows.
func NewState() State {
	return State{
		Search:     "",
		Department: DepartmentAll,
		SortField:  SortByName,
		Direction:  Ascending,
		Page:       1,
		PageSize:   DefaultPageSize,
	}
}

// WithSearch sets the search text and resets to the first page.
func (s State) WithSearch(search string) State {
	s.Search = search
	s.Page = 1
	return s
}

// WithDepartment sets the department filter and resets to the first page.
func (s State) WithDepartment(department string) State {
	s.Department = department
	s.Page = 1
	return s
}

// WithPageSize switches to one of the allowed page sizes and resets to the
// first page. Sizes outside PageSizes leave the state unchanged.
func (s State) WithPageSize(pageSize int) State {
	if !funk.ContainsInt(PageSizes, pageSize) {
		return s
	}
	s.PageSize = pageSize
	s.Page = 1
	return s
}

// WithPage moves to the given page. The value is clamped during Apply,
// so out-of-range requests are safe.
func (s State) WithPage(page int) State {
	s.Page = page
	return s
}

// ToggleSort applies the sort-header click semantics: a repeated click on
// the current field flips the direction, a click on another field switches
// to it ascending.
func (s State) ToggleSort(field SortField) State {
	if s.SortField == field {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return s
	}

	s.SortField = field
	s.Direction = Ascending
	return s
}

func matches(empl employee.Employee, search, department string) bool {
	if department != DepartmentAll && empl.Department != department {
		return false
	}

	if search == "" {
		return true
	}

	needle := strings.ToLower(search)
	fullName := strings.ToLower(empl.FirstName + " " + empl.LastName)

	return strings.Contains(fullName, needle) ||
		strings.Contains(strings.ToLower(empl.Email), needle) ||
		strings.Contains(strings.ToLower(empl.Department), needle)
}

func less(a, b employee.Employee, field SortField) bool {
	switch field {
	case SortBySalary:
		return a.Salary < b.Salary
	case SortByEmail:
		return strings.ToLower(a.Email) < strings.ToLower(b.Email)
	case SortByDepartment:
		return strings.ToLower(a.Department) < strings.ToLower(b.Department)
	default:
		nameA := strings.ToLower(a.FirstName + " " + a.LastName)
		nameB := strings.ToLower(b.FirstName + " " + b.LastName)
		return nameA < nameB
	}
}

// Filtered returns the records matching the state's search and department
// criteria, stably sorted, without pagination. The input slice is not
// modified. This is the view the export adapter consumes.
func Filtered(records []employee.Employee, state State) []employee.Employee {
	result := make([]employee.Employee, 0, len(records))
	for _, empl := range records {
		if matches(empl, state.Search, state.Department) {
			result = append(result, empl)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if state.Direction == Descending {
			return less(result[j], result[i], state.SortField)
		}
		return less(result[i], result[j], state.SortField)
	})

	return result
}

// Apply runs the full pipeline and returns the page of rows the state
// points at. The page number is clamped to [1, totalPages], where an empty
// filtered set still counts as one page.
func Apply(records []employee.Employee, state State) View {
	pageSize := state.PageSize
	if !funk.ContainsInt(PageSizes, pageSize) {
		pageSize = DefaultPageSize
	}

	filtered := Filtered(records, state)

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := state.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	from := (page - 1) * pageSize
	to := from + pageSize
	if from > len(filtered) {
		from = len(filtered)
	}
	if to > len(filtered) {
		to = len(filtered)
	}

	return View{
		Rows: filtered[from:to],
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalRows:  len(filtered),
		},
	}
}

// Departments returns the distinct departments present in records,
// sorted alphabetically. It feeds the department filter choices.
func Departments(records []employee.Employee) []string {
	departments := make([]string, 0, len(records))
	for _, empl := range records {
		departments = append(departments, empl.Department)
	}

	result := funk.UniqString(departments)
	sort.Strings(result)

	return result
}
