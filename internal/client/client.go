// Package client implements the consumer side of the employee API the way
// the browser UI uses it: one authenticated session per client, the full
// employee list fetched into an in-memory cache, views and exports derived
// locally from that cache, and the cache patched only after the server
// confirms a mutation.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/cookiejar"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/export"
	"github.com/patric-chuzhbe/staffbook/internal/models"
	"github.com/patric-chuzhbe/staffbook/internal/user"
	"github.com/patric-chuzhbe/staffbook/internal/viewpipe"
)

// APIError carries the status and message of a non-2xx API response.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a stateful API consumer. Like the single-threaded browser code
// it mirrors, it is not safe for concurrent use.
type Client struct {
	http *resty.Client

	cache  []employee.Employee
	loaded bool
}

// New returns a Client talking to the given base URL.
// The session cookie is kept in an in-memory cookie jar.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		http: resty.New().SetBaseURL(baseURL).SetCookieJar(jar),
	}, nil
}

func apiError(resp *resty.Response) error {
	message := "unexpected response"

	var envelope models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}

	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    message,
	}
}

// Register creates a new account. It does not start a session; call Login next.
func (c *Client) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	usr := &user.User{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(models.RegisterRequest{Name: name, Email: email, Password: password}).
		SetResult(usr).
		Post("/api/auth/register")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return usr, nil
}

// Login starts a session. The session cookie lands in the client's jar and
// accompanies every subsequent request.
func (c *Client) Login(ctx context.Context, email, password string) (*user.User, error) {
	usr := &user.User{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(models.LoginRequest{Email: email, Password: password}).
		SetResult(usr).
		Post("/api/auth/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return usr, nil
}

// Logout ends the session and drops the cached employee list.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post("/api/auth/logout")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	c.cache = nil
	c.loaded = false

	return nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	usr := &user.User{}
	resp, err := c.http.R().SetContext(ctx).SetResult(usr).Get("/api/auth/me")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return usr, nil
}

// Reload fetches the full employee list from the server into the cache,
// replacing whatever was there.
func (c *Client) Reload(ctx context.Context) ([]employee.Employee, error) {
	records := []employee.Employee{}
	resp, err := c.http.R().SetContext(ctx).SetResult(&records).Get("/api/employees")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	c.cache = records
	c.loaded = true

	return records, nil
}

// Employees returns the cached list, fetching it on first use.
func (c *Client) Employees(ctx context.Context) ([]employee.Employee, error) {
	if c.loaded {
		return c.cache, nil
	}

	return c.Reload(ctx)
}

// CreateEmployee sends the record to the server and, only on a confirmed
// success, appends the stored version to the cache.
func (c *Client) CreateEmployee(ctx context.Context, req models.EmployeeRequest) (*employee.Employee, error) {
	empl := &employee.Employee{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(empl).
		Post("/api/employees")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	if c.loaded {
		c.cache = append(c.cache, *empl)
	}

	return empl, nil
}

// UpdateEmployee sends the new field values and patches the cached record
// on success.
func (c *Client) UpdateEmployee(
	ctx context.Context,
	employeeID string,
	req models.EmployeeRequest,
) (*employee.Employee, error) {
	empl := &employee.Employee{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(empl).
		Put("/api/employees/" + employeeID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	for i := range c.cache {
		if c.cache[i].ID == employeeID {
			c.cache[i] = *empl
			break
		}
	}

	return empl, nil
}

// DeleteEmployee removes the record on the server and drops it from the
// cache on success.
func (c *Client) DeleteEmployee(ctx context.Context, employeeID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/api/employees/" + employeeID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	for i := range c.cache {
		if c.cache[i].ID == employeeID {
			c.cache = append(c.cache[:i], c.cache[i+1:]...)
			break
		}
	}

	return nil
}

// View derives the visible page from the cached list. Call Employees or
// Reload first; an unloaded cache yields an empty view.
func (c *Client) View(state viewpipe.State) viewpipe.View {
	return viewpipe.Apply(c.cache, state)
}

// Departments returns the distinct departments of the cached list.
func (c *Client) Departments() []string {
	return viewpipe.Departments(c.cache)
}

// ExportCSV writes the filtered, unpaged view of the cached list as CSV.
// It is a local transform; nothing is fetched.
func (c *Client) ExportCSV(w io.Writer, state viewpipe.State) error {
	return export.WriteCSV(w, viewpipe.Filtered(c.cache, state))
}

// ExportXLSX writes the filtered, unpaged view of the cached list as a
// spreadsheet. It is a local transform; nothing is fetched.
func (c *Client) ExportXLSX(w io.Writer, state viewpipe.State) error {
	return export.WriteXLSX(w, viewpipe.Filtered(c.cache, state))
}
