// Package router assembles the HTTP API: authentication endpoints, the
// owner-scoped employee CRUD, the export downloads and the health check.
// Request bodies are validated once here, at the boundary; handlers below
// deal only with well-formed input.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/staffbook/internal/auth"
	"github.com/patric-chuzhbe/staffbook/internal/authenticator"
	"github.com/patric-chuzhbe/staffbook/internal/employee"
	"github.com/patric-chuzhbe/staffbook/internal/export"
	"github.com/patric-chuzhbe/staffbook/internal/gzippedhttp"
	"github.com/patric-chuzhbe/staffbook/internal/logger"
	"github.com/patric-chuzhbe/staffbook/internal/models"
	"github.com/patric-chuzhbe/staffbook/internal/service"
	"github.com/patric-chuzhbe/staffbook/internal/user"
	"github.com/patric-chuzhbe/staffbook/internal/viewpipe"
)

type employeeService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*user.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*user.User, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)

	ListEmployees(ctx context.Context, ownerID string) ([]employee.Employee, error)
	CreateEmployee(ctx context.Context, ownerID string, req models.EmployeeRequest) (*employee.Employee, error)
	UpdateEmployee(ctx context.Context, ownerID, employeeID string, req models.EmployeeRequest) (*employee.Employee, error)
	DeleteEmployee(ctx context.Context, ownerID, employeeID string) error
	Departments(ctx context.Context, ownerID string) ([]string, error)
	FilteredEmployees(ctx context.Context, ownerID string, state viewpipe.State) ([]employee.Employee, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Router holds the HTTP handlers of the service.
type Router struct {
	service  employeeService
	db       pinger
	auth     authenticator.Authenticator
	validate *validator.Validate
}

// New builds the chi mux with all routes and middleware attached.
func New(
	svc *service.Service,
	db pinger,
	theAuth authenticator.Authenticator,
) http.Handler {
	theRouter := &Router{
		service:  svc,
		db:       db,
		auth:     theAuth,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipRequest,
	)

	router.Get(`/ping`, theRouter.GetPing)

	router.Route(`/api/auth`, func(r chi.Router) {
		r.Use(gzippedhttp.GzipResponse)
		r.Post(`/register`, theRouter.PostApiauthregister)
		r.Post(`/login`, theRouter.PostApiauthlogin)
		r.Post(`/logout`, theRouter.PostApiauthlogout)
		r.With(theAuth.AuthenticateUser).Get(`/me`, theRouter.GetApiauthme)
	})

	router.Route(`/api/employees`, func(r chi.Router) {
		r.Use(theAuth.AuthenticateUser)
		r.With(gzippedhttp.GzipResponse).Get(`/`, theRouter.GetApiemployees)
		r.With(gzippedhttp.GzipResponse).Get(`/departments`, theRouter.GetApiemployeesdepartments)
		r.Get(`/export`, theRouter.GetApiemployeesexport)
		r.Post(`/`, theRouter.PostApiemployees)
		r.Put(`/{id}`, theRouter.PutApiemployee)
		r.Delete(`/{id}`, theRouter.DeleteApiemployee)
	})

	return router
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response: ", zap.Error(err))
	}
}

func writeError(response http.ResponseWriter, status int, message string) {
	writeJSON(response, status, models.ErrorResponse{Error: message})
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid request body"
	}

	fieldError := validationErrors[0]
	field := fieldError.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}

	switch fieldError.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " is too short"
	case "gte":
		return field + " must not be negative"
	}

	return field + " is invalid"
}

func (theRouter *Router) decodeAndValidate(request *http.Request, target interface{}) (string, bool) {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return "invalid request body", false
	}

	if err := theRouter.validate.Struct(target); err != nil {
		return validationMessage(err), false
	}

	return "", true
}

// mapEmployeeError translates service errors into HTTP error responses.
func mapEmployeeError(response http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrEmailConflict):
		writeError(response, http.StatusConflict, models.ErrEmailConflict.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(response, http.StatusNotFound, models.ErrNotFound.Error())
	default:
		logger.Log.Debugln("Storage error: ", zap.Error(err))
		writeError(response, http.StatusInternalServerError, "internal error")
	}
}

// GetPing reports whether the storage backend is reachable.
func (theRouter *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := theRouter.db.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `theRouter.db.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// PostApiauthregister creates a new account.
func (theRouter *Router) PostApiauthregister(response http.ResponseWriter, request *http.Request) {
	var req models.RegisterRequest
	if message, ok := theRouter.decodeAndValidate(request, &req); !ok {
		writeError(response, http.StatusBadRequest, message)
		return
	}

	usr, err := theRouter.service.Register(request.Context(), req)
	if err != nil {
		mapEmployeeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, usr)
}

// PostApiauthlogin verifies the credentials and issues a session cookie.
func (theRouter *Router) PostApiauthlogin(response http.ResponseWriter, request *http.Request) {
	var req models.LoginRequest
	if message, ok := theRouter.decodeAndValidate(request, &req); !ok {
		writeError(response, http.StatusBadRequest, message)
		return
	}

	usr, err := theRouter.service.Login(request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			writeError(response, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
			return
		}
		mapEmployeeError(response, err)
		return
	}

	if err := theRouter.auth.IssueSession(response, usr.ID); err != nil {
		logger.Log.Debugln("Error calling the `theRouter.auth.IssueSession()`: ", zap.Error(err))
		writeError(response, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(response, http.StatusOK, usr)
}

// PostApiauthlogout clears the session cookie.
func (theRouter *Router) PostApiauthlogout(response http.ResponseWriter, request *http.Request) {
	theRouter.auth.ClearSession(response)
	response.WriteHeader(http.StatusNoContent)
}

// GetApiauthme returns the authenticated user.
func (theRouter *Router) GetApiauthme(response http.ResponseWriter, request *http.Request) {
	userID, _ := auth.UserIDFromContext(request.Context())

	usr, err := theRouter.service.GetUser(request.Context(), userID)
	if err != nil {
		mapEmployeeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, usr)
}

// GetApiemployees returns all records of the caller,
// ordered by (lastName, firstName).
func (theRouter *Router) GetApiemployees(response http.ResponseWriter, request *http.Request) {
	userID, _ := auth.UserIDFromContext(request.Context())

	records, err := theRouter.service.ListEmployees(request.Context(), userID)
	if err != nil {
		mapEmployeeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, records)
}

// PostApiemployees creates a record owned by the caller.
func (theRouter *Router) PostApiemployees(response http.ResponseWriter, request *http.Request) {
	userID, _ := auth.UserIDFromContext(request.Context())

	var req models.EmployeeRequest
	if message, ok := theRouter.decodeAndValidate(request, &req); !ok {
		writeError(response, http.StatusBadRequest, message)
		return
	}

	empl, err := theRouter.service.CreateEmployee(request.Context(), userID, req)
	if err != nil {
		mapEmployeeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, empl)
}

// PutApiemployee rewrites the record matching the id in the URL,
// if the caller owns it.
func (theRouter *Router) PutApiemployee(response http.ResponseWriter, request *http.Request) {
	userID, _ := auth.UserIDFromContext(request.Context())
	employeeID := chi.URLParam(request, "id")

	var req models.EmployeeRequest
	if message, ok := theRouter.decodeAndValidate(request, &req); !ok {
		writeError(response, http.StatusBadRequest, message)
		return
	}

	empl, err := theRouter.service.UpdateEmployee(request.Context(), userID, employeeID, req)
	if err != nil {
		mapEmployeeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, empl)
}

// DeleteApiemployee removes the record matching the id in the URL,
// if the caller owns it.
func (theRouter *Router) DeleteApiemployee(response http.ResponseWriter, request *http.Request) {
	userID, _ := auth.UserIDFromContext(request.Context())
	employeeID := chi.URLParam(request, "id")

	if err := theRouter.service.DeleteEmployee(request.Context(), userID, employeeID); err != nil {
		mapEmployeeError(response, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

// GetApiemployeesdepartments returns the distinct departments
// of the caller's records.
func (theRouter *Router) GetApiemployeesdepartments(response http.ResponseWriter, request *http.Request) {
	userID, _ := auth.UserIDFromContext(request.Context())

	departments, err := theRouter.service.Departments(request.Context(), userID)
	if err != nil {
		mapEmployeeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, departments)
}

func exportStateFromQuery(request *http.Request) viewpipe.State {
	query := request.URL.Query()

	state := viewpipe.NewState().WithSearch(query.Get("search"))

	if department := query.Get("department"); department != "" {
		state = state.WithDepartment(department)
	}

	if sortField := query.Get("sort"); sortField != "" {
		state.SortField = viewpipe.SortField(sortField)
	}
	if query.Get("order") == string(viewpipe.Descending) {
		state.Direction = viewpipe.Descending
	}

	return state
}

// GetApiemployeesexport streams the caller's filtered, unpaged view as a
// CSV or XLSX download, depending on the `format` query parameter.
func (theRouter *Router) GetApiemployeesexport(response http.ResponseWriter, request *http.Request) {
	userID, _ := auth.UserIDFromContext(request.Context())

	format := request.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		writeError(response, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	records, err := theRouter.service.FilteredEmployees(
		request.Context(),
		userID,
		exportStateFromQuery(request),
	)
	if err != nil {
		mapEmployeeError(response, err)
		return
	}

	response.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=employees.%s", format),
	)

	if format == "csv" {
		response.Header().Set("Content-Type", "text/csv")
		err = export.WriteCSV(response, records)
	} else {
		response.Header().Set(
			"Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		)
		err = export.WriteXLSX(response, records)
	}
	if err != nil {
		logger.Log.Debugln("Error writing the export: ", zap.Error(err))
	}
}
